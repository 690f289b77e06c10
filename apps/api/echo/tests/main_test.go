package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/mentorhub/agenda/apps/api/echo"
	"github.com/mentorhub/agenda/core"
	"github.com/mentorhub/agenda/core/schedule"
	emailsvc "github.com/mentorhub/agenda/services/email"
	logsvc "github.com/mentorhub/agenda/services/logger"
)

var (
	validate   *validator.Validate
	translator ut.Translator
	loc        *time.Location

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	core.Conf.Debug = false
	core.Conf.TestMode = true

	var err error
	if loc, err = time.LoadLocation(core.Conf.Schedule.Timezone); err != nil {
		log.Fatalf("loading timezone: %v", err)
	}

	validate = validator.New()
	translator = newTranslator()
	core.InitValidators(validate, translator)

	os.Exit(m.Run())
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// setup builds a fresh app around a mocked backend so tests cannot leak
// calendar state into each other.
func setup(t *testing.T, focus time.Time) (echoapi.Server, *schedule.FetcherMock, *schedule.Store) {
	t.Helper()

	fetcher := &schedule.FetcherMock{}
	store := schedule.NewStore(focus)
	logger := logsvc.NewConsoleLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	logger.Enable(false)
	svc := schedule.NewService(fetcher, store, logger, emailsvc.NewConsoleServiceMock())

	app := echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		ScheduleSvc:    svc,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
	})
	return app, fetcher, store
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, actor schedule.Actor) string {
	t.Helper()
	claims := &echoapi.Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   actor.ID,
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
		Name:  actor.Name,
		Email: actor.Email,
		Roles: actor.Roles,
	}
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func unmarshallBody(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarshallBody(): %v; body %s", err, rec.Body.String())
	}
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}
