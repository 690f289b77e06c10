package schedule

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/mentorhub/agenda/core"
)

// groupSessionComments labels every aggregated group slot.
const groupSessionComments = "Sessão de mentoria em grupo"

// AppointmentType is the backend's booking type code.
type AppointmentType int

const (
	TypeBlock       AppointmentType = 1
	TypeMeeting     AppointmentType = 2
	TypeAppointment AppointmentType = 3
	TypeGroup       AppointmentType = 4
)

var typeLabels = map[AppointmentType]string{
	TypeBlock:       "Bloqueio",
	TypeMeeting:     "Encontro Coletivo",
	TypeAppointment: "Mentoria Individual",
	TypeGroup:       "Mentoria em Grupo",
}

// Label resolves the display title for the booking type; unknown codes yield "".
func (t AppointmentType) Label() string { return typeLabels[t] }

// FlexID decodes backend identifiers that arrive either as JSON numbers or
// strings; all comparisons in the engine are on the string form.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) { return json.Marshal(string(id)) }

// Contact is a person attached to a booking (mentor or mentee).
type Contact struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// RawAppointment is a backend booking record, immutable once fetched.
// StartTime/FinishTime are naive local timestamps (core.NaiveTimeLayout, no zone).
// Client is nil for group slots that have no individual booking attached.
type RawAppointment struct {
	ID               FlexID          `json:"id"`
	StartTime        string          `json:"start_time"`
	FinishTime       string          `json:"finish_time"`
	ClassID          int             `json:"class_id"`
	EmployeeID       int             `json:"employee_id"`
	Employee         Contact         `json:"employee"`
	ClientID         int             `json:"client_id"`
	Client           *Contact        `json:"client"`
	TypeID           AppointmentType `json:"type_id"`
	AdditionalFields string          `json:"additional_fields"` // JSON-encoded Q&A, type 3 only
	Comments         string          `json:"comments"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

// GroupAppointment aggregates every raw booking of one group slot.
// It always carries at least one item and is rebuilt from scratch on every fetch.
type GroupAppointment struct {
	Key        string
	StartTime  string
	FinishTime string
	ClassID    int
	EmployeeID int
	Employee   Contact
	Comments   string
	Items      []RawAppointment
}

// AdditionalFields is the structured Q&A a mentee fills in when booking an
// individual mentorship session.
type AdditionalFields struct {
	MainTopic         string `json:"main_topic"`
	SocialNetwork     string `json:"social_network"`
	SpecificQuestions string `json:"specific_questions"`
}

// Event is the canonical calendar unit the layout engine and the rendering
// boundary consume. Group carries the aggregate's raw bookings and is only
// populated for TypeGroup events.
type Event struct {
	ID               FlexID            `json:"id"`
	Type             AppointmentType   `json:"type"`
	Start            time.Time         `json:"start"`
	End              time.Time         `json:"end"`
	Title            string            `json:"title"`
	ClientName       string            `json:"client_name"`
	AdditionalFields *AdditionalFields `json:"additional_fields,omitempty"`
	Client           *Contact          `json:"client,omitempty"`
	Employee         Contact           `json:"employee"`
	ClassID          int               `json:"class_id"`
	Group            []RawAppointment  `json:"group,omitempty"`
}

// Slot is an available booking window returned by the slot endpoints.
// AppointmentCount is only set by the group-capacity endpoint.
type Slot struct {
	StartTime        string `json:"start_time"`
	FinishTime       string `json:"finish_time"`
	AppointmentCount int    `json:"appointment_count,omitempty"`
}

// CommandResult is the backend envelope for block/unblock commands. Status is
// an application-level code carried in the body, not the HTTP status.
type CommandResult struct {
	Status int            `json:"status"`
	Data   RawAppointment `json:"data"`
}

// Roles
const (
	RoleFacilitator = "facilitator:"
	RoleSupervisor  = "supervisor:"
	RoleStudent     = "student:"
)

// Actor is the authenticated caller as seen by the engine; claims are issued
// by the external auth system.
type Actor struct {
	ID    string
	Name  string
	Email string
	Roles []string
}

func (a Actor) roleStartsWith(prefix string) bool {
	for _, role := range a.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (a Actor) IsFacilitator() bool { return a.roleStartsWith(RoleFacilitator) }
func (a Actor) IsSupervisor() bool  { return a.roleStartsWith(RoleSupervisor) }
func (a Actor) IsStudent() bool     { return a.roleStartsWith(RoleStudent) }

// parseNaive parses a backend timestamp in the display zone; an unparsable
// value degrades to the supplied fallback instant rather than failing.
func parseNaive(s string, loc *time.Location, fallback time.Time) time.Time {
	t, err := time.ParseInLocation(core.NaiveTimeLayout, s, loc)
	if err != nil {
		return fallback
	}
	return t
}

// parseAdditionalFields decodes the encoded Q&A; malformed input yields an
// empty object, never an error.
func parseAdditionalFields(encoded string) *AdditionalFields {
	flds := new(AdditionalFields)
	if err := json.Unmarshal([]byte(encoded), flds); err != nil {
		return new(AdditionalFields)
	}
	return flds
}

func itoa(n int) string { return strconv.Itoa(n) }
