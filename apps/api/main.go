package main

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/mentorhub/agenda/apps/api/echo"
	"github.com/mentorhub/agenda/core"
	"github.com/mentorhub/agenda/core/schedule"
	emailsvc "github.com/mentorhub/agenda/services/email"
	logsvc "github.com/mentorhub/agenda/services/logger"
	"github.com/mentorhub/agenda/services/scheduleapi"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up logger
	var logger core.Logger
	if core.Conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	store := schedule.NewStore(time.Now())
	svc := schedule.NewService(scheduleapi.NewClient(logger), store, logger, mailSvc)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:        core.Conf.Server.Addr,
			ScheduleSvc: svc,
			Logger:      logger,
			Validate:    validate,
			Translator:  translator,
		},
	)
	app.Start()
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
