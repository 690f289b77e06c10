package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *Config

type (
	ServerConfig struct {
		Host                      string
		Addr                      string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	// ScheduleConfig scopes the appointment scheduling engine: the backend it
	// fetches from, the display timezone and the working-hours window the
	// calendar grid renders.
	ScheduleConfig struct {
		BaseURL       string
		Timeout       time.Duration
		Token         string
		Timezone      string
		WorkHourStart int
		WorkHourEnd   int
	}

	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		Build            string
		AppName          string
		SecretKey        string
		WorkDir          string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		RollbarToken     string
		SendgridApiKey   string
		Server           ServerConfig
		Schedule         ScheduleConfig
	}
)

func init() {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Agenda")
	v.SetDefault("secretKey", "x#2b$8m!agenda(dev)key&do-not-use-in-prod%")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("scheduleBaseURL", "http://localhost:8080")
	v.SetDefault("scheduleTimeout", 30*time.Second)
	v.SetDefault("scheduleTimezone", "America/Sao_Paulo")
	v.SetDefault("workHourStart", 6)
	v.SetDefault("workHourEnd", 21)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	host, _ := os.Hostname()
	from := mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")}
	if addr, err := mail.ParseAddress(v.GetString("defaultFromEmail")); err == nil {
		from = *addr
	}

	Conf = &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		WorkDir:          wd,
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: from,
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		Server: ServerConfig{
			Host:                      host,
			Addr:                      v.GetString("serverAddr"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Schedule: ScheduleConfig{
			BaseURL:       v.GetString("scheduleBaseURL"),
			Timeout:       v.GetDuration("scheduleTimeout"),
			Token:         v.GetString("scheduleToken"),
			Timezone:      v.GetString("scheduleTimezone"),
			WorkHourStart: v.GetInt("workHourStart"),
			WorkHourEnd:   v.GetInt("workHourEnd"),
		},
	}
}
