// internal/config/config.go
//
// Process configuration shared by the binaries.
// Values come from the environment, optionally seeded from a .env file
// (godotenv), and fall back to development defaults.
//
// Environment variables:
//   LOG_LEVEL=info            zerolog level name
//   PORT=5175                 HTTP listen port (guessd)
//   DB_PATH=./data/edurust.db sqlite history file; empty disables history
//   TICKET_SECRET=...         HS256 key for game tickets
//   TICKET_TTL_HOURS=24       ticket lifetime
//   DAILY_SALT=...            HMAC key for the daily secret
//   CLIENT_ORIGIN=...         CORS origin for browser clients

package config

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds resolved settings.
type Config struct {
	LogLevel     string
	Port         string
	DBPath       string
	TicketSecret string
	TicketTTL    time.Duration
	DailySalt    string
	ClientOrigin string
}

// Load reads .env files (if present) and resolves Config from the environment.
// A missing .env is not an error.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)
	return Config{
		LogLevel:     GetEnv("LOG_LEVEL", "info"),
		Port:         GetEnv("PORT", "5175"),
		DBPath:       lookupEnv("DB_PATH", "./data/edurust.db"),
		TicketSecret: GetEnv("TICKET_SECRET", "dev_secret_change_me"),
		TicketTTL:    time.Duration(envInt("TICKET_TTL_HOURS", 24)) * time.Hour,
		DailySalt:    GetEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin: GetEnv("CLIENT_ORIGIN", "http://localhost:5173"),
	}
}

// GetEnv returns the value of k or def if unset/empty.
func GetEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// lookupEnv is like GetEnv but honours an explicitly empty value.
func lookupEnv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// SetupLogger points the global zerolog logger at w and applies level.
// When human is true, output goes through a ConsoleWriter.
// An unknown level leaves the current global level unchanged.
func SetupLogger(w io.Writer, level string, human bool) {
	if human {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}
