package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env           string
	EventsFile    string
	MetricsFile   string
	CollationLang string
	Autoload      bool
}

// Load reads an optional .env from the working directory, then the environment.
// Variables already set in the environment win over .env values.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "config: .env:", err)
	}

	return Config{
		Env:           getEnv("APP_ENV", "dev"),
		EventsFile:    getEnv("EVENTS_FILE", "events.txt"),
		MetricsFile:   getEnv("METRICS_FILE", ""),
		CollationLang: getEnv("COLLATION_LANG", "pl"),
		Autoload:      getEnvBool("AUTOLOAD", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s=%q is not a boolean, using %t\n", key, v, fallback)
			return fallback
		}

		return b
	}
	return fallback
}
