package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LocalEnvFile is loaded when APP_ENV is "local".
const LocalEnvFile = ".env.local"

// LoadEnv loads environment variables from .env.local if APP_ENV is "local".
// It reports whether the file was loaded; a missing file is returned as an error
// the caller may log and ignore, system environment variables still apply.
func LoadEnv() (bool, error) {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development" // Default to development if not set
		os.Setenv("APP_ENV", appEnv)
	}

	if appEnv != "local" {
		return false, nil
	}
	if err := godotenv.Load(LocalEnvFile); err != nil {
		return false, fmt.Errorf("load %s: %w", LocalEnvFile, err)
	}
	return true, nil
}
