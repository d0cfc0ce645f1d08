package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file into the process environment outside
// production. A missing file is not an error.
func LoadDotEnv() {
	if os.Getenv("MEMORA_ENV") == "production" {
		return
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn(".env file could not be loaded, environment variables might not be set", "error", err)
	}
}
