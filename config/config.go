package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	AppName     = "lumiere-stylist"
	EnvFileName = "config.env"
)

// LoadEnvFile loads environment variables from a local .env file and from
// the config file in the user's config directory. Errors are ignored since
// the files may not exist.
func LoadEnvFile() {
	_ = godotenv.Load()

	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}
