package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/julianstephens/dailyq/internal/constants"
	"github.com/julianstephens/dailyq/internal/utils"
)

// Config is the resolved runtime configuration.
type Config struct {
	DBPath    string
	ConfigDir string
	Debug     bool
	Timezone  string
	Location  *time.Location
}

// EnvFilePath is the optional dotenv file next to the default database.
func EnvFilePath() (string, error) {
	path, err := utils.ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), constants.EnvFileName), nil
}

// LoadEnv loads KEY=value pairs from path into the environment. Variables that
// are already set win. A missing file is not an error.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Resolve expands the database path and loads the timezone.
func Resolve(dbPath string, debug bool, timezone string) (Config, error) {
	if dbPath == "" {
		dbPath = constants.DefaultConfigPath
	}
	expanded, err := utils.ExpandPath(dbPath)
	if err != nil {
		return Config{}, err
	}

	if timezone == "" {
		timezone = constants.DefaultTimezone
	}
	loc, err := utils.LoadLocation(timezone)
	if err != nil {
		return Config{}, err
	}

	return Config{
		DBPath:    expanded,
		ConfigDir: filepath.Dir(expanded),
		Debug:     debug,
		Timezone:  timezone,
		Location:  loc,
	}, nil
}
