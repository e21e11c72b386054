// Package homeroom wires configuration and startup for the homeroom binary.
package homeroom

import (
	"flag"

	"github.com/ghchoi48/homeroom/internal/platform/config"
)

// Config holds homeroom command configuration.
type Config struct {
	DBPath          string `env:"HOMEROOM_DB_PATH"`
	SettingsPath    string `env:"HOMEROOM_SETTINGS_PATH"`
	SkipUpdateCheck bool   `env:"HOMEROOM_SKIP_UPDATE_CHECK"`
}

// ParseConfig parses environment variables and flags into a Config. Flags win
// over the environment.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		DBPath:       "counseling.db",
		SettingsPath: "settings.toml",
	}
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the counseling database file")
	fs.StringVar(&cfg.SettingsPath, "settings", cfg.SettingsPath, "path to the settings file")
	fs.BoolVar(&cfg.SkipUpdateCheck, "skip-update-check", cfg.SkipUpdateCheck, "skip the release version check on startup")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
