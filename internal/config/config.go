// Package config resolves server settings from defaults, an optional config
// file, environment variables and command-line flags, in increasing priority.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	KeyPort            = "port"
	KeyDBDriver        = "db_driver"
	KeySQLitePath      = "sqlite_path"
	KeyDatabaseURL     = "database_url"
	KeyLogLevel        = "log_level"
	KeyMCPEnabled      = "mcp_enabled"
	KeyShutdownTimeout = "shutdown_timeout"
)

type Config struct {
	Port            string
	DBDriver        string
	SQLitePath      string
	DatabaseURL     string
	LogLevel        string
	MCPEnabled      bool
	ShutdownTimeout time.Duration
}

// New returns a viper instance with every key defaulted and bound to its
// upper-case environment variable (db_driver reads DB_DRIVER).
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPort, "3000")
	v.SetDefault(KeyDBDriver, DriverSQLite)
	v.SetDefault(KeySQLitePath, "data/mission-control.db")
	v.SetDefault(KeyDatabaseURL, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyMCPEnabled, true)
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file into v when it is non-empty, then resolves and validates
// the settings.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:            v.GetString(KeyPort),
		DBDriver:        strings.ToLower(v.GetString(KeyDBDriver)),
		SQLitePath:      v.GetString(KeySQLitePath),
		DatabaseURL:     v.GetString(KeyDatabaseURL),
		LogLevel:        strings.ToLower(v.GetString(KeyLogLevel)),
		MCPEnabled:      v.GetBool(KeyMCPEnabled),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite_path must be set for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown db_driver %q (want %s or %s)", c.DBDriver, DriverSQLite, DriverPostgres)
	}
	if c.Port == "" {
		return fmt.Errorf("port must be set")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
