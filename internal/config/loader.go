package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Load reads path (Path() when empty), applies XP_* environment overrides
// and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("XP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("user_id", def.UserID)
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.path", "")
	v.SetDefault("remote.timeout", def.Remote.Timeout)
	v.SetDefault("sweep_interval", def.SweepInterval)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("server.addr", def.Server.Addr)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.applyDefaults(def)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults(def *Config) {
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	c.DBPath = expandHome(c.DBPath)
	c.Remote.Path = expandHome(c.Remote.Path)
	if c.UserID == "" {
		c.UserID = def.UserID
	}
	if c.Remote.Timeout <= 0 {
		c.Remote.Timeout = def.Remote.Timeout
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = def.SweepInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	// The user id is one segment of every remote document path.
	if strings.Contains(c.UserID, "/") || c.UserID == "." || c.UserID == ".." {
		return fmt.Errorf("invalid user_id %q: must be a single path segment", c.UserID)
	}
	return nil
}

// Location resolves Timezone. The zone database is embedded, so named
// zones resolve the same on every host.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ParseLevel maps a log_level string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", s)
	}
	return l, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
