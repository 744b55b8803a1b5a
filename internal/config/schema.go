package config

import "time"

// Config is the full xp configuration.
type Config struct {
	// Timezone is the fixed IANA zone that due dates are computed in.
	Timezone string `yaml:"timezone" mapstructure:"timezone"`

	DBPath string `yaml:"db_path" mapstructure:"db_path"`

	// UserID namespaces remote records. It is treated as opaque.
	UserID string `yaml:"user_id" mapstructure:"user_id"`

	Remote RemoteConfig `yaml:"remote" mapstructure:"remote"`

	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`

	LogLevel string `yaml:"log_level" mapstructure:"log_level"`

	Server ServerConfig `yaml:"server" mapstructure:"server"`
}

// RemoteConfig selects the authoritative document store. URL wins over
// Path; with neither set the app runs local-only.
type RemoteConfig struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Path    string        `yaml:"path" mapstructure:"path"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ServerConfig configures `xp serve`.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}
