package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultTimezone      = "America/New_York"
	DefaultUserID        = "local"
	DefaultRemoteTimeout = 10 * time.Second
	DefaultSweepInterval = 5 * time.Minute
	DefaultLogLevel      = "info"
	DefaultServerAddr    = "127.0.0.1:18430"
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Timezone:      DefaultTimezone,
		DBPath:        filepath.Join(HomeDir(), "xp.db"),
		UserID:        DefaultUserID,
		Remote:        RemoteConfig{Timeout: DefaultRemoteTimeout},
		SweepInterval: DefaultSweepInterval,
		LogLevel:      DefaultLogLevel,
		Server:        ServerConfig{Addr: DefaultServerAddr},
	}
}

// HomeDir is $XP_HOME, or ~/.xp.
func HomeDir() string {
	if dir := os.Getenv("XP_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xp"
	}
	return filepath.Join(home, ".xp")
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// WriteDefault writes a commented starter config to path.
func WriteDefault(path string) error {
	content := `# xp configuration

# Due dates roll over at midnight in this zone.
timezone: America/New_York

# db_path: ~/.xp/xp.db
user_id: local

# Remote document store. Set url for an "xp serve" instance, or path for a
# shared SQLite file. Leave both empty to stay local-only.
remote:
  url: ""
  path: ""
  timeout: 10s

sweep_interval: 5m
log_level: info

server:
  addr: 127.0.0.1:18430
`
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
