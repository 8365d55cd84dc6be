package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the config file inside the home directory.
const ConfigFile = "config.yaml"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string        `yaml:"-"`         // config directory, e.g. $HOME/.xmtp
	RelayURL string        `yaml:"relay_url"` // relay base URL, e.g. http://127.0.0.1:8080
	LogLevel string        `yaml:"log_level"`
	Timeout  time.Duration `yaml:"timeout"` // per-request HTTP timeout
	Relay    RelayConfig   `yaml:"relay"`
}

// RelayConfig configures cmd/relay.
type RelayConfig struct {
	Listen    string  `yaml:"listen"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second per host
	RateBurst int     `yaml:"rate_burst"`
	MaxQueue  int     `yaml:"max_queue"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig(home string) Config {
	return Config{
		Home:     home,
		RelayURL: "http://127.0.0.1:8080",
		LogLevel: "warn",
		Timeout:  15 * time.Second,
		Relay: RelayConfig{
			Listen:    ":8080",
			RateLimit: 20,
			RateBurst: 40,
			MaxQueue:  10000,
		},
	}
}

// DefaultHome returns $HOME/.xmtp.
func DefaultHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".xmtp"), nil
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(home, path string) (Config, error) {
	cfg := DefaultConfig(home)
	if path == "" {
		path = filepath.Join(home, ConfigFile)
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Home = home
	return cfg, nil
}

// SetupLogging applies the configured level to every go-log logger.
func SetupLogging(level string) error {
	lvl, err := logging.LevelFromString(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	logging.SetAllLoggers(lvl)
	return nil
}
