// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the session lives in the OS keychain.
//
// Precedence, lowest first: built-in defaults, config.yaml, a .env file in the
// working directory, then process environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mg/cli/internal/xdg"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding file settings.
const (
	EnvBaseURL         = "MG_BASE_URL"
	EnvLogLevel        = "MG_LOG_LEVEL"
	EnvKeyringBackend  = "MG_KEYRING_BACKEND"
	EnvKeyringPassword = "MG_KEYRING_PASSWORD"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	BaseURL        string          `yaml:"base_url"`
	LogLevel       string          `yaml:"log_level"`
	RequestTimeout time.Duration   `yaml:"request_timeout"`
	Keyring        KeyringConfig   `yaml:"keyring"`
	DevServer      DevServerConfig `yaml:"devserver"`
}

// KeyringConfig selects where the session is persisted.
type KeyringConfig struct {
	Backend string `yaml:"backend"`
	FileDir string `yaml:"file_dir,omitempty"`
	// Password unlocks the file backend. Only read from MG_KEYRING_PASSWORD.
	Password string `yaml:"-"`
}

// DevServerConfig configures the local stub auth service.
type DevServerConfig struct {
	Addr        string `yaml:"addr"`
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	TokenSecret string `yaml:"token_secret"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:        "http://localhost:3000/api/auth",
		LogLevel:       "warn",
		RequestTimeout: 10 * time.Second,
		Keyring:        KeyringConfig{Backend: "auto"},
		DevServer: DevServerConfig{
			Addr:        "127.0.0.1:3000",
			Email:       "demo@example.com",
			Password:    "demo-password",
			Name:        "Demo User",
			TokenSecret: "mg-dev-secret",
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads configuration; a missing file or .env yields defaults.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(p)
}

// LoadFile reads configuration from path and applies .env and environment overrides.
func LoadFile(path string) (Config, error) {
	c, err := ReadFile(path)
	if err != nil {
		return c, err
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, err
	}
	applyEnv(&c)
	return c, nil
}

// ReadFile returns defaults overlaid with the YAML file at path, without
// environment overrides. A missing file yields defaults.
func ReadFile(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, err
		}
	}
	return c, nil
}

func applyEnv(c *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvKeyringBackend)); v != "" {
		c.Keyring.Backend = v
	}
	if v := os.Getenv(EnvKeyringPassword); v != "" {
		c.Keyring.Password = v
	}
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	return SaveFile(p, c)
}

// SaveFile writes c to path with 0600 permissions.
func SaveFile(path string, c Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
