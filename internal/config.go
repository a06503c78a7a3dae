package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/wunjo/internal/credential"
	"github.com/starford/wunjo/internal/probe"
	"github.com/starford/wunjo/internal/session"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Data       DataConfig        `yaml:"data"`
	Wallpapers WallpapersConfig  `yaml:"wallpapers"`
	SQLite     SQLiteConfig      `yaml:"sqlite"`
	Auth       AuthConfig        `yaml:"auth"`
	Probe      ProbeConfig       `yaml:"probe"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	if err := c.Wallpapers.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Probe.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DataConfig holds the path to the directory with the JSON data files
// (the link collection and the credential record).
type DataConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the data configuration.
func (c *DataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// WallpapersConfig holds the path to the wallpaper image directory.
type WallpapersConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the wallpapers configuration.
func (c *WallpapersConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration for the wallpaper index.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// DefaultPassword seeds the credential record on first run only; once
// auth.json exists it is ignored. TokenTTL is how long an issued bearer
// token stays valid.
type AuthConfig struct {
	DefaultPassword string        `yaml:"default_password"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise unset values to the built-in defaults.
	if c.DefaultPassword == "" {
		c.DefaultPassword = credential.DefaultPassword
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = session.DefaultTTL
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("auth: token_ttl must be positive, got %s", c.TokenTTL)
	}
	return nil
}

// ProbeConfig holds link reachability probing configuration.
type ProbeConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the probe configuration.
func (c *ProbeConfig) Validate() error {
	if c.Timeout == 0 {
		c.Timeout = probe.DefaultTimeout
	}
	if c.Timeout < 0 {
		return fmt.Errorf("probe: timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 3000,
			},
		},
		Data: DataConfig{
			Path: "./data",
		},
		Wallpapers: WallpapersConfig{
			Path: "./images/wallpapers",
		},
		SQLite: SQLiteConfig{
			Path: "./wunjo.db",
		},
		Auth: AuthConfig{
			DefaultPassword: credential.DefaultPassword,
			TokenTTL:        session.DefaultTTL,
		},
		Probe: ProbeConfig{
			Timeout: probe.DefaultTimeout,
		},
	}
}
