package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`

	// Editor defaults
	HandleRadius float64 `envconfig:"HANDLE_RADIUS" default:"5"`
	HitTolerance float64 `envconfig:"HIT_TOLERANCE" default:"4"`
	DefaultZoom  float64 `envconfig:"DEFAULT_ZOOM" default:"1"`
	DefaultColor string  `envconfig:"DEFAULT_COLOR" default:"white"`

	PreviewWidth  int `envconfig:"PREVIEW_WIDTH" default:"512"`
	PreviewHeight int `envconfig:"PREVIEW_HEIGHT" default:"512"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.HandleRadius <= 0:
		return fmt.Errorf("%w: HANDLE_RADIUS must be positive, got %v", ErrInvalidConfig, c.HandleRadius)
	case c.HitTolerance < 0:
		return fmt.Errorf("%w: HIT_TOLERANCE must not be negative, got %v", ErrInvalidConfig, c.HitTolerance)
	case c.DefaultZoom <= 0:
		return fmt.Errorf("%w: DEFAULT_ZOOM must be positive, got %v", ErrInvalidConfig, c.DefaultZoom)
	case c.PreviewWidth <= 0 || c.PreviewHeight <= 0:
		return fmt.Errorf("%w: preview size %dx%d", ErrInvalidConfig, c.PreviewWidth, c.PreviewHeight)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: LOG_LEVEL: %w", ErrInvalidConfig, err)
	}
	return l, nil
}

// Origins splits AllowedOrigins into host patterns for CORS and websocket
// origin checks.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
