package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	APIKeyHash     string `envconfig:"API_KEY_HASH"`
	AssetDir       string `envconfig:"ASSET_DIR" default:"./data/assets"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	CanvasWidth    int    `envconfig:"CANVAS_WIDTH" default:"800"`
	CanvasHeight   int    `envconfig:"CANVAS_HEIGHT" default:"600"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	return &cfg, nil
}

// Origins splits ALLOWED_ORIGINS into its entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// OriginHosts returns the origins without their scheme, the form websocket
// origin patterns expect.
func (c *Config) OriginHosts() []string {
	origins := c.Origins()
	for i, o := range origins {
		if _, host, ok := strings.Cut(o, "://"); ok {
			origins[i] = host
		}
	}
	return origins
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
