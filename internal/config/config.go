package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "smartparking/libs/config"
)

// Config defines parking server configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"PARKING_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"PARKING_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"PARKING_REDIS_ADDR"`
		Password string `yaml:"password" env:"PARKING_REDIS_PASSWORD"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret" env:"PARKING_JWT_SECRET"`
	} `yaml:"auth"`
	Payments struct {
		BaseURL   string `yaml:"baseUrl" env:"PARKING_PAYMENTS_BASE_URL"`
		KeyID     string `yaml:"keyId" env:"PARKING_PAYMENTS_KEY_ID"`
		KeySecret string `yaml:"keySecret" env:"PARKING_PAYMENTS_KEY_SECRET"`
	} `yaml:"payments"`
	WS struct {
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"PARKING_WS_WRITE_TIMEOUT"`
	} `yaml:"ws"`
}

// Load reads configuration via the shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.WS.WriteTimeout = 10 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// WSWriteTimeout returns the subscriber write timeout.
func (c *Config) WSWriteTimeout() time.Duration {
	if c.WS.WriteTimeout <= 0 {
		return 10 * time.Second
	}
	return c.WS.WriteTimeout
}
