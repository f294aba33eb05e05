package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Temutjin2k/forum-api/pkg/configparser"
	"github.com/Temutjin2k/forum-api/pkg/logger"
	"github.com/caarlos0/env/v11"
)

// Errors
var (
	ErrSecretNotProvided = errors.New("AUTH_JWT_SECRET must be provided")
	ErrInvalidTokenTTL   = errors.New("AUTH_TOKEN_TTL must be positive")
	ErrInvalidLogLevel   = errors.New("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Service  ServiceConfig
		HTTP     HTTPConfig
		Database DatabaseConfig
		Auth     Auth
	}

	ServiceConfig struct {
		Name     string `env:"SERVICE_NAME" envDefault:"forum-api"`
		Version  string `env:"SERVICE_VERSION" envDefault:"dev"`
		LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`
	}

	HTTPConfig struct {
		Host            string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
		Port            string        `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" envDefault:"localhost"`
		Port     string `env:"DATABASE_PORT" envDefault:"5432"`
		User     string `env:"DATABASE_USER" envDefault:"forum_user"`
		Password string `env:"DATABASE_PASSWORD" envDefault:"forum_pass"`
		Database string `env:"DATABASE_DATABASE" envDefault:"forum_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" envDefault:"20"`         // максимум открытых соединений
		MinConns        int32         `env:"DATABASE_MINCONNS" envDefault:"2"`          // минимум соединений в пуле
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" envDefault:"30m"` // макс. "время жизни" соединения
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" envDefault:"5m"`  // макс. "время простоя" соединения
	}

	Auth struct {
		JWTSecret     string        `env:"AUTH_JWT_SECRET"`
		TokenTTL      time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"2h"`
		Issuer        string        `env:"AUTH_ISSUER" envDefault:"forum-api"`
		LookupTimeout time.Duration `env:"AUTH_LOOKUP_TIMEOUT" envDefault:"2s"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c HTTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// NewConfig loads the optional YAML file into the environment and parses the
// environment into Config.
func NewConfig(filepath string) (*Config, error) {
	if filepath != "" {
		if _, err := os.Stat(filepath); err == nil {
			if err := configparser.LoadYamlFile(filepath); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrSecretNotProvided
	}
	if c.Auth.TokenTTL <= 0 {
		return ErrInvalidTokenTTL
	}
	if !logger.ValidateLogLevel(c.Service.LogLevel) {
		return ErrInvalidLogLevel
	}
	return nil
}

func (c DatabaseConfig) PoolLimits() (maxConns, minConns int32, maxLifetime, maxIdle time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}
