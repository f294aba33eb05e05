package config

import (
	"fmt"
	"io"
	"os"
)

const HelpMessage = `
forum-api - REST API of the forum with stateless token authentication

Usage:
  forum-api [--config-path <file>] [-h|--help]

Options:
  --config-path  Path to an optional YAML config file (default "config.yaml")
  -h, --help     Show this message

Environment:
  AUTH_JWT_SECRET      HS256 signing secret, at least 32 bytes (required)
  AUTH_TOKEN_TTL       Lifetime of issued tokens (default 2h)
  AUTH_ISSUER          Issuer claim of issued tokens (default forum-api)
  AUTH_LOOKUP_TIMEOUT  Deadline of the account lookup per request (default 2s)
  HTTP_HOST, HTTP_PORT Listen address (default 0.0.0.0:8080)
  DATABASE_*           Postgres connection settings
  LOG_LEVEL            DEBUG, INFO, WARN or ERROR (default INFO)
`

func PrintHelp() {
	fmt.Print(HelpMessage)
}

const redacted = "[REDACTED]"

// PrintConfig prints the configuration to stdout with secrets redacted.
func PrintConfig(cfg *Config) {
	FprintConfig(os.Stdout, cfg)
}

func FprintConfig(w io.Writer, cfg *Config) {
	if cfg == nil {
		return
	}

	secret := ""
	if cfg.Auth.JWTSecret != "" {
		secret = redacted
	}

	fmt.Fprintf(w, "service:  name=%s version=%s log_level=%s\n", cfg.Service.Name, cfg.Service.Version, cfg.Service.LogLevel)
	fmt.Fprintf(w, "http:     addr=%s read_timeout=%s write_timeout=%s\n", cfg.HTTP.Addr(), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)
	fmt.Fprintf(w, "database: host=%s port=%s user=%s password=%s database=%s\n",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, redacted, cfg.Database.Database)
	fmt.Fprintf(w, "auth:     secret=%s token_ttl=%s issuer=%s lookup_timeout=%s\n",
		secret, cfg.Auth.TokenTTL, cfg.Auth.Issuer, cfg.Auth.LookupTimeout)
}
