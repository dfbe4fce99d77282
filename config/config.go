package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	MailDriverResend = "resend"
	MailDriverSMTP   = "smtp"
	MailDriverLog    = "log"

	minJWTSecretLength = 32
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret     string        `env:"JWT_SECRET"`
	JWTIssuer     string        `env:"JWT_ISSUER" envDefault:"authapi"`
	JWTAudience   string        `env:"JWT_AUDIENCE"`
	JWTTTL        time.Duration `env:"JWT_TTL" envDefault:"8h"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" envDefault:"30m"`

	MailDriver   string `env:"MAIL_DRIVER"`
	MailFrom     string `env:"MAIL_FROM"`
	ResendAPIKey string `env:"RESEND_API_KEY"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	Argon2MemoryKiB uint32 `env:"ARGON2_MEMORY_KIB" envDefault:"65536"`
	Argon2Time      uint32 `env:"ARGON2_TIME" envDefault:"1"`
	Argon2Threads   uint8  `env:"ARGON2_THREADS" envDefault:"4"`

	LoginRPS   float64 `env:"RATE_LIMIT_LOGIN_RPS" envDefault:"2"`
	LoginBurst int     `env:"RATE_LIMIT_LOGIN_BURST" envDefault:"5"`
}

// Load reads a .env file when present, then parses the environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings needed to serve requests.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("%w: JWT_SECRET must be at least %d bytes", ErrInvalidConfig, minJWTSecretLength)
	}
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres store", ErrInvalidConfig)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrInvalidConfig, c.StoreDriver)
	}
	switch c.MailDriver {
	case MailDriverResend:
		if c.ResendAPIKey == "" || c.MailFrom == "" {
			return fmt.Errorf("%w: RESEND_API_KEY and MAIL_FROM are required for resend", ErrInvalidConfig)
		}
	case MailDriverSMTP:
		if c.SMTPHost == "" || c.MailFrom == "" {
			return fmt.Errorf("%w: SMTP_HOST and MAIL_FROM are required for smtp", ErrInvalidConfig)
		}
	case MailDriverLog:
		if c.StoreDriver != StoreDriverMemory {
			return fmt.Errorf("%w: MAIL_DRIVER=log writes credentials to the log and is only allowed with the memory store", ErrInvalidConfig)
		}
	case "":
		return fmt.Errorf("%w: MAIL_DRIVER is required (resend, smtp or log)", ErrInvalidConfig)
	default:
		return fmt.Errorf("%w: unknown MAIL_DRIVER %q", ErrInvalidConfig, c.MailDriver)
	}
	if c.JWTTTL <= 0 || c.ResetTokenTTL <= 0 {
		return fmt.Errorf("%w: token lifetimes must be positive", ErrInvalidConfig)
	}
	return nil
}
