package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort          = "8080"
	defaultDatabaseURL   = "boattours.db"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTTTL        = "168h"
	defaultAdminEmail    = "admin@boattours.local"
	defaultAdminPassword = "change-me-admin-password"
	defaultSMTPPort      = "587"
	defaultSMTPFromName  = "Boat Tours"
	defaultSweepInterval = "1h"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	DefaultAdminEmail    string
	DefaultAdminPassword string

	CORSAllowedOrigins []string

	SMTP SMTPConfig

	SweepInterval time.Duration
}

type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromName  string
	FromEmail string
}

// Enabled is true once a host and sender address are configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.FromEmail != ""
}

// Load reads a .env file when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("level=warn msg=\"dotenv not loaded\" err=%v", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.DefaultAdminEmail = strings.ToLower(strings.TrimSpace(getEnv("DEFAULT_ADMIN_EMAIL", defaultAdminEmail)))
	cfg.DefaultAdminPassword = getEnv("DEFAULT_ADMIN_PASSWORD", defaultAdminPassword)
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", defaultSweepInterval)
	if err != nil {
		return nil, err
	}

	cfg.SMTP = SMTPConfig{
		Host:      strings.TrimSpace(os.Getenv("SMTP_HOST")),
		User:      strings.TrimSpace(os.Getenv("SMTP_USER")),
		Password:  os.Getenv("SMTP_PASSWORD"),
		FromName:  strings.TrimSpace(getEnv("SMTP_FROM_NAME", defaultSMTPFromName)),
		FromEmail: strings.TrimSpace(os.Getenv("SMTP_FROM_EMAIL")),
	}
	portRaw := strings.TrimSpace(getEnv("SMTP_PORT", defaultSMTPPort))
	cfg.SMTP.Port, err = strconv.Atoi(portRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT value %q: %w", portRaw, err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("level=info msg=\"config loaded\" env=%s port=%s smtp=%t", cfg.AppEnv, cfg.Port, cfg.SMTP.Enabled())

	return cfg, nil
}

// IsProduction reports a prod-like APP_ENV.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if cfg.SMTP.Port <= 0 {
		return fmt.Errorf("SMTP_PORT must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.DefaultAdminPassword, defaultAdminPassword) {
			return fmt.Errorf("in prod/release DEFAULT_ADMIN_PASSWORD must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
