package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

var loadEnvOnce sync.Once

// Config returns the value of an environment variable, loading .env once.
func Config(key string) string {
	loadEnvOnce.Do(func() {
		// a missing .env is fine, the process environment is used instead
		_ = godotenv.Load()
	})
	return os.Getenv(key)
}

type DatabaseConfig struct {
	Host     string
	Port     uint64
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode, d.TimeZone)
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type AppConfig struct {
	Env         string
	Port        string
	Database    DatabaseConfig
	RedisURL    string
	JWTSecret   string
	FrontendURL string
	APIBaseURL  string
	SMTP        SMTPConfig

	// Pending virtual-POS transactions older than this are marked expired.
	PaymentTransactionTTL time.Duration
	PaymentExpirySchedule string
	CouponExpiryHour      int
}

func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads the application configuration from the environment.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		Env:         withDefault(Config("APP_ENV"), "production"),
		Port:        withDefault(Config("PORT"), "8002"),
		RedisURL:    Config("REDIS_URL"),
		JWTSecret:   Config("JWT_SECRET"),
		FrontendURL: withDefault(Config("FRONTEND_URL"), "http://localhost:5173"),
		APIBaseURL:  withDefault(Config("API_BASE_URL"), "http://localhost:8002"),
		Database: DatabaseConfig{
			Host:     withDefault(Config("DB_HOST"), "localhost"),
			User:     Config("DB_USER"),
			Password: Config("DB_PASSWORD"),
			Name:     Config("DB_NAME"),
			SSLMode:  withDefault(Config("DB_SSLMODE"), "disable"),
			TimeZone: withDefault(Config("DB_TIMEZONE"), "Europe/Istanbul"),
		},
		SMTP: SMTPConfig{
			Host:     Config("SMTP_HOST"),
			Username: Config("SMTP_USERNAME"),
			Password: Config("SMTP_PASSWORD"),
			From:     withDefault(Config("SMTP_FROM"), "Beyaz Eşya Mağazası <siparis@example.com>"),
		},
		PaymentExpirySchedule: withDefault(Config("PAYMENT_EXPIRY_SCHEDULE"), "*/15 * * * *"),
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	port, err := strconv.ParseUint(withDefault(Config("DB_PORT"), "5432"), 10, 32)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse database port: %w", err)
	}
	cfg.Database.Port = port

	smtpPort, err := strconv.Atoi(withDefault(Config("SMTP_PORT"), "587"))
	if err != nil {
		return cfg, fmt.Errorf("failed to parse smtp port: %w", err)
	}
	cfg.SMTP.Port = smtpPort

	ttl, err := time.ParseDuration(withDefault(Config("PAYMENT_TX_TTL"), "1h"))
	if err != nil {
		return cfg, fmt.Errorf("failed to parse PAYMENT_TX_TTL: %w", err)
	}
	cfg.PaymentTransactionTTL = ttl

	if _, err := cron.ParseStandard(cfg.PaymentExpirySchedule); err != nil {
		return cfg, fmt.Errorf("invalid PAYMENT_EXPIRY_SCHEDULE %q: %w", cfg.PaymentExpirySchedule, err)
	}

	hour, err := strconv.Atoi(withDefault(Config("COUPON_EXPIRY_HOUR"), "0"))
	if err != nil || hour < 0 || hour > 23 {
		return cfg, fmt.Errorf("invalid COUPON_EXPIRY_HOUR")
	}
	cfg.CouponExpiryHour = hour

	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var (
	istanbulOnce sync.Once
	istanbul     *time.Location
)

// Istanbul returns the Europe/Istanbul location, falling back to a fixed
// UTC+3 zone when tzdata is unavailable.
func Istanbul() *time.Location {
	istanbulOnce.Do(func() {
		loc, err := time.LoadLocation("Europe/Istanbul")
		if err != nil {
			loc = time.FixedZone("TRT", 3*60*60)
		}
		istanbul = loc
	})
	return istanbul
}
