package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv   string
	HTTPAddr string
	LogLevel string

	StorageDriver string
	SQLitePath    string
	RedisAddr     string
	DatabaseURL   string

	JWTIssuer           string
	JWTSecret           string
	VisitorTokenTTLDays int

	AuthLatencyMs     int
	CheckoutLatencyMs int

	ShippingFreeThreshold float64
	ShippingFee           float64

	AdminEmails []string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func Load() Config {
	return Config{
		AppEnv:   get("APP_ENV", "dev"),
		HTTPAddr: get("HTTP_ADDR", ":8080"),
		LogLevel: get("LOG_LEVEL", "info"),

		StorageDriver: strings.ToLower(get("STORAGE_DRIVER", DriverMemory)),
		SQLitePath:    get("SQLITE_PATH", "storefront.db"),
		RedisAddr:     get("REDIS_ADDR", ""),
		DatabaseURL:   get("DATABASE_URL", ""),

		JWTIssuer:           get("JWT_ISSUER", "sneakverse"),
		JWTSecret:           get("JWT_SECRET", ""),
		VisitorTokenTTLDays: getInt("VISITOR_TOKEN_TTL_DAYS", 30),

		AuthLatencyMs:     getInt("AUTH_LATENCY_MS", 800),
		CheckoutLatencyMs: getInt("CHECKOUT_LATENCY_MS", 2000),

		ShippingFreeThreshold: getFloat("SHIPPING_FREE_THRESHOLD", 1000),
		ShippingFee:           getFloat("SHIPPING_FEE", 100),

		AdminEmails: getList("ADMIN_EMAILS"),

		SMTPHost: get("SMTP_HOST", ""),
		SMTPPort: getInt("SMTP_PORT", 587),
		SMTPUser: get("SMTP_USER", ""),
		SMTPPass: get("SMTP_PASS", ""),
		SMTPFrom: get("SMTP_FROM", ""),
	}
}

// Validate reports settings that would only fail later, at first use.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if !c.IsDev() && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required outside dev")
	}
	if c.ShippingFee < 0 || c.ShippingFreeThreshold < 0 {
		return errors.New("shipping threshold and fee must not be negative")
	}
	return nil
}

func (c Config) IsDev() bool {
	return c.AppEnv == "dev"
}

func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

// comma separated, lower-cased, blanks dropped
func getList(k string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(k), ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
