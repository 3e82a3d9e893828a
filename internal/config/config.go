package config

import (
	"fmt"
	"os"
	"strconv"
)

// OrderTotalPolicy decides how Order Placement treats the client-declared total.
type OrderTotalPolicy string

const (
	// TotalPolicyTrust accepts the declared total verbatim (source-compatible).
	TotalPolicyTrust OrderTotalPolicy = "trust"
	// TotalPolicyVerify recomputes the total from line items and rejects mismatches.
	TotalPolicyVerify OrderTotalPolicy = "verify"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	JWTSecret  string

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	AdminEmail string

	OrderTotalPolicy OrderTotalPolicy
	SwaggerHost      string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/tastebite?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:  os.Getenv("JWT_SECRET"),

		SMTPHost:   getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:   getEnvInt("SMTP_PORT", 587),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASSWORD"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),

		OrderTotalPolicy: OrderTotalPolicy(getEnv("ORDER_TOTAL_POLICY", string(TotalPolicyTrust))),
		SwaggerHost:      os.Getenv("SWAGGER_HOST"),
	}
}

// ValidateMail checks that SMTP credentials are present. Sending one-time codes
// is load-bearing for every auth flow, so a missing mail setup is fatal at start.
func (c *Config) ValidateMail() error {
	if c.SMTPUser == "" || c.SMTPPass == "" {
		return fmt.Errorf("missing SMTP_USER or SMTP_PASSWORD")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
