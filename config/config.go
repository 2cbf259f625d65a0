package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Validate ensures all configuration sections have the required environment
// variables set and that optional values are well-formed.
func Validate() error {
	LoadEnv()

	if err := ValidateDatabaseConfig(); err != nil {
		return fmt.Errorf("database configuration: %w", err)
	}

	if err := ValidateEmailConfig(); err != nil {
		return fmt.Errorf("email configuration: %w", err)
	}

	if err := ValidateAppConfig(); err != nil {
		return fmt.Errorf("app configuration: %w", err)
	}

	return nil
}

// AppConfig holds settings for the HTTP server and the session lifecycle.
type AppConfig struct {
	Addr            string
	OwnerName       string
	SessionLifetime time.Duration
}

// LoadAppConfig reads app settings from the environment, falling back to a
// :8080 listener and the 15 minute session window.
func LoadAppConfig() AppConfig {
	addr := os.Getenv("APP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	owner := strings.TrimSpace(os.Getenv("BLOG_OWNER"))
	if owner == "" {
		owner = "the blog owner"
	}

	lifetime := 15 * time.Minute
	if v := strings.TrimSpace(os.Getenv("SESSION_LIFETIME")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			lifetime = d
		}
	}

	return AppConfig{
		Addr:            addr,
		OwnerName:       owner,
		SessionLifetime: lifetime,
	}
}

// ValidateAppConfig ensures optional app settings are well-formed.
func ValidateAppConfig() error {
	if v := strings.TrimSpace(os.Getenv("SESSION_LIFETIME")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_LIFETIME value %q: %w", v, err)
		}
		if d <= 0 {
			return fmt.Errorf("SESSION_LIFETIME must be positive")
		}
	}
	return nil
}

// ValidateDatabaseConfig ensures all required database environment variables
// are present.
func ValidateDatabaseConfig() error {
	required := []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASS", "DB_NAME"}

	var missing []string
	for _, key := range required {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateEmailConfig ensures email configuration values are provided and valid.
func ValidateEmailConfig() error {
	required := []string{"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM"}

	var missing []string
	for _, key := range required {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port <= 0 {
		return fmt.Errorf("SMTP_PORT must be a positive integer")
	}

	return nil
}
