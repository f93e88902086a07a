package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// ModeDevelopment exposes internal error details in API responses
	ModeDevelopment = "development"
	ModeProduction  = "production"

	defaultMailerLiteBaseURL = "https://api.mailerlite.com/api/v2"
	defaultSMTPHost          = "smtp.gmail.com"
	defaultSMTPPort          = 587
	defaultEmailFromName     = "AutoForge System"
	defaultPort              = "8080"
	defaultLogLevel          = "info"
	defaultLambdaEventFormat = "v1"
)

// Config holds all application configuration values
type Config struct {
	GoogleSheetID             string
	GoogleServiceAccountEmail string
	GooglePrivateKey          string

	MailerLiteAPIKey  string
	MailerLiteGroupID string
	MailerLiteBaseURL string

	EmailUser     string
	EmailPass     string
	EmailFromName string
	SMTPHost      string
	SMTPPort      int

	Mode     string
	Port     string
	LogLevel string

	// LambdaEventFormat selects the API Gateway payload version cmd/lambda accepts
	LambdaEventFormat string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	smtpPort := defaultSMTPPort
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", raw, err)
		}
		smtpPort = p
	}

	mode := os.Getenv("APP_ENV")
	if mode == "" {
		mode = os.Getenv("NODE_ENV")
	}
	if mode == "" {
		mode = ModeProduction
	}

	return &Config{
		GoogleSheetID:             os.Getenv("GOOGLE_SHEET_ID"),
		GoogleServiceAccountEmail: os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		GooglePrivateKey:          unescapeKey(os.Getenv("GOOGLE_PRIVATE_KEY")),
		MailerLiteAPIKey:          os.Getenv("MAILERLITE_API_KEY"),
		MailerLiteGroupID:         os.Getenv("MAILERLITE_GROUP_ID"),
		MailerLiteBaseURL:         getEnv("MAILERLITE_BASE_URL", defaultMailerLiteBaseURL),
		EmailUser:                 os.Getenv("EMAIL_USER"),
		EmailPass:                 os.Getenv("EMAIL_PASS"),
		EmailFromName:             getEnv("EMAIL_FROM_NAME", defaultEmailFromName),
		SMTPHost:                  getEnv("SMTP_HOST", defaultSMTPHost),
		SMTPPort:                  smtpPort,
		Mode:                      strings.ToLower(mode),
		Port:                      getEnv("PORT", defaultPort),
		LogLevel:                  getEnv("LOG_LEVEL", defaultLogLevel),
		LambdaEventFormat:         strings.ToLower(getEnv("LAMBDA_EVENT_FORMAT", defaultLambdaEventFormat)),
	}, nil
}

// Validate reports every required value that is missing.
func (c *Config) Validate() error {
	required := []struct {
		env   string
		value string
	}{
		{"GOOGLE_SHEET_ID", c.GoogleSheetID},
		{"GOOGLE_SERVICE_ACCOUNT_EMAIL", c.GoogleServiceAccountEmail},
		{"GOOGLE_PRIVATE_KEY", c.GooglePrivateKey},
		{"EMAIL_USER", c.EmailUser},
		{"EMAIL_PASS", c.EmailPass},
	}

	var errs []error
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("missing required environment variable %s", r.env))
		}
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid SMTP port %d", c.SMTPPort))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether internal error details may be returned to callers.
func (c *Config) IsDevelopment() bool {
	return c.Mode == ModeDevelopment
}

// MailingListEnabled is false when the MailerLite credentials are not configured.
func (c *Config) MailingListEnabled() bool {
	return c.MailerLiteAPIKey != "" && c.MailerLiteGroupID != ""
}

// Private keys pasted into env files usually carry literal "\n" sequences.
func unescapeKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
