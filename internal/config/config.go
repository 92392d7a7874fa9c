// Package config loads server configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config collects every environment-driven setting in one place so main()
// stays a pure composition root.
type Config struct {
	Port        int
	DBPath      string
	BaseURL     string
	TemplateDir string
	StaticDir   string

	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string
}

// Load reads configuration from the environment and validates it. A missing
// .env file is fine; the variables may come from the real environment
// (Docker, systemd, CI).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          8000,
		DBPath:        "data/evite.db",
		BaseURL:       "http://localhost:8000",
		TemplateDir:   "web/templates",
		StaticDir:     "web/static",
		SMTPHost:      "smtp.gmail.com",
		SMTPPort:      587,
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  "Event Host",
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("TEMPLATE_DIR"); v != "" {
		cfg.TemplateDir = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("SMTP_SERVER"); v != "" {
		cfg.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid SMTP_PORT %q: %w", v, err)
		}
		cfg.SMTPPort = port
	}
	if v := os.Getenv("SMTP_FROM_NAME"); v != "" {
		cfg.SMTPFromName = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: PORT must be between 1 and 65535, got %d", c.Port)
	}

	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("config: invalid BASE_URL %q: %w", c.BaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: invalid BASE_URL %q: scheme or host missing", c.BaseURL)
	}

	// SMTP credentials are optional; when absent the mailer runs disabled.
	return nil
}
