// Package config загружает настройки сервиса уведомлений из окружения.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"

	"grocito/internal/mailer"
	"grocito/internal/render"
)

// Config настройки сервиса уведомлений
type Config struct {
	Port     string `envconfig:"PORT" default:"3001"`
	Env      string `envconfig:"NODE_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	SMTPHost          string        `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort          int           `envconfig:"SMTP_PORT" default:"587"`
	SMTPSecure        bool          `envconfig:"SMTP_SECURE" default:"false"`
	SMTPUser          string        `envconfig:"SMTP_USER"`
	SMTPPass          string        `envconfig:"SMTP_PASS"`
	SMTPSkipVerify    bool          `envconfig:"SMTP_TLS_SKIP_VERIFY" default:"false"`
	SMTPTimeout       time.Duration `envconfig:"SMTP_TIMEOUT" default:"30s"`
	SMTPVerifyTimeout time.Duration `envconfig:"SMTP_VERIFY_TIMEOUT" default:"10s"`

	FromName     string `envconfig:"FROM_NAME" default:"Grocito"`
	FromEmail    string `envconfig:"FROM_EMAIL" default:"noreply@grocito.com"`
	AppName      string `envconfig:"APP_NAME" default:"Grocito"`
	AppURL       string `envconfig:"APP_URL" default:"http://localhost:3000"`
	SupportEmail string `envconfig:"SUPPORT_EMAIL" default:"support@grocito.com"`
	Timezone     string `envconfig:"TIMEZONE" default:"Asia/Kolkata"`

	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	BodyLimit   int64  `envconfig:"BODY_LIMIT_BYTES" default:"10485760"`

	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения, без которых сервис не стартует.
// Отсутствие SMTP-учёток ошибкой не считается: сервис уходит в режим симуляции.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT must be in 1..65535, got %d", c.SMTPPort)
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	// cors.New паникует на origin без схемы
	if u := strings.TrimSpace(c.FrontendURL); u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("FRONTEND_URL must start with http:// or https://, got %q", u)
	}
	return nil
}

func (c *Config) SMTP() mailer.SMTPConfig {
	return mailer.SMTPConfig{
		Host:       c.SMTPHost,
		Port:       c.SMTPPort,
		Secure:     c.SMTPSecure,
		Username:   c.SMTPUser,
		Password:   c.SMTPPass,
		FromName:   c.FromName,
		FromEmail:  c.FromEmail,
		SkipVerify: c.SMTPSkipVerify,
		Timeout:    c.SMTPTimeout,
	}
}

func (c *Config) Branding() render.Branding {
	return render.Branding{AppName: c.AppName, AppURL: c.AppURL, SupportEmail: c.SupportEmail}
}

// Location часовой пояс для дат в письмах; Validate гарантирует, что он корректен
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// AllowedOrigins фронтенд и Java-бэкенд
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:8080"}
	if u := strings.TrimRight(strings.TrimSpace(c.FrontendURL), "/"); u != "" && u != origins[0] {
		origins = append([]string{u}, origins...)
	}
	return origins
}
