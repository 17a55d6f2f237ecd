package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Email provider identifiers.
const (
	EmailProviderResend = "resend"
	EmailProviderSMTP   = "smtp"
	EmailProviderLog    = "log"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName        string
	AppEnv         string
	AppPort        string
	DatabaseDriver string
	DatabaseURL    string
	RedisURL       string
	NATSURL        string
	EventsChannel  string
	EmailProvider  string
	EmailFrom      string
	EmailTo        string
	EmailTimeout   time.Duration
	ResendAPIKey   string
	ResendBaseURL  string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	JWTSecret      string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// AdminEnabled reports whether the admin inbox routes should be mounted.
func (c Config) AdminEnabled() bool {
	return c.JWTSecret != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PORTFOLIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The hosted function used the bare provider variable name.
	_ = v.BindEnv("resend.api_key", "PORTFOLIO_RESEND_API_KEY", "RESEND_API_KEY")

	v.SetDefault("app.name", "Portfolio Contact API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("events.channel", "portfolio:contact")
	v.SetDefault("email.provider", EmailProviderResend)
	v.SetDefault("email.from", "Portfolio Contact <onboarding@resend.dev>")
	v.SetDefault("email.timeout", "10s")
	v.SetDefault("resend.base_url", "https://api.resend.com")
	v.SetDefault("smtp.port", 587)

	timeoutString := v.GetString("email.timeout")
	if timeoutString == "" {
		timeoutString = "10s"
	}

	timeout, err := time.ParseDuration(timeoutString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid email timeout: %w", err)
	}

	cfg := Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		AppPort:        v.GetString("app.port"),
		DatabaseDriver: strings.ToLower(v.GetString("database.driver")),
		DatabaseURL:    v.GetString("database.url"),
		RedisURL:       v.GetString("redis.url"),
		NATSURL:        v.GetString("nats.url"),
		EventsChannel:  v.GetString("events.channel"),
		EmailProvider:  strings.ToLower(v.GetString("email.provider")),
		EmailFrom:      v.GetString("email.from"),
		EmailTo:        v.GetString("email.to"),
		EmailTimeout:   timeout,
		ResendAPIKey:   v.GetString("resend.api_key"),
		ResendBaseURL:  strings.TrimRight(v.GetString("resend.base_url"), "/"),
		SMTPHost:       v.GetString("smtp.host"),
		SMTPPort:       v.GetInt("smtp.port"),
		SMTPUsername:   v.GetString("smtp.username"),
		SMTPPassword:   v.GetString("smtp.password"),
		JWTSecret:      v.GetString("jwt.secret"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database url must be provided")
	}

	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}

	if c.EmailTimeout <= 0 {
		return fmt.Errorf("email timeout must be positive")
	}

	switch c.EmailProvider {
	case EmailProviderLog:
		return nil
	case EmailProviderResend:
		if c.ResendAPIKey == "" {
			return fmt.Errorf("resend api key must be provided")
		}
	case EmailProviderSMTP:
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("smtp host and credentials must be provided")
		}
	default:
		return fmt.Errorf("unsupported email provider %q", c.EmailProvider)
	}

	if c.EmailTo == "" {
		return fmt.Errorf("email recipient must be provided")
	}

	return nil
}
