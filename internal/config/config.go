package config

import "learnplay-commerce/internal/apperr"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	Woo     Woo     `envPrefix:"WOO_"`
	Mail    Mail    `envPrefix:"MAIL_"`
	Session Session `envPrefix:"SESSION_"`
}

type Woo struct {
	StoreURL       string `env:"STORE_URL"`
	ConsumerKey    string `env:"CONSUMER_KEY"`
	ConsumerSecret string `env:"CONSUMER_SECRET"`
	WebhookSecret  string `env:"WEBHOOK_SECRET"`
}

type Mail struct {
	BaseAPIURL string `env:"BASE_API_URL" envDefault:"https://api.resend.com"`
	APIKey     string `env:"API_KEY"`
	Sender     string `env:"SENDER" envDefault:"hello@learnplay.app"`
}

type Session struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

// Validate reports the first missing required variable. A handler running
// with an empty secret would otherwise surface later as a confusing upstream
// auth failure instead of an explicit configuration error.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"DATABASE_URL", c.DatabaseURL},
		{"WOO_STORE_URL", c.Woo.StoreURL},
		{"WOO_CONSUMER_KEY", c.Woo.ConsumerKey},
		{"WOO_CONSUMER_SECRET", c.Woo.ConsumerSecret},
		{"WOO_WEBHOOK_SECRET", c.Woo.WebhookSecret},
		{"MAIL_API_KEY", c.Mail.APIKey},
		{"SESSION_JWT_SECRET", c.Session.JWTSecret},
	}

	for _, r := range required {
		if r.value == "" {
			return apperr.Configuration(r.name)
		}
	}
	return nil
}
