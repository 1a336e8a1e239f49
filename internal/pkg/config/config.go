package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   secrets) or that must never ship with a default
// - default: Values common across all environments (timeouts, windows)
//
// Operating parameters the admin can change at runtime (rates, durations,
// access code) are NOT here; they live in the config table and are loaded as
// a snapshot per request. See usecase/opconfig.go.
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	CORS   CORSConfig
	Log    LogConfig
	JWT    JWTConfig
	Stripe StripeConfig
	Twilio TwilioConfig
	Notify NotifyConfig
}

// Timezone is the lot's local zone, used when rendering expiry times
// in customer-facing messages. Storage stays UTC.
type ServerConfig struct {
	Port     string `envconfig:"PORT" required:"true"`
	BaseURL  string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	Timezone string `envconfig:"LOT_TIMEZONE" default:"America/New_York"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

type StripeConfig struct {
	SecretKey     string        `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	WebhookSecret string        `envconfig:"STRIPE_WEBHOOK_SECRET" required:"true"`
	Timeout       time.Duration `envconfig:"STRIPE_TIMEOUT" default:"10s"`
}

// Twilio credentials are optional: with any of them empty the notifier runs
// in disabled mode and every dispatch reports failed.
type TwilioConfig struct {
	AccountSID string        `envconfig:"TWILIO_ACCOUNT_SID" default:""`
	AuthToken  string        `envconfig:"TWILIO_AUTH_TOKEN" default:""`
	FromNumber string        `envconfig:"TWILIO_PHONE_NUMBER" default:""`
	Timeout    time.Duration `envconfig:"TWILIO_TIMEOUT" default:"10s"`
}

type NotifyConfig struct {
	CronSecret     string        `envconfig:"CRON_SECRET" required:"true"`
	TokenSecret    string        `envconfig:"EXTENSION_TOKEN_SECRET" required:"true"`
	CronSchedule   string        `envconfig:"NOTIFY_CRON_SCHEDULE" default:"@every 5m"`
	CronEnabled    bool          `envconfig:"NOTIFY_CRON_ENABLED" default:"true"`
	LeadWindowFrom time.Duration `envconfig:"NOTIFY_LEAD_FROM" default:"10m"`
	LeadWindowTo   time.Duration `envconfig:"NOTIFY_LEAD_TO" default:"15m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:     "8889",
			BaseURL:  "http://localhost:8889",
			Timezone: "UTC",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-jwt-secret",
			Duration: "24h",
		},
		Notify: NotifyConfig{
			CronSecret:     "test-cron-secret",
			TokenSecret:    "test-token-secret",
			LeadWindowFrom: 10 * time.Minute,
			LeadWindowTo:   15 * time.Minute,
		},
	}
}
