package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	DBConnectionString string `envconfig:"DATABASE_URL" required:"true"`

	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL  int    `envconfig:"ACCESS_TOKEN_TTL_MIN" default:"30"`
	RefreshTokenTTL int    `envconfig:"REFRESH_TOKEN_TTL_HOURS" default:"168"`

	// Stripe settings
	StripeSecretKey  string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	StripeSuccessURL string `envconfig:"STRIPE_SUCCESS_URL" default:"https://example.com/success"`

	// Course update notification settings
	GCPProjectID             string `envconfig:"GCP_PROJECT_ID" required:"true"`
	NotificationTopic        string `envconfig:"NOTIFICATION_TOPIC" default:"course-updates"`
	NotificationSubscription string `envconfig:"NOTIFICATION_SUBSCRIPTION" default:"course-updates-sub"`
	NotificationWindowHours  int    `envconfig:"NOTIFICATION_WINDOW_HOURS" default:"4"`

	// Email settings
	SendgridAPIKey string `envconfig:"SENDGRID_API_KEY" required:"true"`
	EmailFromName  string `envconfig:"EMAIL_FROM_NAME" default:"Online School"`
	EmailFromAddr  string `envconfig:"EMAIL_FROM_ADDR" required:"true"`

	// Worker settings
	InactiveUserDays   int `envconfig:"INACTIVE_USER_DAYS" default:"30"`
	InactiveSweepHours int `envconfig:"INACTIVE_SWEEP_HOURS" default:"24"`

	DefaultPageSize int `envconfig:"DEFAULT_PAGE_SIZE" default:"10"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
