package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port            string `envconfig:"PORT" default:"8000"`
	Env             string `envconfig:"ENV" default:"development"`
	MongoURI        string `envconfig:"MONGODB_URI" required:"true"`
	MongoDatabase   string `envconfig:"MONGODB_DATABASE" default:"storefront"`
	RedisAddress    string `envconfig:"REDIS_ADDRESS" default:"localhost:6379"`
	RedisPassword   string `envconfig:"REDIS_PASSWORD" default:""`
	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY" default:""`
	KafkaBrokers    string `envconfig:"KAFKA_BROKERS" default:""`
	AppBaseURL      string `envconfig:"APP_BASE_URL" default:"http://localhost:3000"`
	AllowedOrigins  string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
