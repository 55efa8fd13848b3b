package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN string `env:"DATABASE_DSN,required=true"`
	MongoURL    string `env:"MONGODB_URL,required=true"`
	MongoDB     string `env:"MONGODB_DB,default=admissions_docs"`
	RedisURL    string `env:"REDIS_URL,required=true"`
	RabbitMQURL string `env:"RABBITMQ_URL,required=true"`

	SMTPHost     string `env:"SMTP_HOST,default=smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT,default=587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM,default=noreply@admitpath.io"`

	SMSGatewayURL  string `env:"SMS_GATEWAY_URL"`
	PushGatewayURL string `env:"PUSH_GATEWAY_URL"`

	DispatchIntervalSec int `env:"DISPATCH_INTERVAL_SEC,default=15"`
	DispatchBatchLimit  int `env:"DISPATCH_BATCH_LIMIT,default=100"`
	DispatchConcurrency int `env:"DISPATCH_CONCURRENCY,default=8"`
	RateLimitPerSec     int `env:"RATE_LIMIT_PER_SEC,default=50"`

	APIPort  int    `env:"API_PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
