package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Production = "production"

type Config struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

type DatabaseConfig struct {
	Host          string `env:"DB_HOST" envDefault:"localhost"`
	Port          string `env:"DB_PORT" envDefault:"5432"`
	User          string `env:"DB_USER" envDefault:"postgres"`
	Password      string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name          string `env:"DB_NAME" envDefault:"directory"`
	SSLMode       string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxRetries    int    `env:"DB_MAX_RETRIES" envDefault:"5"`
	RunMigrations bool   `env:"DB_RUN_MIGRATIONS" envDefault:"true"`
}

// DSN returns a libpq style connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type RedisConfig struct {
	// Empty Addr disables the dashboard cache and idempotency keys.
	Addr       string `env:"REDIS_ADDR"`
	MaxRetries int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
}

type KafkaConfig struct {
	Broker        string        `env:"KAFKA_BROKER"`
	ConsumerGroup string        `env:"KAFKA_CONSUMER_GROUP" envDefault:"go-directory-dashboard"`
	PollInterval  time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`
	MaxRetries    int           `env:"KAFKA_MAX_RETRIES" envDefault:"5"`
}

type RateLimitConfig struct {
	ReadPerSecond  float64 `env:"RATE_LIMIT_READ_RPS" envDefault:"10"`
	ReadBurst      int     `env:"RATE_LIMIT_READ_BURST" envDefault:"30"`
	WritePerSecond float64 `env:"RATE_LIMIT_WRITE_RPS" envDefault:"2"`
	WriteBurst     int     `env:"RATE_LIMIT_WRITE_BURST" envDefault:"5"`
}

func (c *Config) IsProduction() bool {
	return c.Env == Production
}

// Load reads the optional .env files and then the process environment.
// Missing .env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ClientConfig holds the defaults of the directory CLI.
type ClientConfig struct {
	APIURL  string        `env:"DIRECTORY_API_URL" envDefault:"http://localhost:3000/api/v1"`
	Timeout time.Duration `env:"DIRECTORY_API_TIMEOUT" envDefault:"10s"`
}

func LoadClient(envFiles ...string) (*ClientConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse client config: %w", err)
	}
	return cfg, nil
}
