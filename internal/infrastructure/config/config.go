package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Tables   TablesConfig
	Register RegisterConfig
}

type PostgresConfig struct {
	DSN          string `env:"POSTGRES_DSN, default=postgres://localhost:5432/account_system?sslmode=disable"`
	MaxOpenConns int    `env:"POSTGRES_MAX_OPEN_CONNS, default=25"`
	MaxIdleConns int    `env:"POSTGRES_MAX_IDLE_CONNS, default=5"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS, default=localhost:9092"`
	Topic   string   `env:"KAFKA_AUDIT_TOPIC, default=account.audit"`
}

// TablesConfig names the store tables. The names are deployment
// configuration; only the column semantics are fixed.
type TablesConfig struct {
	Login    string `env:"TABLE_LOGIN,    default=login"`
	Ban      string `env:"TABLE_BAN,      default=account_ban"`
	Credits  string `env:"TABLE_CREDITS,  default=account_credits"`
	Transfer string `env:"TABLE_TRANSFER, default=credit_transfer_log"`
	Register string `env:"TABLE_REGISTER, default=account_create_log"`
}

// RegisterConfig bounds the registration validation chain.
type RegisterConfig struct {
	MinUsernameLength    int  `env:"MIN_USERNAME_LENGTH, default=4"`
	MaxUsernameLength    int  `env:"MAX_USERNAME_LENGTH, default=23"`
	MinPasswordLength    int  `env:"MIN_PASSWORD_LENGTH, default=4"`
	MaxPasswordLength    int  `env:"MAX_PASSWORD_LENGTH, default=31"`
	AllowDuplicateEmails bool `env:"ALLOW_DUPLICATE_EMAILS, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
