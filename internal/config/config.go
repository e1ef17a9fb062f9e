package config

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT, default=8080"`
	GinMode   string `env:"GIN_MODE, default=debug"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	DB      DBConfig
	Session SessionConfig
	Docs    DocsConfig
}

type DBConfig struct {
	Driver   string `env:"DB_DRIVER, default=mysql"`
	Host     string `env:"DB_HOST, default=localhost"`
	Port     string `env:"DB_PORT, default=3306"`
	User     string `env:"DB_USER, default=gazer"`
	Password string `env:"DB_PASSWORD, default=gazer"`
	Name     string `env:"DB_NAME, default=gazer"`
	Path     string `env:"DB_PATH, default=gazer.db"`
}

type SessionConfig struct {
	Store            string `env:"SESSION_STORE, default=redis"`
	RedisHost        string `env:"REDIS_HOST, default=localhost"`
	RedisPort        string `env:"REDIS_PORT, default=6379"`
	RedisPassword    string `env:"REDIS_PASSWORD"`
	Secret           string `env:"SESSION_SECRET, default=default-secret-key-change-me"`
	RememberMeSecret string `env:"REMEMBER_ME_SECRET, default=default-remember-me-key-change-me"`
}

type DocsConfig struct {
	Backend        string `env:"DOCS_BACKEND, default=local"`
	Root           string `env:"DOCS_ROOT, default=./docs"`
	PurgeOnDelete  bool   `env:"DOCS_PURGE_ON_DELETE, default=false"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES, default=10485760"`

	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION, default=us-east-1"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// RedisAddr returns host:port of the session Redis.
func (c SessionConfig) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
