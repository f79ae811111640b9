package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

// devJWTSecret is the fallback signing secret for local development only.
// Load rejects a missing JWT_SECRET when APP_ENV is production.
const devJWTSecret = "boostweb-secret-key-change-in-production"

type Config struct {
	AtlasURI string `env:"MONGO_ATLAS_URI"`
	LocalURI string `env:"MONGO_LOCAL_URI"`

	Port     int    `env:"PORT" envDefault:"3000"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret   string   `env:"JWT_SECRET"`
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`
	CORSOrigins []string `env:"CORS_ORIGIN" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:8000"`

	ConnectTimeoutS         int `env:"DB_CONNECT_TIMEOUT_S" envDefault:"10"`
	ServerSelectionTimeoutS int `env:"DB_SERVER_SELECTION_TIMEOUT_S" envDefault:"5"`
	SocketTimeoutS          int `env:"DB_SOCKET_TIMEOUT_S" envDefault:"45"`
	MinPoolSize             int `env:"DB_MIN_POOL_SIZE" envDefault:"2"`
	MaxPoolSize             int `env:"DB_MAX_POOL_SIZE" envDefault:"10"`
	ConnectRetries          int `env:"DB_CONNECT_RETRIES" envDefault:"3"`

	ShutdownTimeoutS    int `env:"SHUTDOWN_TIMEOUT_S" envDefault:"30"`
	DisconnectTimeoutS  int `env:"DB_DISCONNECT_TIMEOUT_S" envDefault:"10"`
	MaxRequestBodyBytes int `env:"MAX_REQUEST_BODY_BYTES" envDefault:"10485760"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.Production() {
			return nil, fmt.Errorf("config.Load: JWT_SECRET is required when APP_ENV=production")
		}
		cfg.JWTSecret = devJWTSecret
	}

	return &cfg, nil
}

func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func (c *Config) Development() bool {
	return c.AppEnv == "development"
}
