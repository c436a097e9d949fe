package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string        `env:"PORT,         default=5000"`
	Env         string        `env:"ENV,          default=development"`
	JWTSecret   string        `env:"JWT_SECRET,   required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=1h"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	FrontendURL string        `env:"FRONTEND_URL, default=http://localhost:3000"`
	StaticDir   string        `env:"STATIC_DIR"`

	Hashing HashingConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type HashingConfig struct {
	BcryptCost int `env:"BCRYPT_COST,  default=10"`
	Workers    int `env:"HASH_WORKERS, default=0"`
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI,             default=mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DB,              default=smartwaste"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=5s"`
	IdleTimeout    time.Duration `env:"MONGO_IDLE_TIMEOUT,    default=45s"`
	ConnectRetries uint64        `env:"MONGO_CONNECT_RETRIES, default=5"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("config: JWT_SECRET must not be blank")
	}
	return &cfg, nil
}

// IsDevelopment reports whether internal error details may be shown to clients.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
