package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/apperrors"
)

// Config holds the runtime configuration of the storefront API.
type Config struct {
	AppPort     string
	LogLevel    string
	DBDriver    string
	DatabaseDSN string
	JWTSecret   string
	TokenTTL    time.Duration
	BcryptCost  int
	HashWorkers int
	CatalogPath string
	ImagesDir   string
	RabbitMQURL string
	// RabbitMQConsume logs account events from the queue in-process. Leave off when another service consumes it.
	RabbitMQConsume bool
	CORSOrigins     string
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		BcryptCost:      v.GetInt("BCRYPT_COST"),
		HashWorkers:     v.GetInt("HASH_WORKERS"),
		CatalogPath:     v.GetString("CATALOG_PATH"),
		ImagesDir:       v.GetString("IMAGES_DIR"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RabbitMQConsume: v.GetBool("RABBITMQ_CONSUME"),
		CORSOrigins:     v.GetString("CORS_ORIGINS"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "storefront.db")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("HASH_WORKERS", runtime.NumCPU())
	v.SetDefault("CATALOG_PATH", "data/products.json")
	v.SetDefault("IMAGES_DIR", "data/images")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_CONSUME", false)
	v.SetDefault("CORS_ORIGINS", "*")
}

// Validate rejects configurations the server must not start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return apperrors.Configuration("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return apperrors.Configuration("TOKEN_TTL must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return apperrors.Configuration("BCRYPT_COST out of range")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return apperrors.Configuration("DB_DRIVER must be sqlite or postgres")
	}
	if c.HashWorkers <= 0 {
		c.HashWorkers = 1
	}
	return nil
}
