// Package config loads process configuration from the environment (and an
// optional .env file), grounded on the teacher's pkg/config: viper +
// godotenv, struct-tagged defaults, env override, production validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the server needs to start.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

// ServerConfig is the HTTP listener's own settings.
type ServerConfig struct {
	Host            string        `mapstructure:"HOST"`
	Port            int           `mapstructure:"PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	Environment     string        `mapstructure:"ENVIRONMENT"`
	AllowedOrigins  string        `mapstructure:"ALLOWED_ORIGINS"`
}

// DatabaseConfig is the postgres connection.
type DatabaseConfig struct {
	URL          string `mapstructure:"URL"`
	Host         string `mapstructure:"HOST"`
	Port         int    `mapstructure:"PORT"`
	User         string `mapstructure:"USER"`
	Password     string `mapstructure:"PASSWORD"`
	Name         string `mapstructure:"NAME"`
	SSLMode      string `mapstructure:"SSL_MODE"`
	MaxOpenConns int    `mapstructure:"MAX_OPEN_CONNS"`
}

// DSN returns the postgres connection string.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.MaxOpenConns,
	)
}

// RedisConfig is the schedule-cache connection.
type RedisConfig struct {
	URL      string `mapstructure:"URL"`
	Host     string `mapstructure:"HOST"`
	Port     int    `mapstructure:"PORT"`
	Password string `mapstructure:"PASSWORD"`
	DB       int    `mapstructure:"DB"`
}

// Address returns the Redis address.
func (c *RedisConfig) Address() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig is the JWT signing configuration.
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	JWTExpiry  time.Duration `mapstructure:"JWT_EXPIRY"`
	BcryptCost int           `mapstructure:"BCRYPT_COST"`
}

// Load reads configuration from .env, environment variables and an
// optional config.yaml, applying defaults, then validates it.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/sprig/")
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	overrideFromEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Host", "0.0.0.0")
	v.SetDefault("Server.Port", 8080)
	v.SetDefault("Server.SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("Server.Environment", "development")
	v.SetDefault("Server.ALLOWED_ORIGINS", "*")

	v.SetDefault("Database.Host", "localhost")
	v.SetDefault("Database.Port", 5432)
	v.SetDefault("Database.SSL_MODE", "disable")
	v.SetDefault("Database.MAX_OPEN_CONNS", 10)

	v.SetDefault("Redis.Host", "localhost")
	v.SetDefault("Redis.Port", 6379)
	v.SetDefault("Redis.DB", 0)

	v.SetDefault("Auth.JWT_EXPIRY", 24*time.Hour)
	v.SetDefault("Auth.BCRYPT_COST", 10)
}

func overrideFromEnv(cfg *Config) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		cfg.Redis.URL = url
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Server.Environment = env
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Environment == "production" && cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

func loadEnvFile() {
	if err := godotenv.Load(); err == nil {
		return
	}
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
