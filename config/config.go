package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const configFileEnvName = "GROCERYAI_CONFIG_FILE"

// Cart store backends
const (
	CartStoreMemory = "memory"
	CartStoreRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Reference ReferenceConfig
	Cart      CartConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	MaxImagePixels  int64         `mapstructure:"max_image_pixels"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ReferenceConfig points at the halal and price tables
type ReferenceConfig struct {
	Path string `mapstructure:"path"` // Empty uses the embedded tables
}

// CartConfig holds shopping cart session configuration
type CartConfig struct {
	Store    string        `mapstructure:"store"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // Requests per minute
}

// Load loads configuration from environment variables and config files.
// The file can be pinned with --config or GROCERYAI_CONFIG_FILE.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}
	return load(configFilePath(os.Args[1:]))
}

func load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/groceryai/")
	}

	// Environment variable settings
	v.SetEnvPrefix("GROCERYAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional unless pinned explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// configFilePath reads --config from args; the environment variable wins when set
func configFilePath(args []string) string {
	flags := pflag.NewFlagSet("groceryai", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	path := flags.String("config", "", "path to config file")
	_ = flags.Parse(args)

	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}
	return *path
}

// loadEnvFile exports ./.env without overriding variables already set; a missing file is ignored
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return gotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8501"})
	v.SetDefault("server.max_upload_bytes", 10<<20) // 10 MiB
	v.SetDefault("server.max_image_pixels", 4096*4096)
	v.SetDefault("server.shutdown_timeout", "10s")

	// Reference data defaults
	v.SetDefault("reference.path", "")

	// Cart defaults
	v.SetDefault("cart.store", CartStoreMemory)
	v.SetDefault("cart.redis_url", "")
	v.SetDefault("cart.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cart.Store != CartStoreMemory && config.Cart.Store != CartStoreRedis {
		return fmt.Errorf("cart store must be 'memory' or 'redis', got: %s", config.Cart.Store)
	}

	if config.Cart.Store == CartStoreRedis && config.Cart.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cart store is 'redis' (set GROCERYAI_CART_REDIS_URL)")
	}

	if config.Cart.TTL <= 0 {
		return fmt.Errorf("cart TTL must be positive, got: %s", config.Cart.TTL)
	}

	if config.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got: %d", config.Server.MaxUploadBytes)
	}

	if config.Server.MaxImagePixels <= 0 {
		return fmt.Errorf("max image pixels must be positive, got: %d", config.Server.MaxImagePixels)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("rate limit per IP must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
