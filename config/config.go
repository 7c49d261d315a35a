package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Provider  ProviderConfig
	Gemini    GeminiConfig
	Shopping  ShoppingConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Images    ImagesConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProviderConfig selects the default upstream provider
type ProviderConfig struct {
	Default string `mapstructure:"default"` // "gemini" or "shopping"
}

// GeminiConfig holds generative provider configuration
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// ShoppingConfig holds shopping-search provider configuration
type ShoppingConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// ImagesConfig holds image-resolution configuration
type ImagesConfig struct {
	MaxLookups   int           `mapstructure:"max_lookups"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	MaxRedirects int           `mapstructure:"max_redirects"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopscan/")

	v.SetEnvPrefix("SHOPSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional - env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Provider defaults. Secrets default to empty so AutomaticEnv can bind
	// SHOPSCAN_GEMINI_API_KEY etc. during Unmarshal.
	v.SetDefault("provider.default", "gemini")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("shopping.api_key", "")
	v.SetDefault("shopping.base_url", "https://serpapi.com")

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)

	// Image resolution defaults
	v.SetDefault("images.max_lookups", 3)
	v.SetDefault("images.fetch_timeout", "8s")
	v.SetDefault("images.max_redirects", 3)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Provider.Default {
	case "gemini":
		if config.Gemini.APIKey == "" {
			return fmt.Errorf("Gemini API key is required (set SHOPSCAN_GEMINI_API_KEY)")
		}
	case "shopping":
		if config.Shopping.APIKey == "" {
			return fmt.Errorf("shopping API key is required (set SHOPSCAN_SHOPPING_API_KEY)")
		}
	default:
		return fmt.Errorf("provider must be 'gemini' or 'shopping', got: %s", config.Provider.Default)
	}

	if config.Images.MaxLookups < 0 {
		return fmt.Errorf("images.max_lookups must be non-negative")
	}

	return nil
}
