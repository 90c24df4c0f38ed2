package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"wallet_dashboard/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int    `yaml:"idleTimeoutSeconds"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// AlchemyConfig configures the JSON-RPC balance and transfer source.
type AlchemyConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	APIKey               string  `yaml:"apiKey"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimit            float64 `yaml:"rateLimit"` // requests per second, 0 disables
	BurstLimit           int     `yaml:"burstLimit"`

	// MaxConcurrentRequests bounds the token metadata fan-out per balance lookup.
	MaxConcurrentRequests int `yaml:"maxConcurrentRequests"`
}

// MoralisConfig configures the by-contract-address price source.
type MoralisConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	Chain                string `yaml:"chain"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// CoinGeckoConfig configures the by-id fallback price source.
type CoinGeckoConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// TokenPriceServiceConfig holds configuration for the TokenPriceService.
type TokenPriceServiceConfig struct {
	CacheTTLMinutes        int `yaml:"cacheTTLMinutes"`
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
	MaxConcurrentRequests  int `yaml:"maxConcurrentRequests"`
}

// TransactionsConfig bounds the transfer limit accepted from clients.
type TransactionsConfig struct {
	DefaultLimit int `yaml:"defaultLimit"`
	MaxLimit     int `yaml:"maxLimit"`
}

// FavoritesConfig selects the favorites store backend.
type FavoritesConfig struct {
	Backend       string `yaml:"backend"` // memory or redis
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
}

// CORSConfig lists allowed browser origins. Empty means all origins.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server        ServerConfig            `yaml:"server"`
	Logging       LoggingConfig           `yaml:"logging"`
	Alchemy       AlchemyConfig           `yaml:"alchemy"`
	Moralis       MoralisConfig           `yaml:"moralis"`
	CoinGecko     CoinGeckoConfig         `yaml:"coingecko"`
	TokenPriceSvc TokenPriceServiceConfig `yaml:"tokenPriceService"`
	Transactions  TransactionsConfig      `yaml:"transactions"`
	Favorites     FavoritesConfig         `yaml:"favorites"`
	CORS          CORSConfig              `yaml:"cors"`
}

// Load reads the YAML configuration file from the given path, applies environment
// overrides and fills defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Config from raw YAML, applying environment overrides and defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no sensible default.
func (c *Config) Validate() error {
	switch c.Favorites.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("favorites.backend must be memory or redis, got %q", c.Favorites.Backend)
	}
	if c.Favorites.Backend == "redis" && c.Favorites.RedisAddr == "" {
		return fmt.Errorf("favorites.redisAddr is required for the redis backend")
	}
	if c.Transactions.DefaultLimit > c.Transactions.MaxLimit {
		return fmt.Errorf("transactions.defaultLimit (%d) exceeds transactions.maxLimit (%d)",
			c.Transactions.DefaultLimit, c.Transactions.MaxLimit)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	overrides := map[string]*string{
		"ALCHEMY_API_KEY":   &cfg.Alchemy.APIKey,
		"MORALIS_API_KEY":   &cfg.Moralis.APIKey,
		"COINGECKO_API_KEY": &cfg.CoinGecko.APIKey,
		"SERVER_PORT":       &cfg.Server.Port,
		"LOG_LEVEL":         &cfg.Logging.Level,
		"FAVORITES_BACKEND": &cfg.Favorites.Backend,
		"REDIS_ADDR":        &cfg.Favorites.RedisAddr,
		"REDIS_PASSWORD":    &cfg.Favorites.RedisPassword,
	}
	for name, dst := range overrides {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv("REDIS_DB"); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.Favorites.RedisDB = db
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("server.port not set, defaulting to %s", cfg.Server.Port)
	}
	cfg.Server.Port = strings.TrimPrefix(cfg.Server.Port, ":")
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 60
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 120
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Alchemy.BaseURL == "" {
		cfg.Alchemy.BaseURL = "https://eth-mainnet.g.alchemy.com/v2"
		logrus.Infof("alchemy.baseURL not set, defaulting to %s", cfg.Alchemy.BaseURL)
	}
	if cfg.Alchemy.RequestTimeoutMillis <= 0 {
		cfg.Alchemy.RequestTimeoutMillis = 10000
		logrus.Infof("alchemy.requestTimeoutMillis not set, defaulting to %d ms", cfg.Alchemy.RequestTimeoutMillis)
	}
	if cfg.Alchemy.RateLimit > 0 && cfg.Alchemy.BurstLimit <= 0 {
		cfg.Alchemy.BurstLimit = 1
	}
	if cfg.Alchemy.MaxConcurrentRequests <= 0 {
		cfg.Alchemy.MaxConcurrentRequests = 10
	}

	if cfg.Moralis.BaseURL == "" {
		cfg.Moralis.BaseURL = "https://deep-index.moralis.io/api/v2"
		logrus.Infof("moralis.baseURL not set, defaulting to %s", cfg.Moralis.BaseURL)
	}
	if cfg.Moralis.Chain == "" {
		cfg.Moralis.Chain = "eth"
	}
	if cfg.Moralis.RequestTimeoutMillis <= 0 {
		cfg.Moralis.RequestTimeoutMillis = 10000
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
		logrus.Infof("coingecko.baseURL not set, defaulting to %s", cfg.CoinGecko.BaseURL)
	}
	if cfg.CoinGecko.RequestTimeoutMillis <= 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
	}

	if cfg.TokenPriceSvc.CacheTTLMinutes <= 0 {
		cfg.TokenPriceSvc.CacheTTLMinutes = 5
		logrus.Infof("tokenPriceService.cacheTTLMinutes not set, defaulting to %d minutes", cfg.TokenPriceSvc.CacheTTLMinutes)
	}
	if cfg.TokenPriceSvc.CleanupIntervalMinutes <= 0 {
		cfg.TokenPriceSvc.CleanupIntervalMinutes = 10
	}
	if cfg.TokenPriceSvc.MaxConcurrentRequests <= 0 {
		cfg.TokenPriceSvc.MaxConcurrentRequests = 10
	}

	if cfg.Transactions.MaxLimit <= 0 {
		cfg.Transactions.MaxLimit = 1000
	}
	if cfg.Transactions.DefaultLimit <= 0 {
		cfg.Transactions.DefaultLimit = entity.DefaultTransferLimit
	}

	if cfg.Favorites.Backend == "" {
		cfg.Favorites.Backend = "memory"
		logrus.Infof("favorites.backend not set, defaulting to %s", cfg.Favorites.Backend)
	}
}
