package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `json:"server"`
	Chain     ChainConfig     `json:"chain"`
	MoonPay   MoonPayConfig   `json:"moonpay"`
	Pricing   PricingConfig   `json:"pricing"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Logging   LoggingConfig   `json:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `json:"port"`
	Host         string        `json:"host"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// ChainConfig holds Ethereum node and contract configuration
type ChainConfig struct {
	RPCEndpoint         string        `json:"rpc_endpoint"`
	PrivateKey          string        `json:"-"`
	NFTContract         string        `json:"nft_contract"`
	MarketplaceContract string        `json:"marketplace_contract"`
	CallTimeout         time.Duration `json:"call_timeout"`
	ConfirmTimeout      time.Duration `json:"confirm_timeout"`
}

// MoonPayConfig holds MoonPay API configuration
type MoonPayConfig struct {
	APIKey      string        `json:"api_key"`
	SecretKey   string        `json:"-"`
	BaseURL     string        `json:"base_url"`
	WidgetURL   string        `json:"widget_url"`
	RedirectURL string        `json:"redirect_url"`
	Timeout     time.Duration `json:"timeout"`
}

// PricingConfig holds price-feed configuration
type PricingConfig struct {
	// Source selects the EUR/ETH rate strategy: "coingecko" or "moonpay".
	Source       string        `json:"source"`
	CoinGeckoURL string        `json:"coingecko_url"`
	Timeout      time.Duration `json:"timeout"`
	// NFTPriceETH is the checkout price (in ETH) the MoonPay webhook checks
	// the buyer's balance against.
	NFTPriceETH decimal.Decimal `json:"nft_price_eth"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `json:"requests_per_minute"`
	WindowSize        time.Duration `json:"window_size"`
	CleanupInterval   time.Duration `json:"cleanup_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string   `json:"level"`
	Environment string   `json:"environment"`
	OutputPaths []string `json:"output_paths"`
}

// Price source strategies.
const (
	PriceSourceCoinGecko = "coingecko"
	PriceSourceMoonPay   = "moonpay"
)

// LoadConfig loads configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 2*time.Minute),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Chain: ChainConfig{
			RPCEndpoint:         getEnv("ETH_RPC_ENDPOINT", ""),
			PrivateKey:          getEnv("ETH_PRIVATE_KEY", ""),
			NFTContract:         getEnv("NFT_CONTRACT_ADDRESS", ""),
			MarketplaceContract: getEnv("MARKETPLACE_CONTRACT_ADDRESS", ""),
			CallTimeout:         getDurationEnv("ETH_CALL_TIMEOUT", 15*time.Second),
			ConfirmTimeout:      getDurationEnv("ETH_CONFIRM_TIMEOUT", 90*time.Second),
		},
		MoonPay: MoonPayConfig{
			APIKey:      getEnv("MOONPAY_API_KEY", ""),
			SecretKey:   getEnv("MOONPAY_SECRET_KEY", ""),
			BaseURL:     getEnv("MOONPAY_BASE_URL", "https://api.moonpay.com"),
			WidgetURL:   getEnv("MOONPAY_WIDGET_URL", "https://buy.moonpay.com"),
			RedirectURL: getEnv("MOONPAY_REDIRECT_URL", "http://localhost:3000/transaction"),
			Timeout:     getDurationEnv("MOONPAY_TIMEOUT", 10*time.Second),
		},
		Pricing: PricingConfig{
			Source:       strings.ToLower(getEnv("PRICE_SOURCE", PriceSourceCoinGecko)),
			CoinGeckoURL: getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com"),
			Timeout:      getDurationEnv("PRICE_FEED_TIMEOUT", 10*time.Second),
			NFTPriceETH:  getDecimalEnv("CHECKOUT_NFT_PRICE_ETH", decimal.RequireFromString("0.05")),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getIntEnv("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
			WindowSize:        getDurationEnv("RATE_LIMIT_WINDOW_SIZE", time.Minute),
			CleanupInterval:   getDurationEnv("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: getEnv("LOG_ENVIRONMENT", "development"),
			OutputPaths: getStringSliceEnv("LOG_OUTPUT_PATHS", []string{"stdout"}),
		},
	}
}

// Validate checks that every required value is present so the process fails
// at startup instead of on the first request that needs it.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"ETH_RPC_ENDPOINT", c.Chain.RPCEndpoint},
		{"ETH_PRIVATE_KEY", c.Chain.PrivateKey},
		{"NFT_CONTRACT_ADDRESS", c.Chain.NFTContract},
		{"MARKETPLACE_CONTRACT_ADDRESS", c.Chain.MarketplaceContract},
		{"MOONPAY_API_KEY", c.MoonPay.APIKey},
		{"MOONPAY_SECRET_KEY", c.MoonPay.SecretKey},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.Pricing.Source != PriceSourceCoinGecko && c.Pricing.Source != PriceSourceMoonPay {
		return fmt.Errorf("unknown PRICE_SOURCE %q: must be %q or %q",
			c.Pricing.Source, PriceSourceCoinGecko, PriceSourceMoonPay)
	}

	if !c.Pricing.NFTPriceETH.IsPositive() {
		return fmt.Errorf("CHECKOUT_NFT_PRICE_ETH must be positive, got %s", c.Pricing.NFTPriceETH)
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getDecimalEnv(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
