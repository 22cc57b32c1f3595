package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"prizepool/database"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP configuration
	HTTPAddr string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated), empty disables publishing

	// Lottery economics
	TicketUnitPrice             decimal.Decimal // price of one ticket, in the payment currency
	PoolContributionFraction    decimal.Decimal // fraction of an approved payment that funds the pool
	PayoutProbabilityMultiplier decimal.Decimal // payout fraction = min(probability x multiplier, cap)
	MaxPayoutFraction           decimal.Decimal // hard cap on the pool share of a single payout

	// CurrencyDecimals maps supported currencies to their payout precision.
	// Payouts round down to this many decimal places; 0 means whole units.
	CurrencyDecimals map[string]int32

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// Set replaces the global configuration instance. Intended for tests.
func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsSupportedCurrency reports whether the currency can fund the pool
func (c *Config) IsSupportedCurrency(currency string) bool {
	_, ok := c.CurrencyDecimals[currency]
	return ok
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),

		NATSServers: os.Getenv("NATS_SERVERS"),

		TicketUnitPrice:             decimal.NewFromInt(2),
		PoolContributionFraction:    decimal.RequireFromString("0.5"),
		PayoutProbabilityMultiplier: decimal.NewFromInt(2),
		MaxPayoutFraction:           decimal.RequireFromString("0.5"),

		CurrencyDecimals: defaultCurrencyDecimals(),

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := overrideDecimal(&config.TicketUnitPrice, "TICKET_UNIT_PRICE"); err != nil {
		return nil, err
	}
	if err := overrideDecimal(&config.PoolContributionFraction, "POOL_CONTRIBUTION_FRACTION"); err != nil {
		return nil, err
	}
	if err := overrideDecimal(&config.PayoutProbabilityMultiplier, "PAYOUT_PROBABILITY_MULTIPLIER"); err != nil {
		return nil, err
	}
	if err := overrideDecimal(&config.MaxPayoutFraction, "MAX_PAYOUT_FRACTION"); err != nil {
		return nil, err
	}

	if raw := os.Getenv("CURRENCY_DECIMALS"); raw != "" {
		parsed, err := ParseCurrencyDecimals(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CURRENCY_DECIMALS: %w", err)
		}
		config.CurrencyDecimals = parsed
	}

	if !config.TicketUnitPrice.IsPositive() {
		return nil, fmt.Errorf("TICKET_UNIT_PRICE must be positive, got %s", config.TicketUnitPrice)
	}

	return config, nil
}

// defaultCurrencyDecimals returns the built-in supported currencies.
// POINTS is the whole-unit in-app currency; payouts in it floor to integers.
func defaultCurrencyDecimals() map[string]int32 {
	return map[string]int32{
		"POINTS": 0,
		"USDT":   2,
		"TON":    9,
	}
}

// ParseCurrencyDecimals parses a "CUR:decimals,CUR:decimals" list
func ParseCurrencyDecimals(raw string) (map[string]int32, error) {
	result := make(map[string]int32)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed entry %q, want CURRENCY:decimals", pair)
		}
		currency := strings.ToUpper(strings.TrimSpace(parts[0]))
		decimals, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 32)
		if err != nil || decimals < 0 {
			return nil, fmt.Errorf("malformed decimals in %q", pair)
		}
		result[currency] = int32(decimals)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no currencies configured")
	}
	return result, nil
}

// NewTestConfig returns a config with defaults suitable for tests
func NewTestConfig() *Config {
	return &Config{
		HTTPAddr:                    ":0",
		TicketUnitPrice:             decimal.NewFromInt(2),
		PoolContributionFraction:    decimal.RequireFromString("0.5"),
		PayoutProbabilityMultiplier: decimal.NewFromInt(2),
		MaxPayoutFraction:           decimal.RequireFromString("0.5"),
		CurrencyDecimals:            defaultCurrencyDecimals(),
		Environment:                 "test",
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func overrideDecimal(target *decimal.Decimal, key string) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = parsed
	return nil
}
