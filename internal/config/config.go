package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pix-charge.backend/internal/pix"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Merchant  MerchantConfig
	Charge    ChargeConfig
	Processor ProcessorConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// MerchantConfig holds the fixed recipient identity embedded in every
// generated payload
type MerchantConfig struct {
	Key  string
	Name string
	City string
}

// ChargeConfig holds amount bounds and lifecycle windows
type ChargeConfig struct {
	MinAmount     decimal.Decimal
	MaxAmount     decimal.Decimal
	TTL           time.Duration
	Retention     time.Duration
	SweepInterval time.Duration
}

// ProcessorConfig holds external payment processor configuration
type ProcessorConfig struct {
	AccessToken          string
	NotificationURL      string
	ForceMock            bool
	MockAutoApproveAfter time.Duration
}

// UseMercadoPago reports whether the real processor should be wired in.
// Sandbox tokens (TEST- prefix) stay on the mock, mirroring how the
// deployment was operated.
func (c ProcessorConfig) UseMercadoPago() bool {
	return c.AccessToken != "" && !c.ForceMock && !strings.HasPrefix(c.AccessToken, "TEST-")
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Merchant: MerchantConfig{
			Key:  getEnv("PIX_MERCHANT_KEY", "chave@pix.example.com"),
			Name: getEnv("PIX_MERCHANT_NAME", "PIX PAYMENT"),
			City: getEnv("PIX_MERCHANT_CITY", "BRASILIA"),
		},
		Charge: ChargeConfig{
			MinAmount:     getEnvAsDecimal("CHARGE_MIN_AMOUNT", "0.01"),
			MaxAmount:     getEnvAsDecimal("CHARGE_MAX_AMOUNT", "999999.99"),
			TTL:           getEnvAsDuration("CHARGE_TTL", 30*time.Minute),
			Retention:     getEnvAsDuration("CHARGE_RETENTION", 24*time.Hour),
			SweepInterval: getEnvAsDuration("CHARGE_SWEEP_INTERVAL", 30*time.Second),
		},
		Processor: ProcessorConfig{
			AccessToken:          getEnv("MP_ACCESS_TOKEN", ""),
			NotificationURL:      getEnv("WEBHOOK_URL", ""),
			ForceMock:            getEnvAsBool("PAYMENT_GATEWAY_MOCK", false),
			MockAutoApproveAfter: getEnvAsDuration("MOCK_AUTO_APPROVE_AFTER", 0),
		},
	}
}

// Validate fails fast on configuration that would break every request:
// a merchant identity that cannot encode or inverted amount bounds.
func (c *Config) Validate() error {
	if _, err := pix.BuildPayload(decimal.RequireFromString("1.00"), c.Merchant.Key, c.Merchant.Name, c.Merchant.City, ""); err != nil {
		return fmt.Errorf("merchant identity cannot encode: %w", err)
	}
	if !c.Charge.MinAmount.IsPositive() {
		return fmt.Errorf("CHARGE_MIN_AMOUNT must be positive, got %s", c.Charge.MinAmount)
	}
	if c.Charge.MaxAmount.LessThan(c.Charge.MinAmount) {
		return fmt.Errorf("CHARGE_MAX_AMOUNT %s below CHARGE_MIN_AMOUNT %s", c.Charge.MaxAmount, c.Charge.MinAmount)
	}
	if c.Charge.TTL <= 0 || c.Charge.Retention <= 0 || c.Charge.SweepInterval <= 0 {
		return fmt.Errorf("charge TTL, retention and sweep interval must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(defaultValue)
}

func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}
