package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pix-charge.backend/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.01", cfg.Charge.MinAmount.String())
	assert.Equal(t, "999999.99", cfg.Charge.MaxAmount.String())
	assert.Equal(t, 30*time.Minute, cfg.Charge.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Charge.Retention)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CHARGE_MAX_AMOUNT", "500.00")
	t.Setenv("CHARGE_TTL", "5m")
	t.Setenv("PAYMENT_GATEWAY_MOCK", "true")
	t.Setenv("MP_ACCESS_TOKEN", "APP_USR-token")

	cfg := config.Load()
	assert.Equal(t, "500", cfg.Charge.MaxAmount.String())
	assert.Equal(t, 5*time.Minute, cfg.Charge.TTL)
	assert.False(t, cfg.Processor.UseMercadoPago(), "forced mock wins over a real token")
}

func TestProcessorSelection(t *testing.T) {
	p := config.ProcessorConfig{}
	assert.False(t, p.UseMercadoPago())

	p.AccessToken = "TEST-sandbox-token"
	assert.False(t, p.UseMercadoPago(), "sandbox tokens stay on the mock")

	p.AccessToken = "APP_USR-production-token"
	assert.True(t, p.UseMercadoPago())
}

func TestValidate_OversizedMerchantName(t *testing.T) {
	t.Setenv("PIX_MERCHANT_NAME", strings.Repeat("N", 26))

	cfg := config.Load()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merchant identity")
}

func TestValidate_InvertedBounds(t *testing.T) {
	t.Setenv("CHARGE_MIN_AMOUNT", "10.00")
	t.Setenv("CHARGE_MAX_AMOUNT", "5.00")

	cfg := config.Load()
	assert.Error(t, cfg.Validate())
}
