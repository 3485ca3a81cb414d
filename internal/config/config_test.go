package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickeats-order-service/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, config.StoreMongo, cfg.Store)
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, "order_events", cfg.RabbitExchange)
	assert.Empty(t, cfg.RabbitURL)
	assert.False(t, cfg.StrictTransitions)
	assert.False(t, cfg.CashRequiresPayment)
	assert.Equal(t, "INR", cfg.CurrencyUnit().String())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
port: "7000"
store: memory
jwt_secret: from-file
currency: usd
strict_status_transitions: true
allowed_origins:
  - https://a.example
  - https://b.example
`), 0o600)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "8080")
	t.Setenv("CASH_REQUIRES_PAYMENT", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.StoreMemory, cfg.Store)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "USD", cfg.Currency)
	assert.True(t, cfg.StrictTransitions)
	assert.True(t, cfg.CashRequiresPayment)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantError string
	}{
		{
			name:      "missing secret",
			env:       map[string]string{"JWT_SECRET": ""},
			wantError: "JWT_SECRET is required",
		},
		{
			name:      "unknown store",
			env:       map[string]string{"JWT_SECRET": "s", "STORE": "redis"},
			wantError: `unknown store "redis"`,
		},
		{
			name:      "bad bool",
			env:       map[string]string{"JWT_SECRET": "s", "STRICT_STATUS_TRANSITIONS": "maybe"},
			wantError: `STRICT_STATUS_TRANSITIONS: strconv.ParseBool: parsing "maybe": invalid syntax`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			require.EqualError(t, err, tt.wantError)
		})
	}

	t.Run("unknown currency", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("CURRENCY", "XYZQ")
		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "currency[XYZQ] is not valid")
	})
}
