package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.ShareUnitValue.Equal(decimal.NewFromInt(1_000_000_000)))
	assert.True(t, cfg.SubsidyCreditFraction.Equal(decimal.RequireFromString("0.1")))
	assert.True(t, cfg.MarketCreditFraction.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, cfg.IndustryCreditFraction.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 500, cfg.RecentFlowsLimit)
	assert.Equal(t, 750*time.Millisecond, cfg.AppraisalInterval)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "https://esi.evetech.net/latest", cfg.ESIBaseURL)
	assert.False(t, cfg.ESIConfigured())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SHARE_UNIT_VALUE", "2500000")
	t.Setenv("MARKET_CREDIT_FRACTION", "0.02")
	t.Setenv("ESI_CLIENT_ID", "client")
	t.Setenv("ESI_REFRESH_TOKEN", "refresh")
	t.Setenv("ESI_CORPORATION_ID", "98000001")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.ShareUnitValue.Equal(decimal.NewFromInt(2_500_000)))
	assert.True(t, cfg.MarketCreditFraction.Equal(decimal.RequireFromString("0.02")))
	assert.Equal(t, int64(98000001), cfg.ESICorporationID)
	assert.True(t, cfg.ESIConfigured())
}

func TestLoadConfig_ZeroShareUnitIsAccepted(t *testing.T) {
	t.Setenv("SHARE_UNIT_VALUE", "0")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.ShareUnitValue.IsZero())
}

func TestLoadConfig_EmptyShareUnitIsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("SHARE_UNIT_VALUE: \"\"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.ShareUnitValue.IsZero())
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	t.Run("non-numeric fraction", func(t *testing.T) {
		t.Setenv("SUBSIDY_CREDIT_FRACTION", "ten percent")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "SUBSIDY_CREDIT_FRACTION")
	})
	t.Run("negative fraction", func(t *testing.T) {
		t.Setenv("INDUSTRY_CREDIT_FRACTION", "-1")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "INDUSTRY_CREDIT_FRACTION")
	})
	t.Run("wallet division out of range", func(t *testing.T) {
		t.Setenv("ESI_WALLET_DIVISION", "9")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: \"9090\"\nRECENT_FLOWS_LIMIT: 50\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 50, cfg.RecentFlowsLimit)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	cfg := &Config{Port: "9000"}
	ctx := WithContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
