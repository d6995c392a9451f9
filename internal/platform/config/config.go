package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string `mapstructure:"PGSQL_URL"`
	Port           string `mapstructure:"PORT" validate:"required"`
	IsProduction   bool   `mapstructure:"IS_PRODUCTION"`
	EnableDBCheck  bool   `mapstructure:"ENABLE_DB_CHECK"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH" validate:"required"`

	// Ledger policy
	ShareUnitValue         decimal.Decimal `mapstructure:"-"`
	SubsidyCreditFraction  decimal.Decimal `mapstructure:"-"`
	MarketCreditFraction   decimal.Decimal `mapstructure:"-"`
	IndustryCreditFraction decimal.Decimal `mapstructure:"-"`
	RecentFlowsLimit       int             `mapstructure:"RECENT_FLOWS_LIMIT" validate:"gt=0"`

	// Upstream game API
	ESIClientID       string `mapstructure:"ESI_CLIENT_ID"`
	ESIClientSecret   string `mapstructure:"ESI_CLIENT_SECRET"`
	ESIRefreshToken   string `mapstructure:"ESI_REFRESH_TOKEN"`
	ESIBaseURL        string `mapstructure:"ESI_BASE_URL" validate:"required,url"`
	ESITokenURL       string `mapstructure:"ESI_TOKEN_URL" validate:"required,url"`
	ESICorporationID  int64  `mapstructure:"ESI_CORPORATION_ID" validate:"gte=0"`
	ESIWalletDivision int    `mapstructure:"ESI_WALLET_DIVISION" validate:"gte=1,lte=7"`

	// Appraisal provider
	AppraisalURL      string        `mapstructure:"APPRAISAL_URL" validate:"omitempty,url"`
	AppraisalAPIKey   string        `mapstructure:"APPRAISAL_API_KEY"`
	AppraisalMarketID int           `mapstructure:"APPRAISAL_MARKET_ID" validate:"gt=0"`
	AppraisalInterval time.Duration `mapstructure:"APPRAISAL_INTERVAL" validate:"gte=0"`

	HTTPTimeout        time.Duration `mapstructure:"HTTP_TIMEOUT" validate:"gt=0"`
	CORSAllowedOrigins []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
	APIRateLimit       string        `mapstructure:"API_RATE_LIMIT" validate:"required"`
}

// ESIConfigured reports whether credentials for authenticated upstream calls are present.
func (c *Config) ESIConfigured() bool {
	return c.ESIClientID != "" && c.ESIRefreshToken != "" && c.ESICorporationID > 0
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")

	v.SetDefault("SHARE_UNIT_VALUE", "1000000000")
	v.SetDefault("SUBSIDY_CREDIT_FRACTION", "0.10")
	v.SetDefault("MARKET_CREDIT_FRACTION", "0.01")
	v.SetDefault("INDUSTRY_CREDIT_FRACTION", "1")
	v.SetDefault("RECENT_FLOWS_LIMIT", 500)

	v.SetDefault("ESI_CLIENT_ID", "")
	v.SetDefault("ESI_CLIENT_SECRET", "")
	v.SetDefault("ESI_REFRESH_TOKEN", "")
	v.SetDefault("ESI_BASE_URL", "https://esi.evetech.net/latest")
	v.SetDefault("ESI_TOKEN_URL", "https://login.eveonline.com/v2/oauth/token")
	v.SetDefault("ESI_CORPORATION_ID", 0)
	v.SetDefault("ESI_WALLET_DIVISION", 1)

	v.SetDefault("APPRAISAL_URL", "")
	v.SetDefault("APPRAISAL_API_KEY", "")
	v.SetDefault("APPRAISAL_MARKET_ID", 2)
	v.SetDefault("APPRAISAL_INTERVAL", "750ms")

	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("API_RATE_LIMIT", "60-M")
}

// LoadConfig loads configuration from defaults, an optional config file, a .env file
// and environment variables, in increasing order of precedence.
func LoadConfig(configFile string) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		RecentFlowsLimit:   v.GetInt("RECENT_FLOWS_LIMIT"),
		ESIClientID:        v.GetString("ESI_CLIENT_ID"),
		ESIClientSecret:    v.GetString("ESI_CLIENT_SECRET"),
		ESIRefreshToken:    v.GetString("ESI_REFRESH_TOKEN"),
		ESIBaseURL:         v.GetString("ESI_BASE_URL"),
		ESITokenURL:        v.GetString("ESI_TOKEN_URL"),
		ESICorporationID:   v.GetInt64("ESI_CORPORATION_ID"),
		ESIWalletDivision:  v.GetInt("ESI_WALLET_DIVISION"),
		AppraisalURL:       v.GetString("APPRAISAL_URL"),
		AppraisalAPIKey:    v.GetString("APPRAISAL_API_KEY"),
		AppraisalMarketID:  v.GetInt("APPRAISAL_MARKET_ID"),
		AppraisalInterval:  v.GetDuration("APPRAISAL_INTERVAL"),
		HTTPTimeout:        v.GetDuration("HTTP_TIMEOUT"),
		CORSAllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		APIRateLimit:       v.GetString("API_RATE_LIMIT"),
	}

	var err error
	// An empty share unit degrades like a zero one.
	if v.GetString("SHARE_UNIT_VALUE") == "" {
		cfg.ShareUnitValue = decimal.Zero
	} else if cfg.ShareUnitValue, err = decimalKey(v, "SHARE_UNIT_VALUE"); err != nil {
		return nil, err
	}
	if cfg.SubsidyCreditFraction, err = decimalKey(v, "SUBSIDY_CREDIT_FRACTION"); err != nil {
		return nil, err
	}
	if cfg.MarketCreditFraction, err = decimalKey(v, "MARKET_CREDIT_FRACTION"); err != nil {
		return nil, err
	}
	if cfg.IndustryCreditFraction, err = decimalKey(v, "INDUSTRY_CREDIT_FRACTION"); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	for name, fraction := range map[string]decimal.Decimal{
		"SUBSIDY_CREDIT_FRACTION":  cfg.SubsidyCreditFraction,
		"MARKET_CREDIT_FRACTION":   cfg.MarketCreditFraction,
		"INDUSTRY_CREDIT_FRACTION": cfg.IndustryCreditFraction,
	} {
		if fraction.IsNegative() {
			return nil, fmt.Errorf("invalid configuration: %s must not be negative", name)
		}
	}

	// A non-positive share unit only zeroes share figures in reports.
	if !cfg.ShareUnitValue.IsPositive() {
		slog.Warn("SHARE_UNIT_VALUE is not positive, share figures will be reported as zero",
			slog.String("share_unit_value", cfg.ShareUnitValue.String()))
	}
	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set.")
	}

	return cfg, nil
}

func decimalKey(v *viper.Viper, key string) (decimal.Decimal, error) {
	raw := v.GetString(key)
	if raw == "" {
		return decimal.Zero, errors.New("invalid configuration: " + key + " is empty")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid configuration: %s=%q is not a number: %w", key, raw, err)
	}
	return d, nil
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying cfg.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext returns the configuration stored by WithContext, or nil.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(contextKey{}).(*Config)
	return cfg
}
