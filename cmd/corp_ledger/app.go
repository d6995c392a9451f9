package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/corp_ledger/internal/adapters/appraisal"
	"github.com/SscSPs/corp_ledger/internal/adapters/esi"
	portssvc "github.com/SscSPs/corp_ledger/internal/core/ports/services"
	"github.com/SscSPs/corp_ledger/internal/core/services"
	"github.com/SscSPs/corp_ledger/internal/metrics"
	"github.com/SscSPs/corp_ledger/internal/platform/config"
	"github.com/SscSPs/corp_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/corp_ledger/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// app bundles the long-lived dependencies shared by every command.
type app struct {
	cfg      *config.Config
	pool     *pgxpool.Pool
	registry *prometheus.Registry
	services *portssvc.ServiceContainer
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	repos := pgsql.NewRepositoryProvider(pool)
	container := services.NewServiceContainer(cfg, repos, newUpstream(ctx, cfg), metrics.NewLedgerMetrics(registry))

	return &app{
		cfg:      cfg,
		pool:     pool,
		registry: registry,
		services: container,
	}, nil
}

func (a *app) Close() {
	database.ClosePgxPool(a.pool)
}

// newUpstream builds the outbound adapters that are configured. Name lookups
// use public endpoints and are always available.
func newUpstream(ctx context.Context, cfg *config.Config) services.Upstream {
	esiClient := esi.NewClient(ctx, esi.Config{
		BaseURL:       cfg.ESIBaseURL,
		TokenURL:      cfg.ESITokenURL,
		ClientID:      cfg.ESIClientID,
		ClientSecret:  cfg.ESIClientSecret,
		RefreshToken:  cfg.ESIRefreshToken,
		CorporationID: cfg.ESICorporationID,
		Timeout:       cfg.HTTPTimeout,
	})

	upstream := services.Upstream{Names: esiClient}
	if cfg.ESIConfigured() {
		upstream.Activity = esiClient
	} else {
		slog.Warn("Upstream credentials not configured, synchronization is disabled")
	}

	if cfg.AppraisalURL != "" && cfg.AppraisalAPIKey != "" {
		upstream.Appraisal = appraisal.NewClient(appraisal.Config{
			URL:      cfg.AppraisalURL,
			APIKey:   cfg.AppraisalAPIKey,
			MarketID: cfg.AppraisalMarketID,
			Interval: cfg.AppraisalInterval,
			Timeout:  cfg.HTTPTimeout,
		})
	} else {
		slog.Info("Appraisal provider not configured, contracts stay unappraised")
	}
	return upstream
}

// withApp runs fn with a ready app and releases it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, err := configFrom(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}
