package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nexsupply/report-core/internal/config"
	"github.com/nexsupply/report-core/internal/store"
	"github.com/nexsupply/report-core/internal/vision"
	"github.com/nexsupply/report-core/internal/weight"
	"github.com/nexsupply/report-core/pkg/anthropic"
	"github.com/nexsupply/report-core/pkg/gemini"
)

// openStore opens and migrates the configured report store.
func openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL, cfg.Store.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// newResolver wires the unit weight resolver from config. A missing
// vision credential is not an error — the vision stage just abstains.
func newResolver() (*weight.Resolver, error) {
	m := visionModel(cfg)
	adapter := vision.NewAdapter(m, nil, time.Duration(cfg.Vision.TimeoutSecs)*time.Second)

	table := weight.DefaultCategoryTable()
	if cfg.Weight.CategoryTablePath != "" {
		t, err := weight.LoadCategoryTable(cfg.Weight.CategoryTablePath)
		if err != nil {
			return nil, err
		}
		table = t
	}

	return weight.NewResolver(adapter, table), nil
}

func visionModel(cfg *config.Config) vision.Model {
	switch cfg.Vision.Provider {
	case "anthropic":
		if cfg.Anthropic.Key == "" {
			zap.L().Warn("vision provider anthropic selected but no key configured")
			return nil
		}
		return vision.NewAnthropicModel(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)
	default:
		if cfg.Gemini.Key == "" {
			return nil
		}
		client := gemini.NewClient(cfg.Gemini.Key,
			gemini.WithModel(cfg.Gemini.Model),
			gemini.WithRateLimit(cfg.Gemini.RequestsPerSec),
		)
		return vision.NewGeminiModel(client, cfg.Gemini.Model)
	}
}
