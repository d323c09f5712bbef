// Package chait provides a top-level convenience entry point for running
// the multi-character turn-taking engine with minimal boilerplate.
//
// Usage:
//
//	import chait "github.com/ccalde29/CHAIT-world-sub001"
//
//	cfg, _ := config.Load("")
//	engine, err := chait.New(cfg, myGenerator)
//	result, err := engine.RunTurn(ctx, turn.TurnInput{...})
//
// This is a thin wrapper that wires config → store → orchestrator; callers
// with their own store or logger should build a turn.Orchestrator directly.
package chait

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ccalde29/CHAIT-world-sub001/config"
	"github.com/ccalde29/CHAIT-world-sub001/internal/metrics"
	"github.com/ccalde29/CHAIT-world-sub001/state"
	"github.com/ccalde29/CHAIT-world-sub001/turn"
)

// New builds a ready-to-use Orchestrator from configuration: logger, state
// store and metrics are created and wired per cfg.
func New(cfg config.Config, gen turn.Generator) (*turn.Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	store, err := state.NewStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	collector := metrics.NewCollector("chait", prometheus.DefaultRegisterer, logger)

	return turn.NewOrchestrator(store, gen, cfg.Engine, logger, turn.WithMetrics(collector))
}

// NewLogger builds a zap logger for the configured level and mode.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zc.Level = level
	}
	return zc.Build()
}
