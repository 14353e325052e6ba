// Package main provides the entry point for the scholarship recommendation
// service.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caleb/scholarmatch/internal/config"
	"github.com/caleb/scholarmatch/internal/db"
	"github.com/caleb/scholarmatch/internal/engine"
	"github.com/caleb/scholarmatch/internal/llm"
	"github.com/caleb/scholarmatch/internal/logger"
	"github.com/caleb/scholarmatch/internal/scoring"
)

var rootCmd = &cobra.Command{
	Use:   "scholarmatch",
	Short: "Scholarship recommendation engine",
	Long:  "Scholarmatch scores a scholarship catalog against student profiles, ranks hybrid rule-based and semantic matches, and validates ranking quality against curated fixtures.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired service dependencies shared by the subcommands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *db.Store
	engine *engine.Engine
	client llm.Client
}

// newApp loads configuration and wires the store, analyzer, and engine.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	var analyzer scoring.Analyzer
	var client llm.Client
	if cfg.Analyzer.Enabled {
		gemini, err := llm.NewGeminiClient(ctx, cfg.Analyzer.APIKey, cfg.Analyzer.Model)
		if err != nil {
			store.Close()
			return nil, err
		}
		client = gemini
		analyzer = llm.NewMatchAnalyzer(gemini, log, time.Duration(cfg.Analyzer.TimeoutSeconds)*time.Second)
	} else {
		log.Info("semantic analyzer disabled, using rule-based scoring only")
	}

	scorer := scoring.NewScorer(analyzer, log)
	eng := engine.New(store, scorer, log, cfg.Engine.Workers)

	return &app{cfg: cfg, logger: log, store: store, engine: eng, client: client}, nil
}

func (a *app) close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	a.store.Close()
	_ = a.logger.Sync()
}
