package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"CultureSync/internal/adapter"
	"CultureSync/internal/ai"
	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/service"
	"CultureSync/internal/translate"

	// source adapters register themselves
	_ "CultureSync/internal/adapter/mocklocal"
	_ "CultureSync/internal/adapter/official"
	_ "CultureSync/internal/adapter/whattodo"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "culturesync",
	Short:         "Aggregates, enriches and serves Timișoara cultural events",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand: run the server
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to the config file (default ./config/config.yaml)")
	rootCmd.AddCommand(serveCmd, collectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// app everything both commands share
type app struct {
	cfg       *config.Config
	logger    *logrus.Logger
	location  *time.Location
	providers []interfaces.AIProvider
	dict      *translate.Dictionary
	sync      *service.SyncService
}

func newApp(withAI bool) (*app, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg.Log)
	loc, err := cfg.Location.Load()
	if err != nil {
		return nil, err
	}

	var providers []interfaces.AIProvider
	if withAI {
		providers = ai.NewProvidersFromConfig(cfg.AI, logger)
	}

	registry := adapter.NewSourceRegistry(cfg, interfaces.SourceDeps{Logger: logger, Location: loc})
	dict := translate.DefaultDictionary()
	aggregator := service.NewAggregator(registry.Adapters(), logger, nil)
	enricher := service.NewEnricher(
		service.NewAIChain(providers), dict,
		service.NewBatchLimiter(cfg.Enricher.BatchDelay), logger, nil,
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		location:  loc,
		providers: providers,
		dict:      dict,
		sync:      service.NewSyncService(aggregator, enricher, cfg.Enricher.BatchSize, logger),
	}, nil
}
