package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"CultureSync/internal/api"
	"CultureSync/internal/service"
	"CultureSync/internal/supervisor"
	"CultureSync/internal/translate"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with scheduled refreshes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(true)
	if err != nil {
		return err
	}
	cfg, logger := a.cfg, a.logger

	cache := service.NewEventCache(a.sync.Run, cfg.Cache.TTL, cfg.Cache.RefreshTimeout, logger, nil)
	verifier := service.NewSubmissionVerifier(a.providers, cache, a.dict, service.VerifierOptions{
		Threshold:     cfg.Submission.ApprovalThreshold,
		LocalKeywords: cfg.Submission.LocalKeywords,
		Location:      a.location,
	}, logger)
	svc := service.NewEventService(cache, translate.NewTranslator(a.providers, a.dict, logger), verifier, logger, nil)

	scheduler, err := service.NewRefreshScheduler(cfg.Cache.RefreshCron, cache, logger)
	if err != nil {
		return err
	}

	router := api.NewRouter(svc, logger, api.RouterOptions{Mode: cfg.Server.Mode, Pprof: true, Metrics: true})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	tree := supervisor.NewTree(logger, supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout})
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddJobService(supervisor.NewSchedulerService(scheduler))
	if cfg.Cache.WarmOnStart {
		tree.AddJobService(supervisor.NewWarmupService(cache, logger))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("port", cfg.Server.Port).Info("server starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor stopped: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
