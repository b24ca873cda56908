package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"CultureSync/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/thejerf/suture/v4"
)

// HTTPServer the lifecycle methods of *http.Server
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService supervised HTTP listener with graceful shutdown
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
}

func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{server: server, shutdownTimeout: shutdownTimeout}
}

func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		// ctx is already done, shutdown gets its own deadline
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (h *HTTPServerService) String() string {
	return "http-server"
}

// SchedulerService supervised cron refresh schedule
type SchedulerService struct {
	scheduler *service.RefreshScheduler
}

func NewSchedulerService(s *service.RefreshScheduler) *SchedulerService {
	return &SchedulerService{scheduler: s}
}

func (s *SchedulerService) Serve(ctx context.Context) error {
	return s.scheduler.Start(ctx)
}

func (s *SchedulerService) String() string {
	return "refresh-scheduler"
}

// WarmupService fills the cache once at start-up. It runs exactly once: a failed warm-up
// is logged and the first request refreshes instead.
type WarmupService struct {
	refresher service.Refresher
	logger    *logrus.Logger
}

func NewWarmupService(r service.Refresher, logger *logrus.Logger) *WarmupService {
	return &WarmupService{refresher: r, logger: logger}
}

func (w *WarmupService) Serve(ctx context.Context) error {
	count, _, err := w.refresher.RefreshNow(ctx)
	if err != nil {
		w.logger.WithError(err).Warn("initial cache warm-up failed")
	} else {
		w.logger.WithField("count", count).Info("initial cache warm-up finished")
	}
	return suture.ErrDoNotRestart
}

func (w *WarmupService) String() string {
	return "cache-warmup"
}
