package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher anything that can refresh the event set on demand
type Refresher interface {
	RefreshNow(ctx context.Context) (int, time.Time, error)
}

// RefreshScheduler triggers periodic cache refreshes on a cron spec
type RefreshScheduler struct {
	cron      *cron.Cron
	spec      string
	refresher Refresher
	logger    *logrus.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRefreshScheduler spec is a standard 5-field cron expression or a descriptor such as "@every 6h"
func NewRefreshScheduler(spec string, refresher Refresher, logger *logrus.Logger) (*RefreshScheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse refresh schedule %q: %w", spec, err)
	}
	return &RefreshScheduler{
		spec:      spec,
		refresher: refresher,
		logger:    logger,
	}, nil
}

// Start runs until ctx is cancelled
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron = cron.New(cron.WithChain(cron.Recover(cronLogger{s.logger}), cron.SkipIfStillRunning(cronLogger{s.logger})))
	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("schedule refresh: %w", err)
	}
	s.cron.Start()
	runCtx := s.ctx
	s.mu.Unlock()

	s.logger.WithField("schedule", s.spec).Info("refresh scheduler started")
	<-runCtx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("refresh scheduler stopped")
	return ctx.Err()
}

// Stop ends a running Start
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *RefreshScheduler) tick() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	s.Tick(ctx)
}

// Tick one scheduled refresh; failures are logged and the schedule continues
func (s *RefreshScheduler) Tick(ctx context.Context) {
	count, updated, err := s.refresher.RefreshNow(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("scheduled refresh failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"count":        count,
		"last_updated": updated,
	}).Info("scheduled refresh finished")
}

// cronLogger adapts logrus to cron.Logger
type cronLogger struct {
	logger *logrus.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.WithFields(kvFields(keysAndValues)).Debug("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.WithError(err).WithFields(kvFields(keysAndValues)).Error("cron: " + msg)
}

func kvFields(kv []any) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
