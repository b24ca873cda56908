// Package supervisor runs the long-lived parts of the server (HTTP listener, refresh
// schedule, start-up warm-up) under a suture supervisor tree.
package supervisor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thejerf/suture/v4"
)

// TreeConfig restart policy of the tree
type TreeConfig struct {
	FailureThreshold float64
	FailureDecay     float64 // seconds
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree two layers: api (HTTP) and jobs (scheduler, warm-up). A crashing job never takes
// the listener down.
type Tree struct {
	root   *suture.Supervisor
	api    *suture.Supervisor
	jobs   *suture.Supervisor
	logger *logrus.Logger
}

func NewTree(logger *logrus.Logger, cfg TreeConfig) *Tree {
	def := DefaultTreeConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = def.FailureDecay
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = def.FailureBackoff
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	spec := suture.Spec{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	rootSpec := spec
	rootSpec.EventHook = EventHook(logger)

	root := suture.New("culturesync", rootSpec)
	api := suture.New("api-layer", spec)
	jobs := suture.New("jobs-layer", spec)
	root.Add(api)
	root.Add(jobs)

	return &Tree{root: root, api: api, jobs: jobs, logger: logger}
}

func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

func (t *Tree) AddJobService(svc suture.Service) suture.ServiceToken {
	return t.jobs.Add(svc)
}

// Serve blocks until ctx is cancelled
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// EventHook logs suture events through logrus
func EventHook(logger *logrus.Logger) suture.EventHook {
	return func(e suture.Event) {
		entry := logger.WithFields(logrus.Fields(e.Map()))
		switch e.Type() {
		case suture.EventTypeServicePanic:
			entry.Error("supervised service panicked")
		case suture.EventTypeServiceTerminate:
			entry.Warn("supervised service terminated")
		case suture.EventTypeBackoff:
			entry.Warn("supervisor entering backoff")
		case suture.EventTypeResume:
			entry.Info("supervisor resuming")
		case suture.EventTypeStopTimeout:
			entry.Error("service did not stop in time")
		default:
			entry.Debug(e.String())
		}
	}
}
