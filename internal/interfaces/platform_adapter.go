package interfaces

import (
	"context"
	"time"

	"CultureSync/internal/config"
	"CultureSync/internal/model"

	"github.com/sirupsen/logrus"
)

// SourceAdapter every event source must implement this.
// Operational failures (network, HTML) are handled inside the adapter, which then returns its
// fallback set; a returned error means the source contributes nothing this cycle.
type SourceAdapter interface {
	// GetName stable source name, part of every event id
	GetName() string
	FetchEvents(ctx context.Context) ([]model.RawEvent, error)
}

// AIProvider text generation backend (Gemini, Ollama, ...)
type AIProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// SourceDeps shared collaborators handed to every adapter factory
type SourceDeps struct {
	Logger   *logrus.Logger
	Location *time.Location   // local timezone of the listed events
	Now      func() time.Time // clock, time.Now when nil
}

// Factory builds a source adapter from its config section
type Factory func(cfg config.SourceConfig, deps SourceDeps) SourceAdapter
