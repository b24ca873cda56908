package service

import (
	"context"
	"fmt"

	"CultureSync/internal/model"

	"github.com/sirupsen/logrus"
)

// SyncService one aggregation cycle: collect every source, then enrich the result
type SyncService struct {
	aggregator *Aggregator
	enricher   *Enricher
	batchSize  int
	logger     *logrus.Logger
}

func NewSyncService(aggregator *Aggregator, enricher *Enricher, batchSize int, logger *logrus.Logger) *SyncService {
	return &SyncService{
		aggregator: aggregator,
		enricher:   enricher,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// Collect sources only, no enrichment
func (s *SyncService) Collect(ctx context.Context) []model.SourcedEvent {
	return s.aggregator.Collect(ctx)
}

// Run full cycle; usable as the cache RefreshFunc. Fails only when ctx is done,
// source and AI failures are absorbed by the aggregator and the enricher.
func (s *SyncService) Run(ctx context.Context) ([]model.EnrichedEvent, error) {
	events := s.aggregator.Collect(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collect events: %w", err)
	}
	s.logger.WithField("count", len(events)).Info("collected events, enriching")

	enriched := s.enricher.EnrichAll(ctx, events, s.batchSize)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("enrich events: %w", err)
	}
	return enriched, nil
}
