package ai

import (
	"context"
	"errors"
	"time"

	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/metrics"

	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerProvider wraps an AIProvider with a circuit breaker. While open, calls fail
// immediately with a ProviderError so the caller moves on to its next tier.
type BreakerProvider struct {
	provider interfaces.AIProvider
	cb       *gobreaker.CircuitBreaker[string]
	logger   *logrus.Entry
}

func NewBreakerProvider(provider interfaces.AIProvider, cfg config.BreakerConfig, logger *logrus.Logger) *BreakerProvider {
	name := provider.Name()
	entry := logger.WithField("provider", name)

	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			entry.WithFields(logrus.Fields{
				"from": stateToString(from),
				"to":   stateToString(to),
			}).Warn("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		// a caller giving up is not a provider failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerProvider{provider: provider, cb: cb, logger: entry}
}

func (b *BreakerProvider) Name() string {
	return b.provider.Name()
}

func (b *BreakerProvider) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := b.cb.Execute(func() (string, error) {
		return b.provider.Generate(ctx, prompt)
	})
	name := b.provider.Name()

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.AIProviderRequests.WithLabelValues(name, "rejected").Inc()
			return "", &ProviderError{Provider: name, Err: err}
		}
		metrics.AIProviderRequests.WithLabelValues(name, "failure").Inc()
		metrics.AIProviderDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		var perr *ProviderError
		if errors.As(err, &perr) {
			return "", err
		}
		return "", &ProviderError{Provider: name, Err: err}
	}

	metrics.AIProviderRequests.WithLabelValues(name, "success").Inc()
	metrics.AIProviderDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return text, nil
}

// State current breaker state, for health reporting
func (b *BreakerProvider) State() string {
	return stateToString(b.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
