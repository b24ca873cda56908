// Package ai contains the clients for the text generation providers used for
// event enhancement, translation and submission scoring.
package ai

import (
	"errors"
	"fmt"
	"net/http"

	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// ErrEmptyResponse the provider answered without any generated text
var ErrEmptyResponse = errors.New("empty response")

// ProviderError any failure of one AI call: transport, status, quota or undecodable output
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerErr(provider string, format string, args ...any) error {
	return &ProviderError{Provider: provider, Err: fmt.Errorf(format, args...)}
}

// NewProvidersFromConfig configured providers in fallback order (gemini, ollama),
// each behind its own circuit breaker. An empty slice means rule-based only.
func NewProvidersFromConfig(cfg config.AIConfig, logger *logrus.Logger) []interfaces.AIProvider {
	client := httpclient.NewAPIClient(cfg.Timeout)
	var providers []interfaces.AIProvider

	if cfg.Gemini.Enabled() {
		providers = append(providers, NewBreakerProvider(NewGeminiClient(cfg.Gemini, client), cfg.Breaker, logger))
	} else {
		logger.Info("gemini api key not configured, skipping gemini")
	}
	if cfg.Ollama.Enabled {
		providers = append(providers, NewBreakerProvider(NewOllamaClient(cfg.Ollama, client), cfg.Breaker, logger))
	}

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	logger.WithField("providers", names).Info("ai providers initialized")
	return providers
}

func checkStatus(provider string, resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	snippet := string(body)
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	return providerErr(provider, "unexpected status %d: %s", resp.StatusCode, snippet)
}
