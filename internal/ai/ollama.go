package ai

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"CultureSync/internal/config"

	"github.com/goccy/go-json"
)

const OllamaName = "ollama"

// OllamaClient non-streaming /api/generate of a local Ollama server
type OllamaClient struct {
	cfg    config.OllamaConfig
	client *http.Client
}

func NewOllamaClient(cfg config.OllamaConfig, client *http.Client) *OllamaClient {
	if cfg.Host == "" {
		cfg.Host = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama2"
	}
	return &OllamaClient{cfg: cfg, client: client}
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (o *OllamaClient) Name() string {
	return OllamaName
}

func (o *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:  o.cfg.Model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: o.cfg.Temperature,
			NumPredict:  o.cfg.MaxTokens,
		},
	})
	if err != nil {
		return "", providerErr(OllamaName, "encode request: %w", err)
	}

	endpoint := strings.TrimRight(o.cfg.Host, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", providerErr(OllamaName, "build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", providerErr(OllamaName, "request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", providerErr(OllamaName, "read body: %w", err)
	}
	if err := checkStatus(OllamaName, resp, body); err != nil {
		return "", err
	}

	var out ollamaResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", providerErr(OllamaName, "decode response: %w", err)
	}
	if out.Error != "" {
		return "", providerErr(OllamaName, "%s", out.Error)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", &ProviderError{Provider: OllamaName, Err: ErrEmptyResponse}
	}
	return out.Response, nil
}
