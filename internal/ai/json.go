package ai

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ErrNoJSON the model text does not contain a JSON object
var ErrNoJSON = errors.New("no json object in model output")

// ExtractJSON returns the outermost {...} span of model output, ignoring
// markdown fences and any prose around it.
func ExtractJSON(text string) (string, error) {
	clean := strings.TrimSpace(text)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	return clean[start : end+1], nil
}

// DecodeJSON extracts and decodes the JSON object of model output into v.
func DecodeJSON(text string, v any) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode model json: %w", err)
	}
	return nil
}
