// Package llm provides the multi-vendor provider layer used by the report
// generator and the turnaround agent.
package llm

import (
	"context"
)

// Provider is the interface for all LLM providers.
//
// Options understood by all providers: "model" (string), "temperature"
// (float64), "max_tokens" (int). Gemini additionally understands
// "google_search" (bool) and "response_format" ({"type": "json_object"}).
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into model-specific formats.
	AdaptInstructions(rawInstructions string) string
}

// VisionProvider is implemented by providers that can describe images.
type VisionProvider interface {
	DescribeImage(ctx context.Context, imageData []byte, mimeType string, prompt string, options map[string]interface{}) (string, error)
}

func optString(options map[string]interface{}, key, fallback string) string {
	if val, ok := options[key].(string); ok && val != "" {
		return val
	}
	return fallback
}

func optFloat(options map[string]interface{}, key string, fallback float64) float64 {
	if val, ok := options[key].(float64); ok {
		return val
	}
	return fallback
}

func optInt(options map[string]interface{}, key string, fallback int) int {
	if val, ok := options[key].(int); ok && val > 0 {
		return val
	}
	return fallback
}
