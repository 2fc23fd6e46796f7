package llm

import (
	"context"
	"fmt"
	"os"
)

// DeepSeekProvider implements the Provider interface against the DeepSeek
// chat completions endpoint (OpenAI-compatible wire format).
type DeepSeekProvider struct {
	Model string
}

var _ Provider = (*DeepSeekProvider)(nil)

func (p *DeepSeekProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if val, ok := options["api_key"].(string); ok && val != "" {
		apiKey = val
	}
	if apiKey == "" {
		return "", fmt.Errorf("DEEPSEEK_API_KEY_MISSING: Please set DEEPSEEK_API_KEY env var")
	}

	model := p.Model
	if model == "" {
		model = "deepseek-chat"
	}
	model = optString(options, "model", model)

	messages := []ChatMessage{}
	if systemPrompt != "" {
		messages = append(messages, ChatMessage{Content: systemPrompt, Role: "system"})
	}
	messages = append(messages, ChatMessage{Content: prompt, Role: "user"})

	reqBody := chatRequest{
		Messages:    messages,
		Model:       model,
		MaxTokens:   optInt(options, "max_tokens", 4096),
		Temperature: optFloat(options, "temperature", 1.0),
	}

	return chatCompletion(ctx, "https://api.deepseek.com/chat/completions", apiKey, reqBody, "DEEPSEEK")
}

func (p *DeepSeekProvider) AdaptInstructions(raw string) string {
	return raw
}
