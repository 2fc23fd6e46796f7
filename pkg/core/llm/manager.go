package llm

import (
	"context"
	"fmt"

	"github.com/QueryType/bharattrader/pkg/config"
)

// Roles used for per-role provider overrides in the config.
const (
	RoleReport     = "report"
	RoleSummarizer = "summarizer"
	RoleAgent      = "agent"
	RoleVision     = "vision"
)

// Manager resolves the configured provider for each role and applies the
// shared request rate limit.
type Manager struct {
	cfg       config.Config
	providers map[string]Provider
}

// NewManager builds the provider set from the configuration.
func NewManager(cfg config.Config) *Manager {
	return &Manager{
		cfg: cfg,
		providers: map[string]Provider{
			"gemini":   Throttle(&GeminiProvider{Model: cfg.Models.Text}, cfg.RateLimitRPM),
			"claude":   Throttle(&ClaudeProvider{Model: cfg.Models.Text}, cfg.RateLimitRPM),
			"openai":   Throttle(&OpenAIProvider{Model: cfg.Models.Text}, cfg.RateLimitRPM),
			"deepseek": Throttle(&DeepSeekProvider{Model: cfg.Models.Text}, cfg.RateLimitRPM),
		},
	}
}

// GetProvider returns the provider for a role: role override first, then
// the global active provider, then gemini as the fallback.
func (m *Manager) GetProvider(role string) Provider {
	if name, ok := m.cfg.Roles[role]; ok && name != "" {
		if p, ok := m.providers[name]; ok {
			return p
		}
	}
	if p, ok := m.providers[m.cfg.ActiveProvider]; ok {
		return p
	}
	return m.providers["gemini"]
}

// GetProviderByName retrieves a provider by its vendor name.
func (m *Manager) GetProviderByName(name string) (Provider, error) {
	if p, ok := m.providers[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("provider %s not found", name)
}

// Vision returns a provider capable of image description, or an error when
// the configured stack has none. Only Gemini carries vision here; the
// throttled wrapper is bypassed because image description is rare.
func (m *Manager) Vision() (VisionProvider, error) {
	return &GeminiProvider{Model: m.cfg.Models.Vision}, nil
}

// ExecutePrompt adapts instructions for the role's provider and sends the
// request.
func (m *Manager) ExecutePrompt(ctx context.Context, role string, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(role)
	adapted := provider.AdaptInstructions(systemPrompt)
	return provider.GenerateResponse(ctx, prompt, adapted, options)
}

// ActiveProvider reports the configured global provider name.
func (m *Manager) ActiveProvider() string {
	return m.cfg.ActiveProvider
}

// SetActiveProvider switches the global provider, e.g. from a --provider flag.
func (m *Manager) SetActiveProvider(name string) error {
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %s not found", name)
	}
	m.cfg.ActiveProvider = name
	return nil
}
