package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "gemini", cfg.ActiveProvider)
	assert.Equal(t, "company_data", cfg.DataDir)
	assert.Equal(t, 20, cfg.Agent.MaxSteps)
	assert.Equal(t, 30, cfg.Agent.CmdTimeoutS)
	assert.True(t, cfg.LLMLogging)
	assert.NotEmpty(t, cfg.Models.Text)
}

func TestLoadYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fininsight.yaml")
	yaml := `
active_provider: deepseek
data_dir: /srv/companies
models:
  text: deepseek-chat
agent:
  max_steps: 5
roles:
  summarizer: openai
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "deepseek", cfg.ActiveProvider)
	assert.Equal(t, "/srv/companies", cfg.DataDir)
	assert.Equal(t, "deepseek-chat", cfg.Models.Text)
	assert.Equal(t, 5, cfg.Agent.MaxSteps)
	assert.Equal(t, "openai", cfg.Roles["summarizer"])
	// Untouched keys keep their defaults.
	assert.Equal(t, 30, cfg.Agent.CmdTimeoutS)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FININSIGHT_PROVIDER", "Claude")
	t.Setenv("FININSIGHT_TEXT_MODEL", "claude-sonnet-4-20250514")
	t.Setenv("FININSIGHT_DATA_DIR", "/tmp/companies")
	t.Setenv("FININSIGHT_LLM_LOGGING", "false")

	cfg := Default()
	applyEnv(&cfg)

	assert.Equal(t, "claude", cfg.ActiveProvider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Models.Text)
	assert.Equal(t, "/tmp/companies", cfg.DataDir)
	assert.False(t, cfg.LLMLogging)
}
