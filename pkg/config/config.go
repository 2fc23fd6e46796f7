// Package config loads application configuration from a YAML file, a .env
// file and environment variables. Precedence: flags > env > YAML > defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

// Config is the full application configuration shared by the fininsight
// pipeline and the turnaround agent.
type Config struct {
	ActiveProvider string            `yaml:"active_provider"` // gemini, claude, openai, deepseek
	Models         ModelConfig       `yaml:"models"`
	DataDir        string            `yaml:"data_dir"`
	OutputDir      string            `yaml:"output_dir"`
	TemplatePath   string            `yaml:"template_path"`
	Agent          AgentConfig       `yaml:"agent"`
	Converters     ConverterConfig   `yaml:"converters"`
	LLMLogging     bool              `yaml:"llm_logging"`
	RateLimitRPM   int               `yaml:"rate_limit_rpm"`
	Roles          map[string]string `yaml:"roles"` // role -> provider override
}

// ModelConfig names the models used for each role.
type ModelConfig struct {
	Text   string `yaml:"text"`
	Vision string `yaml:"vision"`
	Agent  string `yaml:"agent"`
}

// AgentConfig bounds the turnaround agent loop.
type AgentConfig struct {
	MaxSteps    int    `yaml:"max_steps"`
	CSVPath     string `yaml:"csv_path"`
	OutputDir   string `yaml:"output_dir"`
	CmdTimeoutS int    `yaml:"cmd_timeout_seconds"`
}

// ConverterConfig holds knobs for the format converters.
type ConverterConfig struct {
	TesseractBinary string `yaml:"tesseract_binary"`
	DisableCache    bool   `yaml:"disable_cache"`
}

// Default returns the configuration used when no file or env overrides are
// present.
func Default() Config {
	return Config{
		ActiveProvider: "gemini",
		Models: ModelConfig{
			Text:   "gemini-2.0-flash-exp",
			Vision: "gemini-2.0-flash-exp",
			Agent:  "gemini-2.0-flash-exp",
		},
		DataDir:    "company_data",
		LLMLogging: true,
		Agent: AgentConfig{
			MaxSteps:    20,
			CSVPath:     "data/financial_data.csv",
			OutputDir:   "output",
			CmdTimeoutS: 30,
		},
		Converters: ConverterConfig{
			TesseractBinary: "tesseract",
		},
		RateLimitRPM: 30,
		Roles:        map[string]string{},
	}
}

// Load builds the configuration. A missing YAML path or .env file is not an
// error; missing API keys surface later, when a provider is actually used.
func Load(yamlPath string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, assuming environment variables are set")
	}

	cfg := Default()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return cfg, fmt.Errorf("CONFIG_READ_ERROR: %s: %w", yamlPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("CONFIG_PARSE_ERROR: %s: %w", yamlPath, err)
		}
	} else if data, err := os.ReadFile("fininsight.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("CONFIG_PARSE_ERROR: fininsight.yaml: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FININSIGHT_PROVIDER"); v != "" {
		cfg.ActiveProvider = strings.ToLower(v)
	}
	if v := os.Getenv("FININSIGHT_TEXT_MODEL"); v != "" {
		cfg.Models.Text = v
	}
	if v := os.Getenv("FININSIGHT_VISION_MODEL"); v != "" {
		cfg.Models.Vision = v
	}
	if v := os.Getenv("FININSIGHT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FININSIGHT_LLM_LOGGING"); v != "" {
		cfg.LLMLogging = strings.ToLower(v) == "true"
	}
}

// SetupLogging configures the global zerolog logger for CLI use.
func SetupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}
