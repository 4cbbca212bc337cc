// Package config loads SenseBoard's runtime configuration: a TOML file
// (optional) layered under environment variables, which always win. Keys
// are dotted (ai.provider, server.port, ...); env vars use the same path
// with dots replaced by underscores and upper-cased (AI_PROVIDER,
// SERVER_PORT, ...).
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
)

// AI provider identifiers recognized by ai.provider.
const (
	ProviderDeterministic = "deterministic"
	ProviderOpenAI        = "openai"
	ProviderCodexCLI      = "codex_cli"
	ProviderAnthropic     = "anthropic"
	ProviderAuto          = "auto"
)

var validProviders = map[string]bool{
	ProviderDeterministic: true,
	ProviderOpenAI:        true,
	ProviderCodexCLI:      true,
	ProviderAnthropic:     true,
	ProviderAuto:          true,
}

// AIConfig holds the ai.* and ai.review.* keys.
type AIConfig struct {
	Provider                 string
	OpenAIModel              string
	CodexModel               string
	AnthropicModel           string
	OpenAITranscriptionModel string
	OpenAIAPIKey             string
	AnthropicAPIKey          string
	ReviewMaxRevisions       int
	ReviewConfidenceThresh   float64
}

// ServerConfig holds the server.* keys.
type ServerConfig struct {
	Port          int
	PortScanSpan  int
}

// CaptureConfig holds capture.transcriptionChunks.* keys.
type CaptureConfig struct {
	TranscriptionChunksEnabled   bool
	TranscriptionChunksDirectory string
}

// Config is SenseBoard's fully-resolved runtime configuration.
type Config struct {
	AI       AIConfig
	Server   ServerConfig
	Capture  CaptureConfig
	LogLevel string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", ProviderDeterministic)
	v.SetDefault("ai.openai_model", "gpt-4o-mini")
	v.SetDefault("ai.codex_model", "codex-mini")
	v.SetDefault("ai.anthropic_model", "claude-3-5-haiku-latest")
	v.SetDefault("ai.openai_transcription_model", "whisper-1")
	v.SetDefault("ai.review.max_revisions", 20)
	v.SetDefault("ai.review.confidence_threshold", 0.98)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.port_scan_span", 10)
	v.SetDefault("logging.level", "info")
	v.SetDefault("capture.transcriptionChunks.enabled", false)
	v.SetDefault("capture.transcriptionChunks.directory", "./transcript-captures")
}

// Load reads an optional TOML file at path (ignored if empty or missing)
// and overlays environment variables, then validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("reading config file %q: %w", path, err)
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		AI: AIConfig{
			Provider:                 v.GetString("ai.provider"),
			OpenAIModel:              v.GetString("ai.openai_model"),
			CodexModel:               v.GetString("ai.codex_model"),
			AnthropicModel:           v.GetString("ai.anthropic_model"),
			OpenAITranscriptionModel: v.GetString("ai.openai_transcription_model"),
			OpenAIAPIKey:             v.GetString("ai.openai_api_key"),
			AnthropicAPIKey:          v.GetString("ai.anthropic_api_key"),
			ReviewMaxRevisions:       v.GetInt("ai.review.max_revisions"),
			ReviewConfidenceThresh:   normalizeConfidence(v.GetFloat64("ai.review.confidence_threshold")),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			PortScanSpan: v.GetInt("server.port_scan_span"),
		},
		Capture: CaptureConfig{
			TranscriptionChunksEnabled:   v.GetBool("capture.transcriptionChunks.enabled"),
			TranscriptionChunksDirectory: v.GetString("capture.transcriptionChunks.directory"),
		},
		LogLevel: v.GetString("logging.level"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalizeConfidence accepts both a 0-1 fraction and a 0-10 scale:
// anything over 1 is assumed to be on the 0-10 scale and divided down
// (rounded to 7 decimal places, so 9.8 becomes exactly 0.98).
func normalizeConfidence(v float64) float64 {
	if v > 1 {
		return math.Round(v*1e6) / 1e7
	}
	return v
}

func (c *Config) validate() error {
	var errs []string

	if !validProviders[c.AI.Provider] {
		errs = append(errs, fmt.Sprintf("ai.provider must be one of deterministic|openai|codex_cli|anthropic|auto (got %q)", c.AI.Provider))
	}
	if c.AI.ReviewMaxRevisions < 1 {
		errs = append(errs, fmt.Sprintf("ai.review.max_revisions must be >= 1 (got %d)", c.AI.ReviewMaxRevisions))
	}
	if c.AI.ReviewConfidenceThresh < 0 || c.AI.ReviewConfidenceThresh > 1 {
		errs = append(errs, fmt.Sprintf("ai.review.confidence_threshold must normalize to 0-1 (got %v)", c.AI.ReviewConfidenceThresh))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be a valid port number (got %d)", c.Server.Port))
	}
	if c.Server.PortScanSpan < 1 {
		errs = append(errs, fmt.Sprintf("server.port_scan_span must be >= 1 (got %d)", c.Server.PortScanSpan))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// RedactSecret shows only the first 8 characters of a credential, for
// logging configuration at startup without leaking it.
func RedactSecret(secret string) string {
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:8] + "***"
}
