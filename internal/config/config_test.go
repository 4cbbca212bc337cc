package config

import (
	"os"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"AI_PROVIDER", "AI_OPENAI_MODEL", "AI_CODEX_MODEL", "AI_ANTHROPIC_MODEL",
		"AI_OPENAI_TRANSCRIPTION_MODEL", "AI_OPENAI_API_KEY", "AI_ANTHROPIC_API_KEY",
		"AI_REVIEW_MAX_REVISIONS", "AI_REVIEW_CONFIDENCE_THRESHOLD",
		"SERVER_PORT", "SERVER_PORT_SCAN_SPAN", "LOGGING_LEVEL",
	}
	for _, k := range keys {
		orig := os.Getenv(k)
		os.Unsetenv(k)
		t.Cleanup(func(k, orig string) func() {
			return func() {
				if orig != "" {
					os.Setenv(k, orig)
				}
			}
		}(k, orig))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.AI.Provider != ProviderDeterministic {
		t.Errorf("expected default provider %q, got %q", ProviderDeterministic, cfg.AI.Provider)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.AI.ReviewMaxRevisions != 20 {
		t.Errorf("expected default max revisions 20, got %d", cfg.AI.ReviewMaxRevisions)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	clearEnv(t)
	os.Setenv("AI_PROVIDER", "anthropic")
	os.Setenv("SERVER_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.AI.Provider != "anthropic" {
		t.Errorf("expected env override to win, got %q", cfg.AI.Provider)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port override 9090, got %d", cfg.Server.Port)
	}
}

func TestLoadInvalidProvider(t *testing.T) {
	clearEnv(t)
	os.Setenv("AI_PROVIDER", "not-a-real-provider")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for invalid provider, got nil")
	}
	if !strings.Contains(err.Error(), "ai.provider must be one of") {
		t.Errorf("expected provider validation message, got: %v", err)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	clearEnv(t)
	os.Setenv("SERVER_PORT", "99999")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for invalid port, got nil")
	}
	if !strings.Contains(err.Error(), "server.port must be a valid port number") {
		t.Errorf("expected port validation message, got: %v", err)
	}
}

func TestNormalizeConfidenceScale(t *testing.T) {
	if got := normalizeConfidence(0.55); got != 0.55 {
		t.Errorf("expected fraction untouched, got %v", got)
	}
	if got := normalizeConfidence(9.8); got != 0.98 {
		t.Errorf("expected 0-10 scale normalized to 0.98, got %v", got)
	}
}

func TestRedactSecret(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		expected string
	}{
		{"Long secret", "this-is-a-very-long-secret-key", "this-is-***"},
		{"Short secret", "short", "***"},
		{"Exactly 8 chars", "12345678", "***"},
		{"9 chars", "123456789", "12345678***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactSecret(tt.secret); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
