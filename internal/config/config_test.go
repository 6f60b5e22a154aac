package config

import (
	"testing"
	"time"

	"connector-selector/pkg/decision"
	"connector-selector/pkg/llm/factory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, decision.DefaultPolicy(), cfg.Policy)
	assert.Equal(t, time.Hour, cfg.App.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.Ai.InterpreterTimeout)
	assert.Empty(t, cfg.App.NatsURL)
	assert.Empty(t, cfg.App.JwtSecret)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "connector-selector", cfg.Telemetry.ServiceName)
	assert.Equal(t, 1.0, cfg.Telemetry.SampleRatio)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("POLICY_ANSWER_COMMIT_SCORE", "80")
	t.Setenv("POLICY_MIN_ANSWERED", "4")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("INTERPRETER_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("LLM_PROVIDER", "huggingface")
	t.Setenv("HUGGINGFACE_API_KEY", "hf_x")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "selector-eu")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 80.0, cfg.Policy.AnswerCommitScore)
	assert.Equal(t, 4, cfg.Policy.MinAnswered)
	assert.Equal(t, 5*time.Minute, cfg.App.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.Ai.InterpreterTimeout)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "selector-eu", cfg.Telemetry.ServiceName)
	assert.Equal(t, 0.25, cfg.Telemetry.SampleRatio)

	llm := cfg.LLM()
	assert.Equal(t, factory.ProviderHuggingFace, llm.Provider)
	assert.Equal(t, "hf_x", llm.APIKey)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"score above 100", map[string]string{"POLICY_ESCALATE_SCORE": "120"}},
		{"unknown provider", map[string]string{"LLM_PROVIDER": "gpt"}},
		{"zero ttl", map[string]string{"SESSION_TTL_MINUTES": "0"}},
		{"bad contact url", map[string]string{"POLICY_CONTACT_URL": "not a url"}},
		{"port not numeric", map[string]string{"PORT": "http"}},
		{"sample ratio above one", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Error(t, Load().Validate())
		})
	}
}
