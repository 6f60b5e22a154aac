package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connector-selector/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSendsJSONFormatAndZeroTemperature(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"m","message":{"role":"assistant","content":"{\"value\":2}"},"done":true}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/", "llama3")
	out, err := p.Generate(context.Background(), "hi", llm.WithTemperature(0), llm.WithJSON())
	require.NoError(t, err)
	assert.Equal(t, `{"value":2}`, out)

	assert.Equal(t, "llama3", got["model"])
	assert.Equal(t, "json", got["format"])
	options := got["options"].(map[string]interface{})
	assert.Equal(t, 0.0, options["temperature"])
}

func TestChatErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		empty  bool
	}{
		{"server error", http.StatusInternalServerError, `boom`, false},
		{"bad json", http.StatusOK, `not json`, false},
		{"empty content", http.StatusOK, `{"message":{"role":"assistant","content":"  "}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOllamaProvider(srv.URL, "m").Generate(context.Background(), "hi")
			require.Error(t, err)
			assert.Equal(t, tt.empty, errors.Is(err, llm.ErrEmptyResponse))
		})
	}
}
