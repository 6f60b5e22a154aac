package factory

import (
	"fmt"

	"connector-selector/pkg/llm"
	"connector-selector/pkg/llm/huggingface"
	"connector-selector/pkg/llm/ollama"
)

// Provider names accepted by NewLLMProvider.
const (
	ProviderNone        = "none"
	ProviderOllama      = "ollama"
	ProviderHuggingFace = "huggingface"
)

// Config selects and parameterizes a backend.
type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// NewLLMProvider builds the configured backend. ProviderNone yields a nil
// provider, which callers treat as "heuristics only".
func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case ProviderNone, "":
		return nil, nil
	case ProviderOllama:
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	case ProviderHuggingFace:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("huggingface provider requires an api key")
		}
		return huggingface.NewHuggingFaceProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
