package factory

import (
	"context"
	"fmt"

	"dossier-be/pkg/llm"
	"dossier-be/pkg/llm/gemini"
	"dossier-be/pkg/llm/huggingface"
	"dossier-be/pkg/llm/ollama"
)

type Config struct {
	Provider string // "ollama" | "gemini" | "huggingface"
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(ctx context.Context, cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama", "":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "gemini":
		return gemini.NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	case "huggingface":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("huggingface provider needs an api key")
		}
		return huggingface.NewHuggingFaceProvider(cfg.APIKey, "", cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
