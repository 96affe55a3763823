package llm

import (
	"context"
	"fmt"
)

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopK        *int     `json:"top_k"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// LLMClient defines the standard interface for any LLM backend.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	// Chat sends a system instruction plus a user message in one turn.
	Chat(ctx context.Context, system, user string, params GenerationParams) (string, error)
}

// NewClient builds an LLM backend by name. The model overrides the backend's
// environment default when non-empty, so the same backend can serve different
// models (answer synthesis vs. tab completion).
func NewClient(backend, model string) (LLMClient, error) {
	switch backend {
	case "openai", "":
		return NewOpenAIClient(model)
	case "ollama":
		return NewOllamaClient(model)
	default:
		return nil, fmt.Errorf("unknown LLM backend: %q", backend)
	}
}
