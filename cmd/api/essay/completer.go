// Package essay turns essay requests into LLM prompts and sends them to a chat
// completion provider (Groq or Gemini).
package essay

import (
	"context"
	"fmt"

	"techsphere/config"
)

//go:generate mockgen -source=$GOFILE -destination=mocks/completer.go -package=mocks

// Completer sends one system+user prompt pair and returns the model's text.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

type Response struct {
	Text  string
	Model string
	Usage TokenUsage
}

type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// NewCompleter picks the provider named by cfg.Provider.
func NewCompleter(cfg config.AIConfig) (Completer, error) {
	switch cfg.Provider {
	case config.AIProviderGroq:
		return NewGroqCompleter(cfg, nil), nil
	case config.AIProviderGemini:
		return NewGeminiCompleter(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
