package ai

import (
	"context"
	"fmt"
)

// Request is a single text-completion call to the oracle. Calls carry
// no conversation state; every request stands alone.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Provider defines the single operation the pipeline needs from a
// hosted completion service. Responses are untrusted free text;
// callers do their own defensive parsing and fallbacks.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// NewProvider creates a new oracle provider based on the provider name
func NewProvider(name, model string) (Provider, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model)
	case "openai", "gpt":
		return NewOpenAIProvider(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai)", name)
	}
}
