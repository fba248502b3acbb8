// Package llm provides the completion client used by the synthesis and
// verdict steps. The contract is a plain request/response call: one prompt
// in, one completion out. Backends are selected by configuration.
package llm

import (
	"context"
	"fmt"

	"github.com/spb-forensics/sentinel/pkg/config"
)

// Client is the completion interface the pipeline steps depend on.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewFromConfig builds the configured backend client.
func NewFromConfig(cfg config.LLMConfig) (Client, error) {
	switch cfg.Backend {
	case "ollama":
		return NewOllamaClient(cfg)
	case "openai":
		return NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM backend %q", cfg.Backend)
	}
}
