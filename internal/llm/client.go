package llm

import (
	"context"
)

// Request carries everything the classifier forwards to a model. The
// fields are passed through to the provider unchanged.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
	// JSON asks providers that support it for a JSON-only response.
	JSON bool
}

type LLMClient interface {
	Generate(ctx context.Context, req Request) (string, error)
}
