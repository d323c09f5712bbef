package turn

import (
	"context"

	"github.com/ccalde29/CHAIT-world-sub001/types"
)

// Generator is the LLM boundary: it turns a chosen character plus mood
// hint into response text. Provider adapters (HTTP clients, retries,
// timeouts) live behind this interface, outside the engine.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateRequest carries everything one completion call needs.
type GenerateRequest struct {
	Character types.Character

	// MoodHint is the behavioral steering fragment from the mood engine;
	// empty for characters resting at neutral.
	MoodHint string

	// Message is the user message being responded to.
	Message string

	// PrimaryResponse is what the primary speaker already said, so
	// secondary voices can react to it. Empty for the primary call.
	PrimaryResponse string

	// MaxTokens is the character's response budget; 0 leaves the
	// provider default in place.
	MaxTokens int
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return f(ctx, req)
}
