package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Generator abstracts narrative-generation providers for slide content.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (json.RawMessage, error)
}

// GenerateInput captures a single slide-content generation request.
type GenerateInput struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Provider failure classes. All three are recoverable at the slide boundary.
var (
	ErrTimeout          = errors.New("provider timeout")
	ErrAuth             = errors.New("provider authentication failed")
	ErrMalformedContent = errors.New("malformed provider content")
)

// ErrNotImplemented is returned by the placeholder generator.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderGenerator is a stub implementation until provider wiring is added.
type PlaceholderGenerator struct{}

// Generate returns ErrNotImplemented.
func (PlaceholderGenerator) Generate(ctx context.Context, input GenerateInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
