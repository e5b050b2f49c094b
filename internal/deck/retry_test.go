package deck

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/llm"
)

type countingGenerator struct {
	calls int
	errs  []error
}

func (g *countingGenerator) Generate(ctx context.Context, input llm.GenerateInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	g.calls++
	if g.calls <= len(g.errs) && g.errs[g.calls-1] != nil {
		return nil, g.errs[g.calls-1]
	}
	return json.RawMessage(`{}`), nil
}

func TestRetryingGeneratorRetriesTimeoutOnce(t *testing.T) {
	base := &countingGenerator{errs: []error{llm.ErrTimeout}}
	gen := NewRetryingGenerator(base, "deck-1", "req-1")

	if _, err := gen.Generate(context.Background(), llm.GenerateInput{Prompt: "p"}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if base.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", base.calls)
	}
}

func TestRetryingGeneratorDoesNotRetrySchemaErrors(t *testing.T) {
	base := &countingGenerator{errs: []error{llm.ErrMalformedContent}}
	gen := NewRetryingGenerator(base, "deck-1", "req-1")

	if _, err := gen.Generate(context.Background(), llm.GenerateInput{Prompt: "p"}); !errors.Is(err, llm.ErrMalformedContent) {
		t.Fatalf("expected malformed content error, got %v", err)
	}
	if base.calls != 1 {
		t.Fatalf("expected 1 call, got %d", base.calls)
	}
}

func TestRetryingGeneratorGivesUpAfterSecondFailure(t *testing.T) {
	base := &countingGenerator{errs: []error{llm.ErrTimeout, llm.ErrTimeout}}
	gen := NewRetryingGenerator(base, "deck-1", "req-1")

	if _, err := gen.Generate(context.Background(), llm.GenerateInput{Prompt: "p"}); !errors.Is(err, llm.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if base.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", base.calls)
	}
}

func TestShouldRetryLLM(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", llm.ErrTimeout, true},
		{"deadline", context.DeadlineExceeded, true},
		{"auth", llm.ErrAuth, false},
		{"malformed", llm.ErrMalformedContent, false},
		{"server error", errors.New("http status 503"), true},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"bad request", errors.New("http status 400"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		if got := shouldRetryLLM(tc.err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
