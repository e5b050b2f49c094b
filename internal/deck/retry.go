package deck

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"strings"
	"time"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/llm"
)

const llmRetryBaseDelay = 300 * time.Millisecond

type retryingGenerator struct {
	base      llm.Generator
	requestID string
	deckID    string
}

// NewRetryingGenerator wraps a generator with a single retry for transient
// provider failures. Non-transient errors pass through unchanged.
func NewRetryingGenerator(base llm.Generator, deckID, requestID string) llm.Generator {
	if base == nil {
		return nil
	}
	return retryingGenerator{
		base:      base,
		requestID: requestID,
		deckID:    deckID,
	}
}

func (r retryingGenerator) Generate(ctx context.Context, input llm.GenerateInput) (json.RawMessage, error) {
	resp, err := r.base.Generate(ctx, input)
	if err == nil || !shouldRetryLLM(err) {
		return resp, err
	}

	log.Printf("llm retry attempt=1 request_id=%s deck_id=%s error=%s", r.requestID, r.deckID, err)
	select {
	case <-time.After(llmRetryBaseDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return r.base.Generate(ctx, input)
}

func shouldRetryLLM(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, llm.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, llm.ErrAuth) || errors.Is(err, llm.ErrMalformedContent) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") || strings.Contains(msg, "overloaded") {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof") {
		return true
	}

	return false
}
