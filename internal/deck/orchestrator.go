package deck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/llm"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/metrics"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/telemetry"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
)

const (
	// DefaultConcurrency bounds simultaneous generation jobs. Each job blocks
	// on an external provider call.
	DefaultConcurrency = 5

	narrativeTemperature = 0.7
)

// ErrGeneratorRequired indicates the orchestrator was built without a generator.
var ErrGeneratorRequired = errors.New("narrative generator is required")

// Orchestrator fans slide-content generation out over a bounded worker pool
// and merges results positionally. Jobs share no mutable state; the only
// shared input is the read-only profile.
type Orchestrator struct {
	gen         llm.Generator
	concurrency int
	now         func() time.Time
}

// NewOrchestrator constructs an Orchestrator around a narrative generator.
// A concurrency of 0 or less selects DefaultConcurrency.
func NewOrchestrator(gen llm.Generator, concurrency int) (*Orchestrator, error) {
	if gen == nil {
		return nil, ErrGeneratorRequired
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Orchestrator{
		gen:         gen,
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// GenerateDeckContent generates content for every requested slide type and
// returns exactly one SlideContent per requested type, in request order,
// regardless of completion order or individual failures. A nil slide-type
// list selects the default 10-slide sequence. The call blocks until every
// job has reached a terminal state.
func (o *Orchestrator) GenerateDeckContent(ctx context.Context, profile startups.Profile, slideTypes []SlideType) ([]SlideContent, error) {
	if profile.Name == "" {
		return nil, fmt.Errorf("%w: profile name is required", startups.ErrInvalidInput)
	}
	if slideTypes == nil {
		slideTypes = DefaultSlideTypes()
	}

	view := newProfileView(profile)
	results := make([]SlideContent, len(slideTypes))

	sem := make(chan struct{}, o.concurrency)
	var wg sync.WaitGroup
	for i, slideType := range slideTypes {
		wg.Add(1)
		go func(i int, slideType SlideType) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = o.generateSlide(ctx, profile, view, slideType)
		}(i, slideType)
	}
	wg.Wait()

	return results, nil
}

// generateSlide runs one job to a terminal state. Failures of any kind are
// contained here and substituted with fallback content; they never abort
// sibling jobs or the batch.
func (o *Orchestrator) generateSlide(ctx context.Context, profile startups.Profile, view profileView, slideType SlideType) (content SlideContent) {
	job := SlideJob{
		SlideType: slideType,
		Context:   BuildContext(profile, slideType),
		Status:    JobPending,
	}
	defer func() {
		if r := recover(); r != nil {
			job.Status = JobFailedWithFallback
			content = o.fallback(slideType, fmt.Errorf("panic: %v", r))
		}
	}()

	raw, err := o.gen.Generate(ctx, llm.GenerateInput{
		Prompt:      buildPrompt(view, slideType),
		MaxTokens:   MaxTokensFor(slideType),
		Temperature: narrativeTemperature,
	})
	if err != nil {
		job.Status = JobFailedWithFallback
		return o.fallback(slideType, err)
	}

	job.Status = JobSucceeded
	content = assemble(view, slideType, parseResponse(raw))
	content.GeneratedAt = o.now()
	content.ModelUsed = ModelContent
	return content
}

func (o *Orchestrator) fallback(slideType SlideType, cause error) SlideContent {
	telemetry.Error("slide.generation_failed", map[string]any{
		"slide_type": string(slideType),
		"error":      cause.Error(),
	})
	metrics.IncSlideFallback()
	content := FallbackContent(slideType)
	content.GeneratedAt = o.now()
	return content
}
