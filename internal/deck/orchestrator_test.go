package deck

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/llm"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
)

type scriptedGenerator struct {
	mu    sync.Mutex
	calls int
	// failFor marks slide types whose generation should fail. The prompt for
	// each slide type mentions its content keys, so we match on a marker.
	fail func(prompt string) bool
	resp string
}

func (g *scriptedGenerator) Generate(ctx context.Context, input llm.GenerateInput) (json.RawMessage, error) {
	_ = ctx
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.fail != nil && g.fail(input.Prompt) {
		return nil, errors.New("provider unavailable")
	}
	resp := g.resp
	if resp == "" {
		resp = "{}"
	}
	return json.RawMessage(resp), nil
}

func testProfile() startups.Profile {
	return startups.Profile{
		Name:           "CloudMetrics",
		Tagline:        "Observability for growing teams",
		Industry:       startups.IndustrySaaS,
		FundingStage:   startups.StageSeed,
		RevenueModel:   "subscription",
		TeamSize:       8,
		CustomerCount:  40,
		CurrentRevenue: 25000,
		FundingAsk:     1500000,
	}
}

func TestNewOrchestratorRequiresGenerator(t *testing.T) {
	if _, err := NewOrchestrator(nil, 3); !errors.Is(err, ErrGeneratorRequired) {
		t.Fatalf("expected ErrGeneratorRequired, got %v", err)
	}
}

func TestGenerateDeckContentPreservesOrderAndLength(t *testing.T) {
	orch, err := NewOrchestrator(&scriptedGenerator{}, 3)
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}

	requested := []SlideType{SlideTeam, SlideTitle, SlideProblem, SlideFinancials}
	slides, err := orch.GenerateDeckContent(context.Background(), testProfile(), requested)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(slides) != len(requested) {
		t.Fatalf("expected %d slides, got %d", len(requested), len(slides))
	}
	for i, want := range requested {
		if slides[i].SlideType != want {
			t.Fatalf("slide %d: expected %s, got %s", i, want, slides[i].SlideType)
		}
		if slides[i].GeneratedAt.IsZero() {
			t.Fatalf("slide %d: missing generatedAt", i)
		}
	}
}

func TestGenerateDeckContentNilSlidesSelectsDefaults(t *testing.T) {
	orch, _ := NewOrchestrator(&scriptedGenerator{}, 2)
	slides, err := orch.GenerateDeckContent(context.Background(), testProfile(), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	defaults := DefaultSlideTypes()
	if len(slides) != len(defaults) {
		t.Fatalf("expected %d slides, got %d", len(defaults), len(slides))
	}
	for i, want := range defaults {
		if slides[i].SlideType != want {
			t.Fatalf("slide %d: expected %s, got %s", i, want, slides[i].SlideType)
		}
	}
}

func TestGenerateDeckContentRequiresProfileName(t *testing.T) {
	orch, _ := NewOrchestrator(&scriptedGenerator{}, 2)
	profile := testProfile()
	profile.Name = ""
	if _, err := orch.GenerateDeckContent(context.Background(), profile, nil); !errors.Is(err, startups.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestFailedSlideFallsBackInPosition(t *testing.T) {
	gen := &scriptedGenerator{
		fail: func(prompt string) bool {
			// Only the problem slide prompt asks for pain points.
			return strings.Contains(prompt, "pain_points")
		},
	}
	orch, _ := NewOrchestrator(gen, 4)

	requested := []SlideType{SlideTitle, SlideProblem, SlideSolution}
	slides, err := orch.GenerateDeckContent(context.Background(), testProfile(), requested)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if slides[1].SlideType != SlideProblem {
		t.Fatalf("expected problem slide in position 1, got %s", slides[1].SlideType)
	}
	if slides[1].ModelUsed != ModelFallback {
		t.Fatalf("expected fallback content for failed slide, got %s", slides[1].ModelUsed)
	}
	if slides[0].ModelUsed != ModelContent || slides[2].ModelUsed != ModelContent {
		t.Fatalf("sibling slides should not be affected by one failure")
	}
}

func TestAllSlidesFailStillReturnsFullDeck(t *testing.T) {
	gen := &scriptedGenerator{fail: func(string) bool { return true }}
	orch, _ := NewOrchestrator(gen, 3)

	slides, err := orch.GenerateDeckContent(context.Background(), testProfile(), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i, slide := range slides {
		if slide.ModelUsed != ModelFallback {
			t.Fatalf("slide %d: expected fallback, got %s", i, slide.ModelUsed)
		}
		if slide.Title == "" || len(slide.BulletPoints) == 0 {
			t.Fatalf("slide %d: fallback content incomplete", i)
		}
	}
}

func TestFallbackContentIsDeterministic(t *testing.T) {
	first := FallbackContent(SlideMarketOpportunity)
	second := FallbackContent(SlideMarketOpportunity)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("fallback content differs between calls:\n%s\n%s", a, b)
	}
	if first.Title != "Market Opportunity" {
		t.Fatalf("unexpected fallback title: %s", first.Title)
	}
	if first.ModelUsed != ModelFallback {
		t.Fatalf("unexpected model marker: %s", first.ModelUsed)
	}
}

func TestGenerateSlideSurvivesPanics(t *testing.T) {
	orch, _ := NewOrchestrator(panicGenerator{}, 1)
	slides, err := orch.GenerateDeckContent(context.Background(), testProfile(), []SlideType{SlideTitle})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if slides[0].ModelUsed != ModelFallback {
		t.Fatalf("expected fallback after panic, got %s", slides[0].ModelUsed)
	}
}

type panicGenerator struct{}

func (panicGenerator) Generate(ctx context.Context, input llm.GenerateInput) (json.RawMessage, error) {
	panic("provider exploded")
}

