package templates

import (
	"errors"
	"testing"
	"time"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/deck"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
)

func TestListReturnsAllTemplatesSorted(t *testing.T) {
	catalog := NewCatalog()

	summaries := catalog.List()
	if len(summaries) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(summaries))
	}
	wantIDs := []string{"fintech", "healthcare", "saas"}
	for i, want := range wantIDs {
		if summaries[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, summaries[i].ID)
		}
	}
}

func TestIndustryTemplatesCarryExtraSlides(t *testing.T) {
	catalog := NewCatalog()

	saas, err := catalog.Get("saas")
	if err != nil {
		t.Fatalf("get saas: %v", err)
	}
	if len(saas.Slides) != 10 {
		t.Fatalf("saas: expected 10 slides, got %d", len(saas.Slides))
	}

	fintech, _ := catalog.Get("fintech")
	if len(fintech.Slides) != 11 || fintech.Slides[10] != deck.SlideRegulatoryCompliance {
		t.Fatalf("fintech: expected trailing regulatory_compliance slide, got %v", fintech.Slides)
	}

	healthcare, _ := catalog.Get("healthcare")
	if len(healthcare.Slides) != 11 || healthcare.Slides[10] != deck.SlideClinicalEvidence {
		t.Fatalf("healthcare: expected trailing clinical_evidence slide, got %v", healthcare.Slides)
	}
}

func TestGetUnknownTemplate(t *testing.T) {
	catalog := NewCatalog()
	if _, err := catalog.Get("gaming"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestForIndustryFallsBackToSaaS(t *testing.T) {
	catalog := NewCatalog()

	if got := catalog.ForIndustry(startups.IndustryFintech); got.ID != "fintech" {
		t.Fatalf("fintech industry: expected fintech template, got %s", got.ID)
	}
	if got := catalog.ForIndustry(startups.IndustryEcommerce); got.ID != "saas" {
		t.Fatalf("ecommerce industry: expected saas fallback, got %s", got.ID)
	}
	if got := catalog.ForIndustry(""); got.ID != "saas" {
		t.Fatalf("empty industry: expected saas fallback, got %s", got.ID)
	}
}

func TestApplyStampsTime(t *testing.T) {
	catalog := NewCatalog()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	applied, err := catalog.Apply("healthcare", now)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if applied.TemplateID != "healthcare" || applied.TemplateName == "" {
		t.Fatalf("unexpected applied template: %+v", applied)
	}
	if !applied.AppliedAt.Equal(now) {
		t.Fatalf("expected applied time %v, got %v", now, applied.AppliedAt)
	}
	if applied.Design.PrimaryColor != "#dc2626" {
		t.Fatalf("unexpected design color: %s", applied.Design.PrimaryColor)
	}

	if _, err := catalog.Apply("missing", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
