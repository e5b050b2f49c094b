package deck

import (
	"strings"
	"time"
)

// SlideType identifies one slide in a pitch deck.
type SlideType string

// Slide types recognized by the orchestrator. Unknown types are generated
// through the generic template.
const (
	SlideTitle             SlideType = "title"
	SlideProblem           SlideType = "problem"
	SlideSolution          SlideType = "solution"
	SlideMarketOpportunity SlideType = "market_opportunity"
	SlideBusinessModel     SlideType = "business_model"
	SlideTraction          SlideType = "traction"
	SlideCompetition       SlideType = "competition"
	SlideTeam              SlideType = "team"
	SlideFinancials        SlideType = "financials"
	SlideFundingAsk        SlideType = "funding_ask"

	// Industry-specific extras used by the fintech and healthcare templates.
	SlideRegulatoryCompliance SlideType = "regulatory_compliance"
	SlideClinicalEvidence     SlideType = "clinical_evidence"
)

// DefaultSlideTypes returns the canonical 10-slide deck order.
func DefaultSlideTypes() []SlideType {
	return []SlideType{
		SlideTitle,
		SlideProblem,
		SlideSolution,
		SlideMarketOpportunity,
		SlideBusinessModel,
		SlideTraction,
		SlideCompetition,
		SlideTeam,
		SlideFinancials,
		SlideFundingAsk,
	}
}

// Layout hints consumed by the rendering layer.
const (
	LayoutTitleCenter  = "title_center"
	LayoutBulletPoints = "bullet_points"
	LayoutTwoColumn    = "two_column"
	LayoutChart        = "chart"
	LayoutGrid         = "grid"
	LayoutComparison   = "comparison"
)

// Provenance markers for generated content.
const (
	ModelContent  = "content"
	ModelFallback = "fallback"
)

// KeyMetric is a named metric displayed on a slide.
type KeyMetric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// SlideContent is the generated content for one slide.
type SlideContent struct {
	SlideType    SlideType      `json:"slideType"`
	Title        string         `json:"title"`
	Content      map[string]any `json:"content"`
	BulletPoints []string       `json:"bulletPoints,omitempty"`
	KeyMetrics   []KeyMetric    `json:"keyMetrics,omitempty"`
	Layout       string         `json:"layout"`
	GeneratedAt  time.Time      `json:"generatedAt"`
	ModelUsed    string         `json:"modelUsed"`
}

// Job statuses. A job always reaches a terminal state; failures terminate as
// fallback substitution, never as a missing slide.
const (
	JobPending            = "pending"
	JobSucceeded          = "succeeded"
	JobFailedWithFallback = "failed_with_fallback"
)

// SlideJob tracks one generation job inside a batch. Jobs live only for the
// duration of the orchestration call.
type SlideJob struct {
	SlideType SlideType
	Context   map[string]any
	Status    string
}

// Output-size budgets per slide type, in tokens. Cost and latency control, not
// a correctness constraint.
const defaultMaxTokens = 400

var maxTokensByType = map[SlideType]int{
	SlideTitle:             200,
	SlideMarketOpportunity: 500,
	SlideFinancials:        500,
}

// MaxTokensFor returns the output-token budget for a slide type.
func MaxTokensFor(slideType SlideType) int {
	if budget, ok := maxTokensByType[slideType]; ok {
		return budget
	}
	return defaultMaxTokens
}

// Humanize converts a slide type into a display title, e.g.
// "market_opportunity" -> "Market Opportunity".
func Humanize(slideType SlideType) string {
	parts := strings.Split(string(slideType), "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
