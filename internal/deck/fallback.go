package deck

import "fmt"

// FallbackContent returns deterministic placeholder content for a slide type.
// It is a pure function of the slide type: same input, same output, always.
// The orchestrator stamps GeneratedAt on the result after substitution.
func FallbackContent(slideType SlideType) SlideContent {
	title := Humanize(slideType)
	return SlideContent{
		SlideType: slideType,
		Title:     title,
		Content: map[string]any{
			"title":   title,
			"content": fmt.Sprintf("Content for %s slide", slideType),
		},
		BulletPoints: []string{
			"Sample bullet point 1",
			"Sample bullet point 2",
		},
		Layout:    LayoutBulletPoints,
		ModelUsed: ModelFallback,
	}
}
