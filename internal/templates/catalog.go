package templates

import (
	"errors"
	"sort"
	"time"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/deck"
)

// ErrNotFound is returned when a template ID has no catalog entry.
var ErrNotFound = errors.New("template not found")

// Design describes the visual treatment a template applies.
type Design struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	FontFamily     string `json:"fontFamily"`
	Layout         string `json:"layout"`
}

// Template is a pitch deck template with an ordered slide plan.
type Template struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Slides []deck.SlideType `json:"slides"`
	Design Design           `json:"design"`
}

// Summary is the list representation of a template.
type Summary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SlideCount int    `json:"slideCount"`
	Design     Design `json:"design"`
}

// Applied is a template bound to a startup profile.
type Applied struct {
	TemplateID   string           `json:"templateId"`
	TemplateName string           `json:"templateName"`
	Slides       []deck.SlideType `json:"slides"`
	Design       Design           `json:"design"`
	AppliedAt    time.Time        `json:"appliedAt"`
}

// Catalog holds the available templates.
type Catalog struct {
	templates map[string]Template
}

// NewCatalog constructs the built-in template catalog.
func NewCatalog() *Catalog {
	return &Catalog{templates: builtinTemplates()}
}

func builtinTemplates() map[string]Template {
	base := deck.DefaultSlideTypes()
	return map[string]Template{
		"saas": {
			ID:     "saas",
			Name:   "SaaS Startup Template",
			Slides: base,
			Design: Design{
				PrimaryColor:   "#2563eb",
				SecondaryColor: "#64748b",
				FontFamily:     "Inter",
				Layout:         "modern",
			},
		},
		"fintech": {
			ID:     "fintech",
			Name:   "Fintech Startup Template",
			Slides: append(append([]deck.SlideType(nil), base...), deck.SlideRegulatoryCompliance),
			Design: Design{
				PrimaryColor:   "#059669",
				SecondaryColor: "#374151",
				FontFamily:     "Inter",
				Layout:         "professional",
			},
		},
		"healthcare": {
			ID:     "healthcare",
			Name:   "Healthcare Startup Template",
			Slides: append(append([]deck.SlideType(nil), base...), deck.SlideClinicalEvidence),
			Design: Design{
				PrimaryColor:   "#dc2626",
				SecondaryColor: "#6b7280",
				FontFamily:     "Inter",
				Layout:         "medical",
			},
		},
	}
}

// Get returns a template by ID.
func (c *Catalog) Get(templateID string) (Template, error) {
	tpl, ok := c.templates[templateID]
	if !ok {
		return Template{}, ErrNotFound
	}
	return tpl, nil
}

// List returns template summaries sorted by ID.
func (c *Catalog) List() []Summary {
	out := make([]Summary, 0, len(c.templates))
	for _, tpl := range c.templates {
		out = append(out, Summary{
			ID:         tpl.ID,
			Name:       tpl.Name,
			SlideCount: len(tpl.Slides),
			Design:     tpl.Design,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ForIndustry returns the template matching an industry, falling back to saas.
func (c *Catalog) ForIndustry(industry string) Template {
	if tpl, ok := c.templates[industry]; ok {
		return tpl
	}
	return c.templates["saas"]
}

// Apply binds a template to a startup, stamping the application time.
func (c *Catalog) Apply(templateID string, now time.Time) (Applied, error) {
	tpl, err := c.Get(templateID)
	if err != nil {
		return Applied{}, err
	}
	return Applied{
		TemplateID:   tpl.ID,
		TemplateName: tpl.Name,
		Slides:       tpl.Slides,
		Design:       tpl.Design,
		AppliedAt:    now,
	}, nil
}
