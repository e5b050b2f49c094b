package main

// Generate a full deck offline with deterministic content and projections:
//   go run ./cmd/deckdemo -out ./out/sample_deck.json

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/deck"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/finance"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/llm"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/market"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/templates"
)

func main() {
	outPath := flag.String("out", "./out/sample_deck.json", "output path for the generated deck JSON")
	industry := flag.String("industry", startups.IndustrySaaS, "industry for the sample profile")
	flag.Parse()

	profile := sampleProfile(*industry)

	orch, err := deck.NewOrchestrator(echoGenerator{}, 3)
	if err != nil {
		exitErr(fmt.Sprintf("orchestrator: %v", err))
	}

	catalog := templates.NewCatalog()
	tmpl := catalog.ForIndustry(profile.Industry)
	applied, err := catalog.Apply(tmpl.ID, time.Now().UTC())
	if err != nil {
		exitErr(fmt.Sprintf("template: %v", err))
	}

	slides, err := orch.GenerateDeckContent(context.Background(), profile, applied.Slides)
	if err != nil {
		exitErr(fmt.Sprintf("generate slides: %v", err))
	}

	engine := finance.NewEngine(func() finance.Source { return finance.NewRandSource(42) })
	model := engine.Build(finance.InputsFromProfile(profile))

	calc := market.NewCalculator(0, 0)
	tam := profile.MarketSizeTAM
	if tam <= 0 {
		tam = market.DefaultTAM
	}
	sizing, err := calc.TamSamSom(tam)
	if err != nil {
		exitErr(fmt.Sprintf("market sizing: %v", err))
	}

	payload := map[string]any{
		"startup":        profile.Name,
		"template":       applied,
		"slides":         slides,
		"slideCount":     len(slides),
		"financialModel": model,
		"marketSizing":   sizing,
	}

	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("encode deck: %v", err))
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		exitErr(fmt.Sprintf("create output dir: %v", err))
	}
	if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
		exitErr(fmt.Sprintf("write deck: %v", err))
	}

	fmt.Printf("OK: wrote %s (%d slides)\n", *outPath, len(slides))
}

// echoGenerator returns an empty object so every slide assembles from the
// profile defaults without a provider call.
type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, input llm.GenerateInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return json.RawMessage(`{}`), nil
}

func sampleProfile(industry string) startups.Profile {
	return startups.Profile{
		ID:                     "demo-startup",
		UserID:                 "demo-user",
		Name:                   "CloudMetrics",
		Tagline:                "Observability for growing teams",
		Description:            "CloudMetrics turns raw infrastructure telemetry into plain-language health reports.",
		Industry:               industry,
		FundingStage:           startups.StageSeed,
		RevenueModel:           "subscription",
		ProblemStatement:       "Small engineering teams drown in dashboards they do not have time to read.",
		SolutionDescription:    "A monitoring layer that summarizes incidents and trends automatically.",
		UniqueValueProposition: "Insight without a dedicated observability team.",
		TargetMarket:           "Series A to C software companies",
		Competitors:            []string{"Datadog", "New Relic"},
		CompetitiveAdvantages:  "Setup in minutes, priced for small teams.",
		TeamExperience:         "Founders previously built internal tooling at two unicorns.",
		KeyTeamMembers:         []string{"Alex Rivera, CEO", "Sam Chen, CTO"},
		UseOfFunds:             "Engineering and go-to-market",
		TeamSize:               8,
		CustomerCount:          40,
		UserCount:              400,
		CurrentRevenue:         25000,
		GrowthRate:             12,
		BurnRate:               60000,
		FundingAsk:             1500000,
		MarketSizeTAM:          2_000_000_000,
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
