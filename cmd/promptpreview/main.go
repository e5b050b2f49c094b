package main

// Preview the generation prompts for a profile without calling a provider:
//   go run ./cmd/promptpreview -profile ./profile.json -slide problem

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/deck"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
)

func main() {
	profilePath := flag.String("profile", "", "Path to a startup profile JSON file (optional)")
	slide := flag.String("slide", "all", "Slide type to preview, or \"all\"")
	name := flag.String("name", "CloudMetrics", "Startup name when no profile file is given")
	industry := flag.String("industry", startups.IndustrySaaS, "Industry when no profile file is given")
	stage := flag.String("stage", startups.StageSeed, "Funding stage when no profile file is given")
	flag.Parse()

	profile, err := loadProfile(*profilePath, *name, *industry, *stage)
	if err != nil {
		exitErr(err.Error())
	}

	slideTypes, err := resolveSlides(*slide)
	if err != nil {
		exitErr(err.Error())
	}

	for i, st := range slideTypes {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("=== %s (max_tokens=%d) ===\n", st, deck.MaxTokensFor(st))
		fmt.Println(deck.BuildPrompt(profile, st))
	}
}

func loadProfile(path, name, industry, stage string) (startups.Profile, error) {
	if strings.TrimSpace(path) == "" {
		return startups.Profile{
			Name:           name,
			Tagline:        "Observability for growing teams",
			Industry:       industry,
			FundingStage:   stage,
			RevenueModel:   "subscription",
			TeamSize:       8,
			CustomerCount:  40,
			CurrentRevenue: 25000,
			FundingAsk:     1500000,
		}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return startups.Profile{}, fmt.Errorf("read profile: %v", err)
	}
	var profile startups.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return startups.Profile{}, fmt.Errorf("parse profile: %v", err)
	}
	return profile, nil
}

func resolveSlides(slide string) ([]deck.SlideType, error) {
	slide = strings.ToLower(strings.TrimSpace(slide))
	if slide == "" || slide == "all" {
		return deck.DefaultSlideTypes(), nil
	}
	for _, st := range deck.DefaultSlideTypes() {
		if string(st) == slide {
			return []deck.SlideType{st}, nil
		}
	}
	switch deck.SlideType(slide) {
	case deck.SlideRegulatoryCompliance, deck.SlideClinicalEvidence:
		return []deck.SlideType{deck.SlideType(slide)}, nil
	}
	return nil, fmt.Errorf("unknown slide type: %s", slide)
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
