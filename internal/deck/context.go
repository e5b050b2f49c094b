package deck

import (
	"strings"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
)

// profileView is the defaulted read-only view of a startup profile used by
// context building. All optional-field defaulting happens here, in one place.
type profileView struct {
	Name                   string
	Tagline                string
	Industry               string
	FundingStage           string
	RevenueModel           string
	TargetMarket           string
	ProblemStatement       string
	SolutionDescription    string
	UniqueValueProposition string
	Achievements           string
	Competitors            []string
	CompetitiveAdvantages  string
	TeamExperience         string
	KeyTeamMembers         []string
	UseOfFunds             string
	TeamSize               int
	CustomerCount          int
	UserCount              int
	CurrentRevenue         float64
	GrowthRate             float64
	BurnRate               float64
	RunwayMonths           float64
	FundingAsk             float64
	CurrentValuation       float64
	MarketSizeTAM          float64
	MarketSizeSAM          float64
	MarketSizeSOM          float64
	MarketGrowthRate       float64
}

func newProfileView(profile startups.Profile) profileView {
	industry := strings.ToLower(strings.TrimSpace(profile.Industry))
	if industry == "" {
		industry = startups.IndustrySaaS
	}
	stage := strings.ToLower(strings.TrimSpace(profile.FundingStage))
	if stage == "" {
		stage = startups.StageSeed
	}
	competitors := profile.Competitors
	if competitors == nil {
		competitors = []string{}
	}
	members := profile.KeyTeamMembers
	if members == nil {
		members = []string{}
	}
	return profileView{
		Name:                   strings.TrimSpace(profile.Name),
		Tagline:                profile.Tagline,
		Industry:               industry,
		FundingStage:           stage,
		RevenueModel:           profile.RevenueModel,
		TargetMarket:           profile.TargetMarket,
		ProblemStatement:       profile.ProblemStatement,
		SolutionDescription:    profile.SolutionDescription,
		UniqueValueProposition: profile.UniqueValueProposition,
		Achievements:           profile.Achievements,
		Competitors:            competitors,
		CompetitiveAdvantages:  profile.CompetitiveAdvantages,
		TeamExperience:         profile.TeamExperience,
		KeyTeamMembers:         members,
		UseOfFunds:             profile.UseOfFunds,
		TeamSize:               profile.TeamSize,
		CustomerCount:          profile.CustomerCount,
		UserCount:              profile.UserCount,
		CurrentRevenue:         profile.CurrentRevenue,
		GrowthRate:             profile.GrowthRate,
		BurnRate:               profile.BurnRate,
		RunwayMonths:           profile.RunwayMonths,
		FundingAsk:             profile.FundingAsk,
		CurrentValuation:       profile.CurrentValuation,
		MarketSizeTAM:          profile.MarketSizeTAM,
		MarketSizeSAM:          profile.MarketSizeSAM,
		MarketSizeSOM:          profile.MarketSizeSOM,
		MarketGrowthRate:       profile.MarketGrowthRate,
	}
}

// BuildContext maps a startup profile into the parameter set for one slide
// type. Pure and deterministic; no network or I/O.
func BuildContext(profile startups.Profile, slideType SlideType) map[string]any {
	view := newProfileView(profile)
	framing := industryFraming(view.Industry)

	return map[string]any{
		"company_name":             view.Name,
		"tagline":                  view.Tagline,
		"industry":                 view.Industry,
		"funding_stage":            view.FundingStage,
		"revenue_model":            view.RevenueModel,
		"target_market":            view.TargetMarket,
		"problem_statement":        view.ProblemStatement,
		"solution_description":     view.SolutionDescription,
		"unique_value_proposition": view.UniqueValueProposition,
		"team_size":                view.TeamSize,
		"customer_count":           view.CustomerCount,
		"current_revenue":          view.CurrentRevenue,
		"funding_ask":              view.FundingAsk,
		"slide_type":               string(slideType),
		"tone":                     framing.Tone,
		"focus":                    framing.Focus,
		"metrics":                  framing.Metrics,
	}
}
