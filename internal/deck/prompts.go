package deck

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
)

// framing carries the industry-specific narrative parameters applied to every
// prompt for a deck.
type framing struct {
	Tone    string
	Focus   string
	Metrics string
}

var industryFramings = map[string]framing{
	startups.IndustrySaaS: {
		Tone:    "professional and technical",
		Focus:   "scalability, recurring revenue, and customer acquisition",
		Metrics: "MRR, CAC, LTV, churn rate",
	},
	startups.IndustryFintech: {
		Tone:    "trustworthy and innovative",
		Focus:   "compliance, security, and market disruption",
		Metrics: "transaction volume, user growth, regulatory compliance",
	},
	startups.IndustryHealthcare: {
		Tone:    "compassionate and evidence-based",
		Focus:   "patient outcomes, regulatory approval, and clinical validation",
		Metrics: "patient outcomes, FDA approvals, clinical trials",
	},
	startups.IndustryEcommerce: {
		Tone:    "customer-focused and growth-oriented",
		Focus:   "customer experience, logistics, and market expansion",
		Metrics: "GMV, conversion rate, customer lifetime value",
	},
	startups.IndustryAIML: {
		Tone:    "innovative and forward-thinking",
		Focus:   "technology differentiation, data moats, and AI capabilities",
		Metrics: "model accuracy, data quality, computational efficiency",
	},
	startups.IndustryBiotech: {
		Tone:    "scientific and breakthrough-oriented",
		Focus:   "clinical trials, IP protection, and regulatory pathways",
		Metrics: "clinical trial phases, patent portfolio, FDA milestones",
	},
}

func industryFraming(industry string) framing {
	if f, ok := industryFramings[industry]; ok {
		return f
	}
	return industryFramings[startups.IndustrySaaS]
}

// BuildPrompt renders the generation prompt for one slide of a profile.
func BuildPrompt(profile startups.Profile, slideType SlideType) string {
	return buildPrompt(newProfileView(profile), slideType)
}

// buildPrompt renders the generation prompt for one slide type. Deterministic
// in the profile view.
func buildPrompt(view profileView, slideType SlideType) string {
	f := industryFraming(view.Industry)
	var b strings.Builder

	switch slideType {
	case SlideTitle:
		fmt.Fprintf(&b, "Create a compelling title slide for a %s startup pitch deck.\n", view.Industry)
		writeFraming(&b, f)
		fmt.Fprintf(&b, "Company: %s\nTagline: %s\n", view.Name, view.Tagline)
		writeJSONAsk(&b,
			"headline: Compelling main title",
			"subheadline: Supporting subtitle",
			"presenter_info: Presenter details")
	case SlideProblem:
		fmt.Fprintf(&b, "Create a problem slide for a %s startup.\n", view.Industry)
		writeFraming(&b, f)
		fmt.Fprintf(&b, "Problem Statement: %s\nTarget Market: %s\n", view.ProblemStatement, view.TargetMarket)
		writeJSONAsk(&b,
			"problem_statement: Clear problem description",
			"pain_points: List of 3-5 key pain points",
			"market_size_impact: Market impact of the problem",
			"urgency: Why this problem needs solving now")
	case SlideSolution:
		fmt.Fprintf(&b, "Create a solution slide for a %s startup.\n", view.Industry)
		writeFraming(&b, f)
		fmt.Fprintf(&b, "Solution: %s\nValue Proposition: %s\n", view.SolutionDescription, view.UniqueValueProposition)
		writeJSONAsk(&b,
			"solution_overview: Clear solution description",
			"key_features: List of 3-5 key features",
			"unique_advantages: Competitive advantages",
			"value_proposition: Clear value proposition")
	case SlideMarketOpportunity:
		fmt.Fprintf(&b, "Create a market opportunity slide for a %s startup.\n", view.Industry)
		writeFraming(&b, f)
		fmt.Fprintf(&b, "TAM: $%.0f\nSAM: $%.0f\nSOM: $%.0f\nGrowth Rate: %.1f%%\n",
			view.MarketSizeTAM, view.MarketSizeSAM, view.MarketSizeSOM, view.MarketGrowthRate)
		writeJSONAsk(&b,
			"market_overview: Market description",
			"growth_drivers: List of 3-5 growth drivers",
			"market_timing: Why now is the right time")
	case SlideBusinessModel:
		fmt.Fprintf(&b, "Create a business model slide for a %s startup.\n", view.Industry)
		writeFraming(&b, f)
		fmt.Fprintf(&b, "Revenue Model: %s\nCurrent Revenue: $%.0f\n", view.RevenueModel, view.CurrentRevenue)
		writeJSONAsk(&b,
			"revenue_streams: List of revenue streams",
			"pricing_strategy: Pricing approach",
			"customer_segments: Target customer segments",
			"cost_structure: Key cost components")
	case SlideTraction:
		fmt.Fprintf(&b, "Create a traction slide for a %s startup.\n", view.Industry)
		writeFraming(&b, f)
		fmt.Fprintf(&b, "Customers: %d\nUsers: %d\nGrowth Rate: %.1f%%\nAchievements: %s\n",
			view.CustomerCount, view.UserCount, view.GrowthRate, view.Achievements)
		writeJSONAsk(&b,
			"key_metrics: List of key performance metrics",
			"achievements: List of major achievements",
			"growth_trajectory: Growth story",
			"customer_testimonials: Customer feedback highlights")
	case SlideCompetition:
		fmt.Fprintf(&b, "Create a competitive landscape slide for a %s startup.\n", view.Industry)
		writeFraming(&b, f)
		fmt.Fprintf(&b, "Competitors: %s\nCompetitive Advantages: %s\n",
			jsonList(view.Competitors), view.CompetitiveAdvantages)
		writeJSONAsk(&b,
			"competitor_analysis: List of key competitors",
			"competitive_advantages: List of advantages",
			"market_positioning: Market position",
			"differentiation: Key differentiators")
	case SlideTeam:
		fmt.Fprintf(&b, "Create a team slide for a %s startup.\n", view.Industry)
		writeFraming(&b, f)
		fmt.Fprintf(&b, "Team Size: %d\nExperience: %s\nKey Members: %s\n",
			view.TeamSize, view.TeamExperience, jsonList(view.KeyTeamMembers))
		writeJSONAsk(&b,
			"team_overview: Team summary",
			"key_members: List of key team members",
			"expertise_areas: Areas of expertise",
			"advisors: Advisory board members")
	case SlideFinancials:
		fmt.Fprintf(&b, "Create a financial projections slide for a %s startup.\n", view.Industry)
		writeFraming(&b, f)
		fmt.Fprintf(&b, "Current Revenue: $%.0f\nBurn Rate: $%.0f/month\nRunway: %.0f months\n",
			view.CurrentRevenue, view.BurnRate, view.RunwayMonths)
		writeJSONAsk(&b,
			"revenue_projections: 3-5 year revenue projections",
			"unit_economics: Key unit economics",
			"funding_utilization: How funding will be used",
			"path_to_profitability: Path to profitability")
	case SlideFundingAsk:
		fmt.Fprintf(&b, "Create a funding ask slide for a %s startup.\n", view.Industry)
		writeFraming(&b, f)
		fmt.Fprintf(&b, "Funding Ask: $%.0f\nUse of Funds: %s\nValuation: $%.0f\n",
			view.FundingAsk, view.UseOfFunds, view.CurrentValuation)
		writeJSONAsk(&b,
			"funding_amount: Clear funding request",
			"use_of_funds: List of funding allocation",
			"valuation: Company valuation",
			"milestones: Key milestones to be achieved")
	default:
		fmt.Fprintf(&b, "Create a %s slide for a %s startup pitch deck.\n", slideType, view.Industry)
		writeFraming(&b, f)
		fmt.Fprintf(&b, "Company: %s\n", view.Name)
		writeJSONAsk(&b,
			"title: Slide title",
			"content: Slide content object",
			"bullet_points: List of bullet points",
			"layout: Suggested layout")
	}

	return b.String()
}

func writeFraming(b *strings.Builder, f framing) {
	fmt.Fprintf(b, "Tone: %s\nFocus: %s\nRecommended metrics: %s\n\n", f.Tone, f.Focus, f.Metrics)
}

func writeJSONAsk(b *strings.Builder, fields ...string) {
	b.WriteString("\nGenerate a JSON response with:\n")
	for _, field := range fields {
		fmt.Fprintf(b, "- %s\n", field)
	}
}

func jsonList(items []string) string {
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}
