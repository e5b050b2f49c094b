package deck

import (
	"encoding/json"
	"strings"
)

// parseResponse decodes a generator response. Responses that are not valid
// JSON objects are kept as freeform narrative text rather than rejected.
func parseResponse(raw json.RawMessage) map[string]any {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return parsed
		}
	}
	return map[string]any{"content": trimmed}
}

// assemble merges a parsed generator response with profile facts for one
// slide type. Concrete business numbers always come from the profile; the
// generated text supplies narrative framing only.
func assemble(view profileView, slideType SlideType, resp map[string]any) SlideContent {
	switch slideType {
	case SlideTitle:
		return SlideContent{
			SlideType: slideType,
			Title:     view.Name,
			Content: map[string]any{
				"headline":       str(resp, "headline", view.Name),
				"subheadline":    str(resp, "subheadline", view.Tagline),
				"presenter_info": str(resp, "presenter_info", ""),
			},
			Layout: LayoutTitleCenter,
		}
	case SlideProblem:
		painPoints := list(resp, "pain_points")
		return SlideContent{
			SlideType: slideType,
			Title:     "The Problem",
			Content: map[string]any{
				"problem_statement":  str(resp, "problem_statement", view.ProblemStatement),
				"pain_points":        painPoints,
				"market_size_impact": str(resp, "market_size_impact", ""),
				"urgency":            str(resp, "urgency", ""),
			},
			BulletPoints: painPoints,
			Layout:       LayoutBulletPoints,
		}
	case SlideSolution:
		features := list(resp, "key_features")
		return SlideContent{
			SlideType: slideType,
			Title:     "Our Solution",
			Content: map[string]any{
				"solution_overview": str(resp, "solution_overview", view.SolutionDescription),
				"key_features":      features,
				"unique_advantages": list(resp, "unique_advantages"),
				"value_proposition": str(resp, "value_proposition", view.UniqueValueProposition),
			},
			BulletPoints: features,
			Layout:       LayoutTwoColumn,
		}
	case SlideMarketOpportunity:
		return SlideContent{
			SlideType: slideType,
			Title:     "Market Opportunity",
			Content: map[string]any{
				"market_overview": str(resp, "market_overview", ""),
				"market_size": map[string]any{
					"tam": view.MarketSizeTAM,
					"sam": view.MarketSizeSAM,
					"som": view.MarketSizeSOM,
				},
				"growth_drivers": list(resp, "growth_drivers"),
				"market_timing":  str(resp, "market_timing", ""),
			},
			KeyMetrics: []KeyMetric{
				{Name: "TAM", Value: view.MarketSizeTAM, Unit: "USD"},
				{Name: "SAM", Value: view.MarketSizeSAM, Unit: "USD"},
				{Name: "SOM", Value: view.MarketSizeSOM, Unit: "USD"},
				{Name: "Growth Rate", Value: view.MarketGrowthRate, Unit: "%"},
			},
			Layout: LayoutChart,
		}
	case SlideBusinessModel:
		streams := list(resp, "revenue_streams")
		return SlideContent{
			SlideType: slideType,
			Title:     "Business Model",
			Content: map[string]any{
				"revenue_streams":   streams,
				"pricing_strategy":  str(resp, "pricing_strategy", ""),
				"customer_segments": list(resp, "customer_segments"),
				"cost_structure":    str(resp, "cost_structure", ""),
			},
			BulletPoints: streams,
			Layout:       LayoutGrid,
		}
	case SlideTraction:
		return SlideContent{
			SlideType: slideType,
			Title:     "Traction & Milestones",
			Content: map[string]any{
				"key_metrics":           list(resp, "key_metrics"),
				"achievements":          list(resp, "achievements"),
				"growth_trajectory":     str(resp, "growth_trajectory", ""),
				"customer_testimonials": list(resp, "customer_testimonials"),
			},
			KeyMetrics: []KeyMetric{
				{Name: "Customers", Value: float64(view.CustomerCount), Unit: ""},
				{Name: "Users", Value: float64(view.UserCount), Unit: ""},
				{Name: "Growth Rate", Value: view.GrowthRate, Unit: "%"},
				{Name: "Revenue", Value: view.CurrentRevenue, Unit: "USD"},
			},
			Layout: LayoutGrid,
		}
	case SlideCompetition:
		advantages := list(resp, "competitive_advantages")
		return SlideContent{
			SlideType: slideType,
			Title:     "Competitive Landscape",
			Content: map[string]any{
				"competitor_analysis":    list(resp, "competitor_analysis"),
				"competitive_advantages": advantages,
				"market_positioning":     str(resp, "market_positioning", ""),
				"differentiation":        str(resp, "differentiation", ""),
			},
			BulletPoints: advantages,
			Layout:       LayoutComparison,
		}
	case SlideTeam:
		expertise := list(resp, "expertise_areas")
		return SlideContent{
			SlideType: slideType,
			Title:     "Our Team",
			Content: map[string]any{
				"team_overview":   str(resp, "team_overview", ""),
				"key_members":     list(resp, "key_members"),
				"expertise_areas": expertise,
				"advisors":        list(resp, "advisors"),
			},
			BulletPoints: expertise,
			Layout:       LayoutGrid,
		}
	case SlideFinancials:
		return SlideContent{
			SlideType: slideType,
			Title:     "Financial Projections",
			Content: map[string]any{
				"revenue_projections":   obj(resp, "revenue_projections"),
				"unit_economics":        obj(resp, "unit_economics"),
				"funding_utilization":   str(resp, "funding_utilization", ""),
				"path_to_profitability": str(resp, "path_to_profitability", ""),
			},
			KeyMetrics: []KeyMetric{
				{Name: "Current Revenue", Value: view.CurrentRevenue, Unit: "USD"},
				{Name: "Burn Rate", Value: view.BurnRate, Unit: "USD/month"},
				{Name: "Runway", Value: view.RunwayMonths, Unit: "months"},
			},
			Layout: LayoutChart,
		}
	case SlideFundingAsk:
		useOfFunds := list(resp, "use_of_funds")
		return SlideContent{
			SlideType: slideType,
			Title:     "Funding Ask",
			Content: map[string]any{
				"funding_amount": view.FundingAsk,
				"use_of_funds":   useOfFunds,
				"valuation":      num(resp, "valuation", view.CurrentValuation),
				"milestones":     list(resp, "milestones"),
			},
			BulletPoints: useOfFunds,
			Layout:       LayoutBulletPoints,
		}
	default:
		return SlideContent{
			SlideType:    slideType,
			Title:        str(resp, "title", Humanize(slideType)),
			Content:      obj(resp, "content"),
			BulletPoints: list(resp, "bullet_points"),
			Layout:       str(resp, "layout", LayoutBulletPoints),
		}
	}
}

func str(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func num(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return def
}

func list(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func obj(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}
