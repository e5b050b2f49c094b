package startups

import "time"

// Industry values recognized by the prompt builder. Unknown values fall back
// to saas framing.
const (
	IndustrySaaS       = "saas"
	IndustryFintech    = "fintech"
	IndustryHealthcare = "healthcare"
	IndustryEcommerce  = "ecommerce"
	IndustryAIML       = "ai_ml"
	IndustryBiotech    = "biotech"
)

// Funding stages used to parameterize growth, cost, and valuation assumptions.
const (
	StageSeed    = "seed"
	StageSeriesA = "series_a"
	StageSeriesB = "series_b"
	StageSeriesC = "series_c"
)

// Profile represents a startup profile owned by a user. The generation core
// only reads it; mutation happens through the startups service.
type Profile struct {
	ID                     string    `json:"id"`
	UserID                 string    `json:"userId"`
	Name                   string    `json:"name"`
	Tagline                string    `json:"tagline,omitempty"`
	Description            string    `json:"description,omitempty"`
	Website                string    `json:"website,omitempty"`
	Industry               string    `json:"industry"`
	FundingStage           string    `json:"fundingStage"`
	RevenueModel           string    `json:"revenueModel"`
	ProblemStatement       string    `json:"problemStatement,omitempty"`
	SolutionDescription    string    `json:"solutionDescription,omitempty"`
	UniqueValueProposition string    `json:"uniqueValueProposition,omitempty"`
	TargetMarket           string    `json:"targetMarket,omitempty"`
	Achievements           string    `json:"achievements,omitempty"`
	Competitors            []string  `json:"competitors,omitempty"`
	CompetitiveAdvantages  string    `json:"competitiveAdvantages,omitempty"`
	TeamExperience         string    `json:"teamExperience,omitempty"`
	KeyTeamMembers         []string  `json:"keyTeamMembers,omitempty"`
	UseOfFunds             string    `json:"useOfFunds,omitempty"`
	TeamSize               int       `json:"teamSize,omitempty"`
	CustomerCount          int       `json:"customerCount,omitempty"`
	UserCount              int       `json:"userCount,omitempty"`
	CurrentRevenue         float64   `json:"currentRevenue,omitempty"`
	GrowthRate             float64   `json:"growthRate,omitempty"`
	BurnRate               float64   `json:"burnRate,omitempty"`
	RunwayMonths           float64   `json:"runwayMonths,omitempty"`
	FundingAsk             float64   `json:"fundingAsk,omitempty"`
	CurrentValuation       float64   `json:"currentValuation,omitempty"`
	MarketSizeTAM          float64   `json:"marketSizeTam,omitempty"`
	MarketSizeSAM          float64   `json:"marketSizeSam,omitempty"`
	MarketSizeSOM          float64   `json:"marketSizeSom,omitempty"`
	MarketGrowthRate       float64   `json:"marketGrowthRate,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}
