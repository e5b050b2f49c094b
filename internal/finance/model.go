package finance

import "time"

// Provenance markers for financial models.
const (
	SourceSimulation = "simulation"
	SourceFallback   = "fallback_data"
)

// Model is a complete financial model over the 36-month horizon.
type Model struct {
	StartupName      string             `json:"startupName"`
	CreatedAt        time.Time          `json:"createdAt"`
	ProjectionPeriod string             `json:"projectionPeriod"`
	Revenue          RevenueProjection  `json:"revenueProjections"`
	Costs            CostProjection     `json:"costProjections"`
	CashFlow         CashFlowProjection `json:"cashFlowProjections"`
	UnitEconomics    UnitEconomics      `json:"unitEconomics"`
	Valuation        Valuation          `json:"valuationModel"`
	KeyMetrics       KeyMetrics         `json:"keyMetrics"`
	Scenarios        *Scenarios         `json:"scenarios,omitempty"`
	Source           string             `json:"source"`
}

// MonthlyRevenue is one simulated month of revenue.
type MonthlyRevenue struct {
	Month             int     `json:"month"`
	Revenue           float64 `json:"revenue"`
	GrowthRate        float64 `json:"growthRate"`
	CumulativeRevenue float64 `json:"cumulativeRevenue"`
}

// RevenueProjection is the monthly revenue series with annual rollups.
type RevenueProjection struct {
	Monthly              []MonthlyRevenue `json:"monthlyRevenue"`
	Annual               []float64        `json:"annualRevenue"`
	Total36Months        float64          `json:"totalRevenue36Months"`
	AverageMonthlyGrowth float64          `json:"averageMonthlyGrowth"`
}

// MonthlyCost is one simulated month of costs.
type MonthlyCost struct {
	Month          int     `json:"month"`
	TeamSize       float64 `json:"teamSize"`
	PersonnelCosts float64 `json:"personnelCosts"`
	OverheadCosts  float64 `json:"overheadCosts"`
	MarketingCosts float64 `json:"marketingCosts"`
	OtherCosts     float64 `json:"otherCosts"`
	TotalCosts     float64 `json:"totalCosts"`
}

// CostProjection is the monthly cost series with annual rollups.
type CostProjection struct {
	Monthly            []MonthlyCost `json:"monthlyCosts"`
	Annual             []float64     `json:"annualCosts"`
	Total36Months      float64       `json:"totalCosts36Months"`
	AverageMonthlyBurn float64       `json:"averageMonthlyBurn"`
}

// MonthlyCashFlow is one simulated month of cash flow. RunwayUnbounded is the
// explicit sentinel for zero-cost months; RunwayMonths is meaningless when it
// is set.
type MonthlyCashFlow struct {
	Month           int     `json:"month"`
	Revenue         float64 `json:"revenue"`
	Costs           float64 `json:"costs"`
	NetCashFlow     float64 `json:"netCashFlow"`
	CumulativeCash  float64 `json:"cumulativeCash"`
	RunwayMonths    float64 `json:"runwayMonths"`
	RunwayUnbounded bool    `json:"runwayUnbounded,omitempty"`
}

// CashFlowProjection is the monthly cash-flow series.
type CashFlowProjection struct {
	Monthly                []MonthlyCashFlow `json:"monthlyCashFlow"`
	StartingCash           float64           `json:"startingCash"`
	EndingCash             float64           `json:"endingCash"`
	TotalNetCashFlow       float64           `json:"totalNetCashFlow"`
	AverageMonthlyCashFlow float64           `json:"averageMonthlyCashFlow"`
}

// UnitEconomics summarizes per-customer economics. PaybackUnbounded is the
// explicit sentinel for zero ARPU.
type UnitEconomics struct {
	ARPU                float64 `json:"averageRevenuePerUser"`
	CAC                 float64 `json:"customerAcquisitionCost"`
	LTV                 float64 `json:"customerLifetimeValue"`
	ChurnRate           float64 `json:"churnRate"`
	LTVCACRatio         float64 `json:"ltvCacRatio"`
	PaybackPeriodMonths float64 `json:"paybackPeriodMonths"`
	PaybackUnbounded    bool    `json:"paybackUnbounded,omitempty"`
	GrossMargin         float64 `json:"grossMargin"`
	ContributionMargin  float64 `json:"contributionMargin"`
}

// Valuation is a revenue-multiple valuation estimate.
type Valuation struct {
	ProjectedAnnualRevenue float64   `json:"projectedAnnualRevenue"`
	Multiple               float64   `json:"valuationMultiple"`
	EstimatedValuation     float64   `json:"estimatedValuation"`
	ValuationDate          time.Time `json:"valuationDate"`
	Methodology            string    `json:"methodology"`
}

// KeyMetrics rolls the projections up into headline numbers.
type KeyMetrics struct {
	TotalRevenue36Months  float64 `json:"totalRevenue36Months"`
	TotalCosts36Months    float64 `json:"totalCosts36Months"`
	NetProfit36Months     float64 `json:"netProfit36Months"`
	AverageMonthlyRevenue float64 `json:"averageMonthlyRevenue"`
	AverageMonthlyCosts   float64 `json:"averageMonthlyCosts"`
	ProfitMargin          float64 `json:"profitMargin"`
	RevenueGrowthRate     float64 `json:"revenueGrowthRate"`
	BurnRate              float64 `json:"burnRate"`
}

// Scenarios holds the three independently recomputed models. Optimistic and
// pessimistic are fresh simulation runs from a scaled revenue seed, never
// scalar transforms of the base output.
type Scenarios struct {
	BaseCase    *Model `json:"baseCase"`
	Optimistic  *Model `json:"optimistic"`
	Pessimistic *Model `json:"pessimistic"`
}
