package finance

// Simulation horizon and seeds.
const (
	ProjectionMonths = 36
	StartingCash     = 1_000_000
)

// Per-employee cost assumptions, monthly USD.
const (
	baseSalary          = 8000
	overheadPerEmployee = 2000
	marketingPctOfStaff = 0.30
	otherPctOfStaff     = 0.20
	teamSizeCap         = 100
)

// Default unit-economics assumptions.
const (
	defaultCAC         = 100
	defaultLTV         = 500
	defaultChurnRate   = 0.05
	defaultGrossMargin = 0.70
)

// Revenue growth floor: a month never loses more than 20% of the prior month.
const growthFloor = 0.8

// Jitter applied to the monthly growth multiplier.
const jitterStddev = 0.05

var revenueGrowthRates = map[string]float64{
	"seed":     0.15,
	"series_a": 0.25,
	"series_b": 0.30,
	"series_c": 0.20,
}

const defaultRevenueGrowth = 0.20

var teamGrowthRates = map[string]float64{
	"seed":     0.10,
	"series_a": 0.15,
	"series_b": 0.20,
	"series_c": 0.15,
}

const defaultTeamGrowth = 0.10

var valuationMultiples = map[string]float64{
	"seed":     5,
	"series_a": 8,
	"series_b": 10,
	"series_c": 12,
}

const defaultValuationMultiple = 8

func revenueGrowthFor(stage string) float64 {
	if rate, ok := revenueGrowthRates[stage]; ok {
		return rate
	}
	return defaultRevenueGrowth
}

func teamGrowthFor(stage string) float64 {
	if rate, ok := teamGrowthRates[stage]; ok {
		return rate
	}
	return defaultTeamGrowth
}

func valuationMultipleFor(stage string) float64 {
	if multiple, ok := valuationMultiples[stage]; ok {
		return multiple
	}
	return defaultValuationMultiple
}
