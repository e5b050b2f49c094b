package finance

import (
	"fmt"
	"math"
	"time"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/telemetry"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
)

// Inputs are the minimal profile fields the simulation consumes.
type Inputs struct {
	StartupName    string
	CurrentRevenue float64
	CustomerCount  int
	TeamSize       int
	FundingStage   string
}

// Engine runs deterministic 36-month financial simulations. Every full model
// run draws jitter from a fresh Source produced by the factory, so the three
// scenario runs see identical jitter sequences and differ only in their
// revenue seed.
type Engine struct {
	newSource func() Source
	now       func() time.Time
}

// NewEngine constructs an Engine. A nil factory selects time-seeded sources.
func NewEngine(newSource func() Source) *Engine {
	if newSource == nil {
		newSource = NewTimeSource
	}
	return &Engine{
		newSource: newSource,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// InputsFromProfile extracts simulation inputs from a startup profile.
// A missing team size defaults to a single founder.
func InputsFromProfile(profile startups.Profile) Inputs {
	teamSize := profile.TeamSize
	if teamSize <= 0 {
		teamSize = 1
	}
	return Inputs{
		StartupName:    profile.Name,
		CurrentRevenue: profile.CurrentRevenue,
		CustomerCount:  profile.CustomerCount,
		TeamSize:       teamSize,
		FundingStage:   profile.FundingStage,
	}
}

// Build produces a complete financial model with scenarios. It never returns
// an error: any internal failure is converted into the documented all-zero
// fallback model tagged with a fallback provenance marker.
func (e *Engine) Build(inputs Inputs) (model Model) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("financial_model.failed", map[string]any{
				"startup_name": inputs.StartupName,
				"error":        fmt.Sprint(r),
			})
			model = e.fallbackModel(inputs)
		}
	}()

	model = e.simulate(inputs)
	model.Scenarios = e.buildScenarios(inputs)
	return model
}

// simulate runs one full pipeline for a single revenue seed, without
// scenarios.
func (e *Engine) simulate(inputs Inputs) Model {
	src := e.newSource()
	revenue := projectRevenue(inputs.CurrentRevenue, inputs.FundingStage, src)
	costs := projectCosts(inputs.TeamSize, inputs.FundingStage)
	cashFlow := projectCashFlow(revenue, costs)
	now := e.now()

	return Model{
		StartupName:      inputs.StartupName,
		CreatedAt:        now,
		ProjectionPeriod: fmt.Sprintf("%d months", ProjectionMonths),
		Revenue:          revenue,
		Costs:            costs,
		CashFlow:         cashFlow,
		UnitEconomics:    unitEconomics(inputs.CurrentRevenue, inputs.CustomerCount),
		Valuation:        valuation(revenue, inputs.FundingStage, now),
		KeyMetrics:       keyMetrics(revenue, costs),
		Source:           SourceSimulation,
	}
}

// buildScenarios recomputes the full pipeline at scaled revenue seeds. Cost
// and team growth do not scale with revenue, so scenarios require fresh
// simulation runs.
func (e *Engine) buildScenarios(inputs Inputs) *Scenarios {
	base := e.simulate(inputs)

	optimistic := inputs
	optimistic.CurrentRevenue = inputs.CurrentRevenue * 1.2
	optimisticModel := e.simulate(optimistic)

	pessimistic := inputs
	pessimistic.CurrentRevenue = inputs.CurrentRevenue * 0.8
	pessimisticModel := e.simulate(pessimistic)

	return &Scenarios{
		BaseCase:    &base,
		Optimistic:  &optimisticModel,
		Pessimistic: &pessimisticModel,
	}
}

func projectRevenue(currentRevenue float64, fundingStage string, src Source) RevenueProjection {
	growthRate := revenueGrowthFor(fundingStage)

	monthly := make([]MonthlyRevenue, 0, ProjectionMonths)
	revenue := currentRevenue
	cumulative := 0.0
	for month := 1; month <= ProjectionMonths; month++ {
		multiplier := math.Max(growthFloor, 1+growthRate+src.Gauss(0, jitterStddev))
		revenue *= multiplier
		cumulative += revenue
		monthly = append(monthly, MonthlyRevenue{
			Month:             month,
			Revenue:           round2(revenue),
			GrowthRate:        growthRate,
			CumulativeRevenue: round2(cumulative),
		})
	}

	annual := make([]float64, 0, ProjectionMonths/12)
	for start := 0; start < len(monthly); start += 12 {
		end := start + 12
		if end > len(monthly) {
			end = len(monthly)
		}
		sum := 0.0
		for _, m := range monthly[start:end] {
			sum += m.Revenue
		}
		annual = append(annual, sum)
	}

	total := 0.0
	for _, m := range monthly {
		total += m.Revenue
	}

	return RevenueProjection{
		Monthly:              monthly,
		Annual:               annual,
		Total36Months:        total,
		AverageMonthlyGrowth: growthRate,
	}
}

func projectCosts(teamSize int, fundingStage string) CostProjection {
	teamGrowth := teamGrowthFor(fundingStage)

	monthly := make([]MonthlyCost, 0, ProjectionMonths)
	currentTeam := float64(teamSize)
	for month := 1; month <= ProjectionMonths; month++ {
		currentTeam = math.Min(currentTeam*(1+teamGrowth), teamSizeCap)

		personnel := currentTeam * baseSalary
		overhead := currentTeam * overheadPerEmployee
		marketing := personnel * marketingPctOfStaff
		other := personnel * otherPctOfStaff
		total := personnel + overhead + marketing + other

		monthly = append(monthly, MonthlyCost{
			Month:          month,
			TeamSize:       round1(currentTeam),
			PersonnelCosts: round2(personnel),
			OverheadCosts:  round2(overhead),
			MarketingCosts: round2(marketing),
			OtherCosts:     round2(other),
			TotalCosts:     round2(total),
		})
	}

	annual := make([]float64, 0, ProjectionMonths/12)
	for start := 0; start < len(monthly); start += 12 {
		end := start + 12
		if end > len(monthly) {
			end = len(monthly)
		}
		sum := 0.0
		for _, m := range monthly[start:end] {
			sum += m.TotalCosts
		}
		annual = append(annual, sum)
	}

	total := 0.0
	for _, m := range monthly {
		total += m.TotalCosts
	}

	return CostProjection{
		Monthly:            monthly,
		Annual:             annual,
		Total36Months:      total,
		AverageMonthlyBurn: total / float64(len(monthly)),
	}
}

func projectCashFlow(revenue RevenueProjection, costs CostProjection) CashFlowProjection {
	monthly := make([]MonthlyCashFlow, 0, ProjectionMonths)
	cash := float64(StartingCash)
	totalNet := 0.0
	for i := 0; i < len(revenue.Monthly); i++ {
		monthRevenue := revenue.Monthly[i].Revenue
		monthCosts := costs.Monthly[i].TotalCosts

		net := monthRevenue - monthCosts
		cash += net
		totalNet += net

		entry := MonthlyCashFlow{
			Month:          i + 1,
			Revenue:        monthRevenue,
			Costs:          monthCosts,
			NetCashFlow:    round2(net),
			CumulativeCash: round2(cash),
		}
		if monthCosts > 0 {
			entry.RunwayMonths = round1(cash / monthCosts)
		} else {
			entry.RunwayUnbounded = true
		}
		monthly = append(monthly, entry)
	}

	return CashFlowProjection{
		Monthly:                monthly,
		StartingCash:           StartingCash,
		EndingCash:             round2(cash),
		TotalNetCashFlow:       round2(totalNet),
		AverageMonthlyCashFlow: round2(totalNet / float64(len(monthly))),
	}
}

func unitEconomics(currentRevenue float64, customerCount int) UnitEconomics {
	arpu := 0.0
	if customerCount > 0 {
		arpu = currentRevenue / float64(customerCount)
	}

	ue := UnitEconomics{
		ARPU:               round2(arpu),
		CAC:                defaultCAC,
		LTV:                defaultLTV,
		ChurnRate:          defaultChurnRate,
		LTVCACRatio:        round2(defaultLTV / float64(defaultCAC)),
		GrossMargin:        defaultGrossMargin,
		ContributionMargin: round2(arpu*defaultGrossMargin - defaultCAC),
	}
	if arpu > 0 {
		ue.PaybackPeriodMonths = round1(defaultCAC / arpu)
	} else {
		ue.PaybackUnbounded = true
	}
	return ue
}

func valuation(revenue RevenueProjection, fundingStage string, now time.Time) Valuation {
	var annualRevenue float64
	if len(revenue.Annual) > 2 {
		annualRevenue = revenue.Annual[2]
	} else if len(revenue.Monthly) > 0 {
		annualRevenue = revenue.Monthly[len(revenue.Monthly)-1].Revenue * 12
	}

	multiple := valuationMultipleFor(fundingStage)
	return Valuation{
		ProjectedAnnualRevenue: round2(annualRevenue),
		Multiple:               multiple,
		EstimatedValuation:     round2(annualRevenue * multiple),
		ValuationDate:          now,
		Methodology:            "Revenue multiple",
	}
}

func keyMetrics(revenue RevenueProjection, costs CostProjection) KeyMetrics {
	totalRevenue := revenue.Total36Months
	totalCosts := costs.Total36Months

	profitMargin := 0.0
	if totalRevenue > 0 {
		profitMargin = round2((totalRevenue - totalCosts) / totalRevenue * 100)
	}

	return KeyMetrics{
		TotalRevenue36Months:  round2(totalRevenue),
		TotalCosts36Months:    round2(totalCosts),
		NetProfit36Months:     round2(totalRevenue - totalCosts),
		AverageMonthlyRevenue: round2(totalRevenue / ProjectionMonths),
		AverageMonthlyCosts:   round2(totalCosts / ProjectionMonths),
		ProfitMargin:          profitMargin,
		RevenueGrowthRate:     revenue.AverageMonthlyGrowth,
		BurnRate:              round2(totalCosts / ProjectionMonths),
	}
}

// fallbackModel is the documented all-zero record returned when the
// simulation fails. Never surfaced to the caller as an error.
func (e *Engine) fallbackModel(inputs Inputs) Model {
	name := inputs.StartupName
	if name == "" {
		name = "Unknown"
	}
	return Model{
		StartupName:      name,
		CreatedAt:        e.now(),
		ProjectionPeriod: fmt.Sprintf("%d months", ProjectionMonths),
		Source:           SourceFallback,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
