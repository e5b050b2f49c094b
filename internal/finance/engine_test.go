package finance

import (
	"math"
	"testing"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
)

func zeroEngine() *Engine {
	return NewEngine(func() Source { return ZeroSource{} })
}

func seedInputs() Inputs {
	return Inputs{
		StartupName:    "CloudMetrics",
		CurrentRevenue: 10000,
		CustomerCount:  50,
		TeamSize:       8,
		FundingStage:   startups.StageSeed,
	}
}

func TestBuildProducesFullHorizon(t *testing.T) {
	model := zeroEngine().Build(seedInputs())

	if len(model.Revenue.Monthly) != ProjectionMonths {
		t.Fatalf("expected %d revenue months, got %d", ProjectionMonths, len(model.Revenue.Monthly))
	}
	if len(model.Costs.Monthly) != ProjectionMonths {
		t.Fatalf("expected %d cost months, got %d", ProjectionMonths, len(model.Costs.Monthly))
	}
	if len(model.CashFlow.Monthly) != ProjectionMonths {
		t.Fatalf("expected %d cash-flow months, got %d", ProjectionMonths, len(model.CashFlow.Monthly))
	}
	if len(model.Revenue.Annual) != 3 {
		t.Fatalf("expected 3 annual buckets, got %d", len(model.Revenue.Annual))
	}
	if model.ProjectionPeriod != "36 months" {
		t.Fatalf("unexpected projection period: %s", model.ProjectionPeriod)
	}
	if model.Source != SourceSimulation {
		t.Fatalf("unexpected source marker: %s", model.Source)
	}
}

func TestBuildIsDeterministicForFixedSeed(t *testing.T) {
	engine := NewEngine(func() Source { return NewRandSource(42) })

	first := engine.Build(seedInputs())
	second := engine.Build(seedInputs())

	if first.Revenue.Total36Months != second.Revenue.Total36Months {
		t.Fatalf("expected identical totals, got %.2f and %.2f",
			first.Revenue.Total36Months, second.Revenue.Total36Months)
	}
	for i := range first.Revenue.Monthly {
		if first.Revenue.Monthly[i].Revenue != second.Revenue.Monthly[i].Revenue {
			t.Fatalf("month %d differs between runs", i+1)
		}
	}
}

func TestRevenueCompoundsWithoutJitter(t *testing.T) {
	model := zeroEngine().Build(seedInputs())

	// Seed stage grows 15% per month.
	want := 10000 * 1.15
	if got := model.Revenue.Monthly[0].Revenue; math.Abs(got-want) > 0.01 {
		t.Fatalf("month 1 revenue: expected %.2f, got %.2f", want, got)
	}
	want *= 1.15
	if got := model.Revenue.Monthly[1].Revenue; math.Abs(got-want) > 0.01 {
		t.Fatalf("month 2 revenue: expected %.2f, got %.2f", want, got)
	}
}

func TestGrowthFloorBoundsMonthlyDecline(t *testing.T) {
	// A source pulling hard negative forces the floor every month.
	engine := NewEngine(func() Source { return constSource{-10} })
	model := engine.Build(seedInputs())

	prev := 10000.0
	for _, m := range model.Revenue.Monthly {
		floor := prev * growthFloor
		if m.Revenue < floor-0.01 {
			t.Fatalf("month %d: revenue %.2f fell below floor %.2f", m.Month, m.Revenue, floor)
		}
		prev = m.Revenue
	}
}

func TestTeamSizeCappedAtLimit(t *testing.T) {
	inputs := seedInputs()
	inputs.TeamSize = 90
	inputs.FundingStage = startups.StageSeriesB

	model := zeroEngine().Build(inputs)
	for _, m := range model.Costs.Monthly {
		if m.TeamSize > teamSizeCap {
			t.Fatalf("month %d: team size %.1f exceeds cap", m.Month, m.TeamSize)
		}
	}
	last := model.Costs.Monthly[ProjectionMonths-1]
	if last.TeamSize != teamSizeCap {
		t.Fatalf("expected team to hit the cap, got %.1f", last.TeamSize)
	}
}

func TestCumulativeCashConsistency(t *testing.T) {
	model := zeroEngine().Build(seedInputs())

	cash := float64(StartingCash)
	for _, m := range model.CashFlow.Monthly {
		cash += m.Revenue - m.Costs
		if math.Abs(m.CumulativeCash-round2(cash)) > 0.01 {
			t.Fatalf("month %d: cumulative cash %.2f, recomputed %.2f", m.Month, m.CumulativeCash, cash)
		}
	}
	if math.Abs(model.CashFlow.EndingCash-round2(cash)) > 0.01 {
		t.Fatalf("ending cash %.2f does not match recomputation %.2f", model.CashFlow.EndingCash, cash)
	}
}

func TestScenariosAreIndependentRuns(t *testing.T) {
	engine := NewEngine(func() Source { return NewRandSource(7) })
	model := engine.Build(seedInputs())

	if model.Scenarios == nil {
		t.Fatal("expected scenarios")
	}
	base := model.Scenarios.BaseCase
	opt := model.Scenarios.Optimistic
	pess := model.Scenarios.Pessimistic

	// Fresh sources mean identical jitter sequences, so scaled seeds produce
	// exactly scaled revenue series.
	for i := range base.Revenue.Monthly {
		wantOpt := round2(base.Revenue.Monthly[i].Revenue / 10000 * 12000)
		if math.Abs(opt.Revenue.Monthly[i].Revenue-wantOpt) > 1 {
			t.Fatalf("month %d: optimistic revenue %.2f, expected ~%.2f",
				i+1, opt.Revenue.Monthly[i].Revenue, wantOpt)
		}
	}
	if opt.Revenue.Total36Months <= base.Revenue.Total36Months {
		t.Fatalf("optimistic total should exceed base")
	}
	if pess.Revenue.Total36Months >= base.Revenue.Total36Months {
		t.Fatalf("pessimistic total should trail base")
	}

	// Costs do not scale with the revenue seed.
	if opt.Costs.Total36Months != base.Costs.Total36Months {
		t.Fatalf("scenario costs should match base costs")
	}
	if base.Scenarios != nil || opt.Scenarios != nil {
		t.Fatalf("nested models must not carry scenarios")
	}
}

func TestUnitEconomicsFromProfileNumbers(t *testing.T) {
	model := zeroEngine().Build(seedInputs())
	ue := model.UnitEconomics

	if ue.ARPU != 200 {
		t.Fatalf("ARPU: expected 200, got %.2f", ue.ARPU)
	}
	if ue.LTVCACRatio != 5 {
		t.Fatalf("LTV:CAC: expected 5, got %.2f", ue.LTVCACRatio)
	}
	if ue.PaybackPeriodMonths != 0.5 {
		t.Fatalf("payback: expected 0.5, got %.1f", ue.PaybackPeriodMonths)
	}
	if ue.PaybackUnbounded {
		t.Fatalf("payback should be bounded for positive ARPU")
	}
}

func TestUnitEconomicsZeroCustomersUnboundedPayback(t *testing.T) {
	inputs := seedInputs()
	inputs.CustomerCount = 0

	ue := zeroEngine().Build(inputs).UnitEconomics
	if ue.ARPU != 0 {
		t.Fatalf("expected zero ARPU, got %.2f", ue.ARPU)
	}
	if !ue.PaybackUnbounded {
		t.Fatalf("expected unbounded payback for zero ARPU")
	}
}

func TestValuationUsesThirdYearRevenue(t *testing.T) {
	model := zeroEngine().Build(seedInputs())

	wantAnnual := model.Revenue.Annual[2]
	if math.Abs(model.Valuation.ProjectedAnnualRevenue-round2(wantAnnual)) > 0.01 {
		t.Fatalf("projected annual revenue: expected %.2f, got %.2f",
			wantAnnual, model.Valuation.ProjectedAnnualRevenue)
	}
	// Seed multiple is 5x.
	if model.Valuation.Multiple != 5 {
		t.Fatalf("seed multiple: expected 5, got %.1f", model.Valuation.Multiple)
	}
	wantVal := round2(wantAnnual * 5)
	if math.Abs(model.Valuation.EstimatedValuation-wantVal) > 0.01 {
		t.Fatalf("valuation: expected %.2f, got %.2f", wantVal, model.Valuation.EstimatedValuation)
	}
}

func TestInputsFromProfileDefaultsTeamSize(t *testing.T) {
	inputs := InputsFromProfile(startups.Profile{Name: "Acme"})
	if inputs.TeamSize != 1 {
		t.Fatalf("expected single-founder default, got %d", inputs.TeamSize)
	}
}

func TestUnknownStageUsesDefaultAssumptions(t *testing.T) {
	if got := revenueGrowthFor("series_z"); got != defaultRevenueGrowth {
		t.Fatalf("expected default revenue growth, got %.2f", got)
	}
	if got := teamGrowthFor(""); got != defaultTeamGrowth {
		t.Fatalf("expected default team growth, got %.2f", got)
	}
	if got := valuationMultipleFor("unknown"); got != defaultValuationMultiple {
		t.Fatalf("expected default multiple, got %.1f", got)
	}
}

type constSource struct {
	v float64
}

func (c constSource) Gauss(mean, stddev float64) float64 {
	_ = mean
	_ = stddev
	return c.v
}
