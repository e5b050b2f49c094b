package market

import (
	"errors"
	"math"
	"testing"
)

func TestTamSamSomDefaultCascade(t *testing.T) {
	calc := NewCalculator(0, 0)

	sizing, err := calc.TamSamSom(1_000_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sizing.TAM != 1_000_000_000 {
		t.Fatalf("TAM: expected 1B, got %.0f", sizing.TAM)
	}
	if math.Abs(sizing.SAM-150_000_000) > 0.01 {
		t.Fatalf("SAM: expected 150M, got %.0f", sizing.SAM)
	}
	if math.Abs(sizing.SOM-4_500_000) > 0.01 {
		t.Fatalf("SOM: expected 4.5M, got %.0f", sizing.SOM)
	}
	if sizing.Currency != "USD" {
		t.Fatalf("unexpected currency: %s", sizing.Currency)
	}
	if sizing.CalculationDate.IsZero() {
		t.Fatalf("expected calculation date")
	}
}

func TestTamSamSomCustomFractions(t *testing.T) {
	calc := NewCalculator(0.5, 0.1)

	sizing, err := calc.TamSamSom(200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sizing.SAM != 100 {
		t.Fatalf("SAM: expected 100, got %.2f", sizing.SAM)
	}
	if sizing.SOM != 10 {
		t.Fatalf("SOM: expected 10, got %.2f", sizing.SOM)
	}
	if sizing.SAMPercentage != 50 || sizing.SOMPercentage != 10 {
		t.Fatalf("unexpected percentages: %.1f %.1f", sizing.SAMPercentage, sizing.SOMPercentage)
	}
}

func TestTamSamSomRejectsNegativeTAM(t *testing.T) {
	calc := NewCalculator(0, 0)
	if _, err := calc.TamSamSom(-1); !errors.Is(err, ErrNegativeTAM) {
		t.Fatalf("expected ErrNegativeTAM, got %v", err)
	}
}

func TestTamSamSomZeroTAM(t *testing.T) {
	calc := NewCalculator(0, 0)
	sizing, err := calc.TamSamSom(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sizing.TAM != 0 || sizing.SAM != 0 || sizing.SOM != 0 {
		t.Fatalf("expected zero cascade, got %+v", sizing)
	}
}

func TestNewCalculatorRejectsOutOfRangeFractions(t *testing.T) {
	calc := NewCalculator(1.5, -0.2)
	sizing, _ := calc.TamSamSom(100)
	if math.Abs(sizing.SAM-100*DefaultSAMFraction) > 0.01 {
		t.Fatalf("expected default SAM fraction, got %.2f", sizing.SAM)
	}
	if math.Abs(sizing.SOM-100*DefaultSAMFraction*DefaultSOMFraction) > 0.01 {
		t.Fatalf("expected default SOM fraction, got %.4f", sizing.SOM)
	}
}
