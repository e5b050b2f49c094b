package market

import (
	"errors"
	"time"
)

// Default cascade fractions: SAM is typically 10-20% of TAM, SOM 1-5% of SAM.
const (
	DefaultSAMFraction = 0.15
	DefaultSOMFraction = 0.03
)

// DefaultTAM is used when a startup profile carries no market-size estimate.
const DefaultTAM = 1_000_000_000.0

// ErrNegativeTAM rejects negative market-size input at the boundary.
var ErrNegativeTAM = errors.New("tam must be non-negative")

// Sizing is the TAM/SAM/SOM cascade result.
type Sizing struct {
	TAM             float64   `json:"tam"`
	SAM             float64   `json:"sam"`
	SOM             float64   `json:"som"`
	TAMPercentage   float64   `json:"tamPercentage"`
	SAMPercentage   float64   `json:"samPercentage"`
	SOMPercentage   float64   `json:"somPercentage"`
	Currency        string    `json:"currency"`
	CalculationDate time.Time `json:"calculationDate"`
}

// Calculator computes the market-sizing cascade. The zero value is not
// usable; construct with NewCalculator.
type Calculator struct {
	samFraction float64
	somFraction float64
	now         func() time.Time
}

// NewCalculator constructs a Calculator. Fractions outside (0, 1] select the
// defaults.
func NewCalculator(samFraction, somFraction float64) *Calculator {
	if samFraction <= 0 || samFraction > 1 {
		samFraction = DefaultSAMFraction
	}
	if somFraction <= 0 || somFraction > 1 {
		somFraction = DefaultSOMFraction
	}
	return &Calculator{
		samFraction: samFraction,
		somFraction: somFraction,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// TamSamSom cascades a total addressable market down to serviceable and
// obtainable segments. Pure aside from the timestamp; no failure modes beyond
// negative input.
func (c *Calculator) TamSamSom(tam float64) (Sizing, error) {
	if tam < 0 {
		return Sizing{}, ErrNegativeTAM
	}
	sam := tam * c.samFraction
	som := sam * c.somFraction
	return Sizing{
		TAM:             tam,
		SAM:             sam,
		SOM:             som,
		TAMPercentage:   100,
		SAMPercentage:   c.samFraction * 100,
		SOMPercentage:   c.somFraction * 100,
		Currency:        "USD",
		CalculationDate: c.now(),
	}, nil
}
