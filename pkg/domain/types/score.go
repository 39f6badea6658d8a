package types

import "github.com/m-mizutani/goerr/v2"

const (
	MinScore = 1
	MaxScore = 5
)

// Score is a likelihood or impact rating on a 1-5 scale
type Score int

// Validate checks if the score is within 1..5
func (s Score) Validate() error {
	if s < MinScore || s > MaxScore {
		return goerr.New("score must be between 1 and 5", goerr.V("score", int(s)))
	}
	return nil
}

// RiskLevel is likelihood x impact, 1..25
type RiskLevel int

// NewRiskLevel multiplies likelihood by impact
func NewRiskLevel(likelihood, impact Score) RiskLevel {
	return RiskLevel(int(likelihood) * int(impact))
}

// RiskBand is the qualitative bucket of a RiskLevel
type RiskBand string

const (
	RiskBandLow      RiskBand = "low"
	RiskBandMedium   RiskBand = "medium"
	RiskBandHigh     RiskBand = "high"
	RiskBandCritical RiskBand = "critical"
)

// AllRiskBands returns bands from lowest to highest
func AllRiskBands() []RiskBand {
	return []RiskBand{RiskBandLow, RiskBandMedium, RiskBandHigh, RiskBandCritical}
}

// Band maps the level onto low (<=4), medium (<=9), high (<=16) and critical (>16)
func (l RiskLevel) Band() RiskBand {
	switch {
	case l <= 4:
		return RiskBandLow
	case l <= 9:
		return RiskBandMedium
	case l <= 16:
		return RiskBandHigh
	default:
		return RiskBandCritical
	}
}

func (b RiskBand) String() string {
	return string(b)
}
