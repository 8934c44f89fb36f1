package pricing

import (
	"math"

	"roomify/internal/domain"
)

// LinearDemand is a fixed-coefficient baseline estimator:
//
//	demand = max(0, Intercept + OwnPrice·p + CompetitorPrice·c + Weekend·w + Holiday·h)
//
// It satisfies domain.DemandEstimator, so the optimizer and analyzer run
// against it unchanged. A deterministic stand-in for the forest in tests
// and quick what-if tooling.
type LinearDemand struct {
	Intercept       float64
	OwnPrice        float64
	CompetitorPrice float64
	Weekend         float64
	Holiday         float64
}

func (l LinearDemand) EstimateDemand(c domain.Context, ownPrice float64) (float64, error) {
	if ownPrice <= 0 {
		return 0, &domain.ValidationError{Field: "own_price", Reason: "must be positive"}
	}
	d := l.Intercept + l.OwnPrice*ownPrice + l.CompetitorPrice*c.CompetitorPrice
	if c.DayType == domain.Weekend {
		d += l.Weekend
	}
	if c.Holiday {
		d += l.Holiday
	}
	return math.Max(0, d), nil
}
