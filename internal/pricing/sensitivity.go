package pricing

import (
	"math"

	"roomify/internal/domain"
)

// SweepDimension selects which input the analyzer varies while holding
// the rest of the context fixed.
type SweepDimension string

const (
	SweepOwnPrice        SweepDimension = "own_price"
	SweepCompetitorPrice SweepDimension = "competitor_price"
	SweepSeason          SweepDimension = "season"
	SweepDayType         SweepDimension = "day_type"
)

// SweepPoint is one evaluated point of a sensitivity sweep. For
// categorical dimensions Value is the ordinal and Label the name.
type SweepPoint struct {
	Value   float64 `json:"value"`
	Label   string  `json:"label,omitempty"`
	Demand  float64 `json:"demand"`
	Revenue float64 `json:"revenue"`
}

// SeasonSweep returns the ordinals covering the full season domain, in
// calendar order.
func SeasonSweep() []float64 {
	return []float64{float64(domain.SeasonWinter), float64(domain.SeasonSpring), float64(domain.SeasonSummer), float64(domain.SeasonFall)}
}

// DayTypeSweep returns the ordinals covering weekday and weekend.
func DayTypeSweep() []float64 {
	return []float64{float64(domain.Weekday), float64(domain.Weekend)}
}

// Sensitivity sweeps one dimension of the context through values and
// reports predicted demand and revenue at each point, preserving input
// order. ownPrice is the price charged at every point except when the
// swept dimension is the own price itself. Demand is capped at capacity
// for the revenue term, matching the optimizer.
func Sensitivity(est domain.DemandEstimator, base domain.Context, ownPrice float64, dim SweepDimension, values []float64, capacity float64) ([]SweepPoint, error) {
	if est == nil {
		return nil, domain.ErrModelNotTrained
	}
	if len(values) == 0 {
		return nil, &domain.ValidationError{Field: "values", Reason: "sweep requires at least one value"}
	}
	if capacity <= 0 {
		return nil, &domain.ValidationError{Field: "capacity", Reason: "must be positive"}
	}

	out := make([]SweepPoint, 0, len(values))
	for _, v := range values {
		c := base
		price := ownPrice
		label := ""

		switch dim {
		case SweepOwnPrice:
			price = v
		case SweepCompetitorPrice:
			c.CompetitorPrice = v
		case SweepSeason:
			s := domain.Season(int(v))
			if !s.Valid() {
				return nil, &domain.ValidationError{Field: "season", Reason: "sweep value outside season domain"}
			}
			c.Season = s
			c.Date = base.Date
			// shift relative to the date's own calendar season, so the
			// day-of-year features land inside the season being swept
			// even when base.Season disagrees with base.Date
			if cur := domain.SeasonOf(base.Date); !base.Date.IsZero() && cur != s {
				c.Date = base.Date.AddDate(0, 3*int(s-cur), 0)
			}
			label = s.String()
		case SweepDayType:
			d := domain.DayType(int(v))
			if !d.Valid() {
				return nil, &domain.ValidationError{Field: "day_type", Reason: "sweep value outside day-type domain"}
			}
			c.DayType = d
			label = d.String()
		default:
			return nil, &domain.ValidationError{Field: "dimension", Reason: "unknown sweep dimension"}
		}

		demand, err := est.EstimateDemand(c, price)
		if err != nil {
			return nil, err
		}
		eff := math.Min(demand, capacity)
		out = append(out, SweepPoint{Value: v, Label: label, Demand: demand, Revenue: price * eff})
	}
	return out, nil
}

// ElasticityPoint is the price elasticity of demand between two
// consecutive own-price sweep points. Err carries
// domain.ErrUndefinedElasticity when a denominator degenerates; the rest
// of the series is unaffected.
type ElasticityPoint struct {
	FromPrice  float64 `json:"from_price"`
	ToPrice    float64 `json:"to_price"`
	Elasticity float64 `json:"elasticity"`
	Err        error   `json:"-"`
}

// Elasticity derives %Δdemand / %Δprice over consecutive points of an
// own-price sweep.
func Elasticity(points []SweepPoint) []ElasticityPoint {
	if len(points) < 2 {
		return nil
	}
	out := make([]ElasticityPoint, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		ep := ElasticityPoint{FromPrice: prev.Value, ToPrice: cur.Value}
		if prev.Value == 0 || cur.Value == prev.Value || prev.Demand == 0 {
			ep.Err = domain.ErrUndefinedElasticity
		} else {
			dPricePct := (cur.Value - prev.Value) / prev.Value
			dDemandPct := (cur.Demand - prev.Demand) / prev.Demand
			ep.Elasticity = dDemandPct / dPricePct
			if math.IsInf(ep.Elasticity, 0) || math.IsNaN(ep.Elasticity) {
				ep.Elasticity = 0
				ep.Err = domain.ErrUndefinedElasticity
			}
		}
		out = append(out, ep)
	}
	return out
}
