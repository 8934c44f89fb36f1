package domain

import (
	"strings"
	"time"
)

// Season is the fixed 4-value seasonal domain used by the demand model.
type Season int

const (
	SeasonWinter Season = iota
	SeasonSpring
	SeasonSummer
	SeasonFall
)

func (s Season) String() string {
	switch s {
	case SeasonWinter:
		return "winter"
	case SeasonSpring:
		return "spring"
	case SeasonSummer:
		return "summer"
	case SeasonFall:
		return "fall"
	}
	return "unknown"
}

func (s Season) Valid() bool { return s >= SeasonWinter && s <= SeasonFall }

// MarshalText keeps seasons human-readable on the wire and in cache
// entries.
func (s Season) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Season) UnmarshalText(b []byte) error {
	v, ok := ParseSeason(string(b))
	if !ok {
		return &ValidationError{Field: "season", Reason: "unknown season " + string(b)}
	}
	*s = v
	return nil
}

// ParseSeason maps a string to a Season. Unknown values map to the
// winter default with ok=false so callers can decide whether to reject.
func ParseSeason(v string) (Season, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "winter":
		return SeasonWinter, true
	case "spring":
		return SeasonSpring, true
	case "summer":
		return SeasonSummer, true
	case "fall", "autumn":
		return SeasonFall, true
	}
	return SeasonWinter, false
}

// SeasonOf derives the calendar season from a date (northern hemisphere,
// month-boundary approximation).
func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonFall
	}
}

// DayType is the weekday/weekend indicator.
type DayType int

const (
	Weekday DayType = iota
	Weekend
)

func (d DayType) String() string {
	if d == Weekend {
		return "weekend"
	}
	return "weekday"
}

func (d DayType) Valid() bool { return d == Weekday || d == Weekend }

func (d DayType) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DayType) UnmarshalText(b []byte) error {
	v, ok := ParseDayType(string(b))
	if !ok {
		return &ValidationError{Field: "day_type", Reason: "unknown day type " + string(b)}
	}
	*d = v
	return nil
}

// ParseDayType maps a string to a DayType. Full day names are accepted
// too, so raw day-of-week columns load without a separate mapping step.
// Unknown values map to the weekday default with ok=false.
func ParseDayType(v string) (DayType, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "weekday", "monday", "tuesday", "wednesday", "thursday", "friday":
		return Weekday, true
	case "weekend", "saturday", "sunday":
		return Weekend, true
	}
	return Weekday, false
}

// DayTypeOf derives the day type from a date.
func DayTypeOf(t time.Time) DayType {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	}
	return Weekday
}

// Observation is one day's historical pricing record. Demand is realized
// demand and never exceeds hotel capacity; Revenue is always
// OwnPrice × Demand for the record.
type Observation struct {
	Date            time.Time `json:"date"`
	Season          Season    `json:"season"`
	DayType         DayType   `json:"day_type"`
	Holiday         bool      `json:"holiday"`
	OwnPrice        float64   `json:"own_price"`
	CompetitorPrice float64   `json:"competitor_price"`
	Demand          float64   `json:"demand"`
	Occupancy       float64   `json:"occupancy"`
	Revenue         float64   `json:"revenue"`
}

// Context carries the non-price fields of an observation, i.e. everything
// the demand model needs except the own price under evaluation. A zero
// Date is allowed; date-derived features then fall back to the season.
type Context struct {
	Date            time.Time `json:"date,omitempty"`
	Season          Season    `json:"season"`
	DayType         DayType   `json:"day_type"`
	Holiday         bool      `json:"holiday"`
	CompetitorPrice float64   `json:"competitor_price"`
}

// Context extracts the prediction context from an observation.
func (o Observation) Context() Context {
	return Context{
		Date:            o.Date,
		Season:          o.Season,
		DayType:         o.DayType,
		Holiday:         o.Holiday,
		CompetitorPrice: o.CompetitorPrice,
	}
}

// PricePoint is one evaluated candidate on the optimizer's grid.
// Demand is the raw model output; EffectiveDemand is capped at capacity.
type PricePoint struct {
	Price           float64 `json:"price"`
	Demand          float64 `json:"demand"`
	EffectiveDemand float64 `json:"effective_demand"`
	Revenue         float64 `json:"revenue"`
}

// OptimizationResult is the outcome of one grid search. Ephemeral and
// owned by the caller; Curve preserves grid order for chart consumers.
type OptimizationResult struct {
	Context          Context      `json:"context"`
	Capacity         float64      `json:"capacity"`
	OptimalPrice     float64      `json:"optimal_price"`
	PredictedDemand  float64      `json:"predicted_demand"`
	EffectiveDemand  float64      `json:"effective_demand"`
	Occupancy        float64      `json:"occupancy"`
	ProjectedRevenue float64      `json:"projected_revenue"`
	Curve            []PricePoint `json:"curve"`
}
