package pricing

import (
	"math"

	"roomify/internal/domain"
)

// FeatureVector is a fixed-order numeric encoding of one prediction input.
// The same order is used for training and inference; feature importance
// metrics are reported against featureNames.
type FeatureVector []float64

var featureNames = []string{
	"own_price",
	"competitor_price",
	"price_ratio",
	"price_diff",
	"season_winter",
	"season_spring",
	"season_summer",
	"season_fall",
	"is_weekend",
	"is_holiday",
	"day_of_year_sin",
	"day_of_year_cos",
}

// FeatureNames returns the encoder's schema in vector order.
func FeatureNames() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// seasonMidDay anchors the cyclic day-of-year terms when a context has no
// date: mid-January, mid-April, mid-July, mid-October.
var seasonMidDay = [...]float64{15, 105, 196, 288}

// Encode turns (context, own price) into a feature vector. Pure function;
// fails with a ValidationError on non-positive prices or categorical
// values outside the fixed domain.
func Encode(c domain.Context, ownPrice float64) (FeatureVector, error) {
	if ownPrice <= 0 {
		return nil, &domain.ValidationError{Field: "own_price", Reason: "must be positive"}
	}
	if c.CompetitorPrice <= 0 {
		return nil, &domain.ValidationError{Field: "competitor_price", Reason: "must be positive"}
	}
	if !c.Season.Valid() {
		return nil, &domain.ValidationError{Field: "season", Reason: "outside winter/spring/summer/fall"}
	}
	if !c.DayType.Valid() {
		return nil, &domain.ValidationError{Field: "day_type", Reason: "outside weekday/weekend"}
	}

	dayOfYear := seasonMidDay[c.Season]
	if !c.Date.IsZero() {
		dayOfYear = float64(c.Date.YearDay())
	}
	angle := 2 * math.Pi * dayOfYear / 365

	fv := make(FeatureVector, len(featureNames))
	fv[0] = ownPrice
	fv[1] = c.CompetitorPrice
	fv[2] = ownPrice / c.CompetitorPrice
	fv[3] = ownPrice - c.CompetitorPrice
	fv[4+int(c.Season)] = 1
	if c.DayType == domain.Weekend {
		fv[8] = 1
	}
	if c.Holiday {
		fv[9] = 1
	}
	fv[10] = math.Sin(angle)
	fv[11] = math.Cos(angle)
	return fv, nil
}
