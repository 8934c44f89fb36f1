package pricing

import (
	"errors"
	"math"
	"testing"
	"time"

	"roomify/internal/domain"
)

func TestSensitivity_OwnPriceMatchesOptimizerCurve(t *testing.T) {
	est := LinearDemand{Intercept: 150, OwnPrice: -1}
	values := []float64{80, 90, 100, 110, 120}

	points, err := Sensitivity(est, optCtx(), 100, SweepOwnPrice, values, 100)
	if err != nil {
		t.Fatalf("sensitivity: %v", err)
	}
	wantRevenues := []float64{5600, 5400, 5000, 4400, 3600}
	for i, p := range points {
		if p.Value != values[i] {
			t.Fatalf("point %d value = %v, want %v (order must match input)", i, p.Value, values[i])
		}
		if p.Revenue != wantRevenues[i] {
			t.Fatalf("point %d revenue = %v, want %v", i, p.Revenue, wantRevenues[i])
		}
	}
}

func TestSensitivity_CompetitorDimension(t *testing.T) {
	est := LinearDemand{Intercept: 20, CompetitorPrice: 0.5}
	values := []float64{100, 200}

	points, err := Sensitivity(est, optCtx(), 120, SweepCompetitorPrice, values, 500)
	if err != nil {
		t.Fatalf("sensitivity: %v", err)
	}
	if points[0].Demand != 70 || points[1].Demand != 120 {
		t.Fatalf("demands = %v/%v, want 70/120", points[0].Demand, points[1].Demand)
	}
}

func TestSensitivity_SeasonLabels(t *testing.T) {
	calls := make([]domain.Season, 0, 4)
	est := demandFunc(func(c domain.Context, _ float64) (float64, error) {
		calls = append(calls, c.Season)
		return 50, nil
	})

	points, err := Sensitivity(est, optCtx(), 120, SweepSeason, SeasonSweep(), 200)
	if err != nil {
		t.Fatalf("sensitivity: %v", err)
	}
	wantLabels := []string{"winter", "spring", "summer", "fall"}
	for i, p := range points {
		if p.Label != wantLabels[i] {
			t.Fatalf("label[%d] = %q, want %q", i, p.Label, wantLabels[i])
		}
	}
	if len(calls) != 4 || calls[0] != domain.SeasonWinter || calls[3] != domain.SeasonFall {
		t.Fatalf("estimator saw seasons %v", calls)
	}
}

func TestSensitivity_SeasonSweepShiftsDateFromCalendar(t *testing.T) {
	seen := make([]domain.Context, 0, 4)
	est := demandFunc(func(c domain.Context, _ float64) (float64, error) {
		seen = append(seen, c)
		return 50, nil
	})

	// base.Season disagrees with the date's calendar season; the swept
	// dates must still land inside each target season
	base := domain.Context{
		Date:            time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		Season:          domain.SeasonSummer,
		DayType:         domain.Weekday,
		CompetitorPrice: 140,
	}

	if _, err := Sensitivity(est, base, 120, SweepSeason, SeasonSweep(), 200); err != nil {
		t.Fatalf("sensitivity: %v", err)
	}
	if len(seen) != 4 {
		t.Fatalf("estimator saw %d contexts, want 4", len(seen))
	}
	for _, c := range seen {
		if got := domain.SeasonOf(c.Date); got != c.Season {
			t.Fatalf("date %s falls in %s, context says %s", c.Date.Format("2006-01-02"), got, c.Season)
		}
	}
}

func TestSensitivity_DayTypeDimension(t *testing.T) {
	est := LinearDemand{Intercept: 60, Weekend: 25}
	points, err := Sensitivity(est, optCtx(), 120, SweepDayType, DayTypeSweep(), 200)
	if err != nil {
		t.Fatalf("sensitivity: %v", err)
	}
	if points[0].Demand != 60 || points[1].Demand != 85 {
		t.Fatalf("demands = %v/%v, want 60/85", points[0].Demand, points[1].Demand)
	}
	if points[0].Label != "weekday" || points[1].Label != "weekend" {
		t.Fatalf("labels = %q/%q", points[0].Label, points[1].Label)
	}
}

func TestSensitivity_Validation(t *testing.T) {
	est := LinearDemand{Intercept: 100}
	if _, err := Sensitivity(est, optCtx(), 120, SweepOwnPrice, nil, 200); err == nil {
		t.Fatal("empty values must fail")
	}
	if _, err := Sensitivity(est, optCtx(), 120, SweepDimension("rooms"), []float64{1}, 200); err == nil {
		t.Fatal("unknown dimension must fail")
	}
	if _, err := Sensitivity(est, optCtx(), 120, SweepSeason, []float64{99}, 200); err == nil {
		t.Fatal("out-of-domain season ordinal must fail")
	}
	if _, err := Sensitivity(nil, optCtx(), 120, SweepOwnPrice, []float64{100}, 200); !errors.Is(err, domain.ErrModelNotTrained) {
		t.Fatal("nil estimator must report untrained model")
	}
}

func TestElasticity_ConstantElasticityCurve(t *testing.T) {
	// demand = a * p^-1.5 has point elasticity -1.5 everywhere; the arc
	// approximation over small steps should land close.
	est := demandFunc(func(_ domain.Context, p float64) (float64, error) {
		return 1e6 * math.Pow(p, -1.5), nil
	})
	values := []float64{100, 101, 102, 103}
	points, err := Sensitivity(est, optCtx(), 100, SweepOwnPrice, values, 1e9)
	if err != nil {
		t.Fatalf("sensitivity: %v", err)
	}

	els := Elasticity(points)
	if len(els) != 3 {
		t.Fatalf("want 3 elasticity pairs, got %d", len(els))
	}
	for i, e := range els {
		if e.Err != nil {
			t.Fatalf("pair %d unexpectedly undefined: %v", i, e.Err)
		}
		if math.Abs(e.Elasticity-(-1.5)) > 0.05 {
			t.Fatalf("pair %d elasticity = %v, want ≈ -1.5", i, e.Elasticity)
		}
	}
}

func TestElasticity_UndefinedPairsDoNotAbort(t *testing.T) {
	points := []SweepPoint{
		{Value: 100, Demand: 50},
		{Value: 100, Demand: 40}, // zero price delta
		{Value: 110, Demand: 0},
		{Value: 120, Demand: 10}, // zero base demand
		{Value: 130, Demand: 8},
	}
	els := Elasticity(points)
	if len(els) != 4 {
		t.Fatalf("want 4 pairs, got %d", len(els))
	}
	if !errors.Is(els[0].Err, domain.ErrUndefinedElasticity) {
		t.Fatalf("pair 0 (zero price delta): %v", els[0].Err)
	}
	if !errors.Is(els[2].Err, domain.ErrUndefinedElasticity) {
		t.Fatalf("pair 2 (zero base demand): %v", els[2].Err)
	}
	if els[1].Err != nil || els[3].Err != nil {
		t.Fatalf("defined pairs must survive: %v / %v", els[1].Err, els[3].Err)
	}
}
