package datagen

import (
	"math"
	"math/rand"
	"time"

	"roomify/internal/domain"
)

// Config shapes the synthetic dataset. Zero values fall back to two
// seasonal cycles at a 200-room property.
type Config struct {
	Start    time.Time
	Days     int
	Capacity float64
	Seed     int64

	BaseOwnPrice        float64
	BaseCompetitorPrice float64
}

func (c Config) withDefaults() Config {
	if c.Start.IsZero() {
		c.Start = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	if c.Days <= 0 {
		c.Days = 730
	}
	if c.Capacity <= 0 {
		c.Capacity = 200
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.BaseOwnPrice <= 0 {
		c.BaseOwnPrice = 160
	}
	if c.BaseCompetitorPrice <= 0 {
		c.BaseCompetitorPrice = 150
	}
	return c
}

// seasonShape holds per-season demand and price levels: summers run hot,
// winters discount to fill rooms.
type seasonShape struct {
	baseDemand float64
	ownMult    float64
	compMult   float64
}

var shapes = map[domain.Season]seasonShape{
	domain.SeasonWinter: {baseDemand: 80, ownMult: 0.95, compMult: 0.90},
	domain.SeasonSpring: {baseDemand: 120, ownMult: 1.15, compMult: 1.10},
	domain.SeasonSummer: {baseDemand: 180, ownMult: 1.25, compMult: 1.30},
	domain.SeasonFall:   {baseDemand: 120, ownMult: 1.15, compMult: 1.10},
}

// fixed-date holidays observed by the generator
var holidays = map[[2]int]bool{
	{1, 1}:   true, // New Year's Day
	{7, 4}:   true, // Independence Day
	{11, 25}: true,
	{12, 25}: true, // Christmas
	{12, 31}: true, // New Year's Eve
}

// Generate produces a deterministic synthetic history with realistic
// seasonal, weekend and holiday demand patterns plus a competitive price
// penalty. Realized demand is clamped to [0, capacity].
func Generate(cfg Config) []domain.Observation {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))

	out := make([]domain.Observation, 0, cfg.Days)
	for i := 0; i < cfg.Days; i++ {
		date := cfg.Start.AddDate(0, 0, i)
		season := domain.SeasonOf(date)
		dayType := domain.DayTypeOf(date)
		holiday := holidays[[2]int{int(date.Month()), date.Day()}]
		shape := shapes[season]

		comp := cfg.BaseCompetitorPrice*shape.compMult + rng.NormFloat64()*15
		comp = math.Max(80, comp)
		own := cfg.BaseOwnPrice*shape.ownMult + rng.NormFloat64()*20
		own = math.Max(90, own)

		// keep own price within a competitive band
		if own > comp*1.5 {
			own = comp * 1.4
		} else if own < comp*0.8 {
			own = comp * 0.9
		}

		demand := shape.baseDemand
		if dayType == domain.Weekend {
			demand *= 1.4
		}
		if holiday {
			demand *= 1.6
		}
		// demand erodes when priced above the competitor
		if own > comp {
			demand *= 1 - 0.3*(own-comp)/comp
		}
		demand += rng.NormFloat64() * 20
		demand = math.Max(0, math.Min(demand, cfg.Capacity))

		// round first so revenue stays the exact product of the
		// recorded price and demand
		own = round2(own)
		comp = round2(comp)
		demand = round1(demand)

		out = append(out, domain.Observation{
			Date:            date,
			Season:          season,
			DayType:         dayType,
			Holiday:         holiday,
			OwnPrice:        own,
			CompetitorPrice: comp,
			Demand:          demand,
			Occupancy:       demand / cfg.Capacity,
			Revenue:         own * demand,
		})
	}
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
