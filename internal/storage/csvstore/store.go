package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"roomify/internal/domain"
)

// Store reads and writes the historical dataset as a CSV file. The
// dataset is static tabular data; there is no other persistence layer.
type Store struct{}

func New() *Store { return &Store{} }

var _ domain.DatasetStore = (*Store)(nil)

const dateLayout = "2006-01-02"

var header = []string{
	"date", "season", "day_type", "holiday",
	"own_price", "competitor_price", "demand", "occupancy", "revenue",
}

// Load parses the dataset. Occupancy and revenue columns are
// informational; empty cells are derived from demand and price. Unknown
// season/day-type strings map to the winter/weekday defaults with a
// warning instead of failing the whole load.
func (s *Store) Load(ctx context.Context, path string) ([]domain.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	head, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col, err := columnIndex(head)
	if err != nil {
		return nil, err
	}

	var out []domain.Observation
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		line++

		obs, err := parseRow(rec, col, line)
		if err != nil {
			return nil, err
		}
		out = append(out, obs)
	}
	return out, nil
}

// Save writes observations with the canonical header, creating parent
// directories as needed.
func (s *Store) Save(ctx context.Context, path string, obs []domain.Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dataset dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, o := range obs {
		holiday := "no"
		if o.Holiday {
			holiday = "yes"
		}
		rec := []string{
			o.Date.Format(dateLayout),
			o.Season.String(),
			o.DayType.String(),
			holiday,
			strconv.FormatFloat(o.OwnPrice, 'f', 2, 64),
			strconv.FormatFloat(o.CompetitorPrice, 'f', 2, 64),
			strconv.FormatFloat(o.Demand, 'f', 1, 64),
			strconv.FormatFloat(o.Occupancy, 'f', 4, 64),
			strconv.FormatFloat(o.Revenue, 'f', 2, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func columnIndex(head []string) (map[string]int, error) {
	col := make(map[string]int, len(head))
	for i, h := range head {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"date", "season", "day_type", "holiday", "own_price", "competitor_price", "demand"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("dataset missing column %q", required)
		}
	}
	return col, nil
}

func parseRow(rec []string, col map[string]int, line int) (domain.Observation, error) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date, err := time.Parse(dateLayout, get("date"))
	if err != nil {
		return domain.Observation{}, fmt.Errorf("row %d: bad date %q: %w", line, get("date"), err)
	}

	season, ok := domain.ParseSeason(get("season"))
	if !ok {
		log.Warn().Int("row", line).Str("season", get("season")).Msg("unknown season, defaulting to winter")
	}
	dayType, ok := domain.ParseDayType(get("day_type"))
	if !ok {
		log.Warn().Int("row", line).Str("day_type", get("day_type")).Msg("unknown day type, defaulting to weekday")
	}

	own, err := strconv.ParseFloat(get("own_price"), 64)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("row %d: bad own_price: %w", line, err)
	}
	comp, err := strconv.ParseFloat(get("competitor_price"), 64)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("row %d: bad competitor_price: %w", line, err)
	}
	demand, err := strconv.ParseFloat(get("demand"), 64)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("row %d: bad demand: %w", line, err)
	}

	obs := domain.Observation{
		Date:            date,
		Season:          season,
		DayType:         dayType,
		Holiday:         parseBool(get("holiday")),
		OwnPrice:        own,
		CompetitorPrice: comp,
		Demand:          demand,
		Revenue:         own * demand,
	}
	if v := get("occupancy"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			obs.Occupancy = f
		}
	}
	if v := get("revenue"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			obs.Revenue = f
		}
	}
	return obs, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "yes", "true", "1", "y":
		return true
	}
	return false
}
