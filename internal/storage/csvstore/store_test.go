package csvstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roomify/internal/domain"
	"roomify/internal/storage/csvstore"
)

func TestStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.csv")
	store := csvstore.New()
	ctx := context.Background()

	obs := []domain.Observation{
		{
			Date:            time.Date(2023, time.July, 4, 0, 0, 0, 0, time.UTC),
			Season:          domain.SeasonSummer,
			DayType:         domain.Weekday,
			Holiday:         true,
			OwnPrice:        189.50,
			CompetitorPrice: 172.25,
			Demand:          148.0,
			Occupancy:       0.74,
			Revenue:         189.50 * 148.0,
		},
		{
			Date:            time.Date(2023, time.November, 11, 0, 0, 0, 0, time.UTC),
			Season:          domain.SeasonFall,
			DayType:         domain.Weekend,
			OwnPrice:        120.00,
			CompetitorPrice: 131.00,
			Demand:          96.5,
			Occupancy:       0.4825,
			Revenue:         120.00 * 96.5,
		},
	}
	require.NoError(t, store.Save(ctx, path, obs))

	got, err := store.Load(ctx, path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.True(t, got[0].Holiday)
	require.Equal(t, domain.SeasonSummer, got[0].Season)
	require.Equal(t, domain.Weekday, got[0].DayType)
	require.InDelta(t, 189.50, got[0].OwnPrice, 1e-9)
	require.InDelta(t, 148.0, got[0].Demand, 1e-9)

	require.False(t, got[1].Holiday)
	require.Equal(t, domain.Weekend, got[1].DayType)
	require.Equal(t, "2023-11-11", got[1].Date.Format("2006-01-02"))
}

func TestStore_DerivesMissingColumns(t *testing.T) {
	// occupancy/revenue are informational; a dataset without them loads
	// with revenue derived as price × demand.
	path := filepath.Join(t.TempDir(), "minimal.csv")
	csvBody := "date,season,day_type,holiday,own_price,competitor_price,demand\n" +
		"2023-02-01,winter,weekday,no,100.00,110.00,40.0\n"
	require.NoError(t, os.WriteFile(path, []byte(csvBody), 0o644))

	got, err := csvstore.New().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.InDelta(t, 4000.0, got[0].Revenue, 1e-9)
}

func TestStore_UnknownCategoricalDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.csv")
	csvBody := "date,season,day_type,holiday,own_price,competitor_price,demand\n" +
		"2023-02-01,monsoon,Tuesday,no,100.00,110.00,40.0\n"
	require.NoError(t, os.WriteFile(path, []byte(csvBody), 0o644))

	got, err := csvstore.New().Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, domain.SeasonWinter, got[0].Season, "unknown season maps to the defined default")
	require.Equal(t, domain.Weekday, got[0].DayType, "day names parse to day types")
}

func TestStore_MissingColumnFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv")
	csvBody := "date,season,holiday,own_price,competitor_price,demand\n"
	require.NoError(t, os.WriteFile(path, []byte(csvBody), 0o644))

	_, err := csvstore.New().Load(context.Background(), path)
	require.ErrorContains(t, err, "day_type")
}
