package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"roomify/internal/adapters/observability"
	"roomify/internal/datagen"
	"roomify/internal/shared"
	"roomify/internal/storage/csvstore"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	var (
		out   = flag.String("out", cfg.DatasetPath, "destination CSV path")
		days  = flag.Int("days", 730, "number of daily observations")
		seed  = flag.Int64("seed", cfg.TrainSeed, "rng seed")
		start = flag.String("start", "2022-01-01", "first observation date (YYYY-MM-DD)")
	)
	flag.Parse()

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatal().Err(err).Str("start", *start).Msg("bad -start date")
	}

	log.Info().
		Str("out", *out).
		Int("days", *days).
		Int64("seed", *seed).
		Msg("generating synthetic pricing history")

	obs := datagen.Generate(datagen.Config{
		Start:    startDate,
		Days:     *days,
		Capacity: cfg.Capacity,
		Seed:     *seed,
	})

	if err := csvstore.New().Save(context.Background(), *out, obs); err != nil {
		log.Fatal().Err(err).Msg("write dataset failed")
	}
	log.Info().Int("rows", len(obs)).Str("path", *out).Msg("dataset written")
}
