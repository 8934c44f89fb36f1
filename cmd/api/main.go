package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	server "roomify/internal/adapters/http_server"
	"roomify/internal/adapters/observability"
	redisad "roomify/internal/adapters/redis"
	"roomify/internal/app"
	"roomify/internal/pricing"
	"roomify/internal/shared"
	"roomify/internal/storage/csvstore"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// deps
	store := csvstore.New()
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	ref := &app.ModelRef{}
	training := app.NewTrainingService(store, cfg.DatasetPath, ref, pricing.Options{
		Trees: cfg.ForestTrees,
		Seed:  cfg.TrainSeed,
	})
	opt := pricing.NewOptimizer(cfg.Workers)
	runner := pricing.NewRunner(opt, cfg.Workers)
	queries := app.NewPricingService(ref, cache, opt, runner, cfg.CacheTTL)

	// train on boot so the API is useful immediately; a failed run is
	// not fatal, the endpoints report 409 until a retrain succeeds
	if diag, err := training.Train(context.Background(), cfg.Capacity); err != nil {
		log.Warn().Err(err).Msg("initial training failed; POST /v1/model/train to retry")
	} else {
		log.Info().Float64("r2", diag.R2).Msg("initial model ready")
	}

	// http
	srv := server.New(cfg.APIRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{T: training, P: queries, DefaultCapacity: cfg.Capacity})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
