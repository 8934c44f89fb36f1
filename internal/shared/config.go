package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	DatasetPath string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	Capacity    float64
	ForestTrees int
	TrainSeed   int64
	Workers     int
	APIRPS      int
	CacheTTL    time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		DatasetPath: env("DATASET_PATH", "sample_data/pricing_data.csv"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		Capacity:    float64(atoi("HOTEL_CAPACITY", 200)),
		ForestTrees: atoi("FOREST_TREES", 100),
		TrainSeed:   int64(atoi("TRAIN_SEED", 42)),
		Workers:     atoi("PRICING_WORKERS", 8),
		APIRPS:      atoi("API_RPS", 20),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if _, err := os.Stat(c.DatasetPath); err != nil {
		log.Warn().Str("path", c.DatasetPath).Msg("dataset file not found; run the datagen tool or point DATASET_PATH at one")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
