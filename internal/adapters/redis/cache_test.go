package redisad_test

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "roomify/internal/adapters/redis"
	"roomify/internal/domain"
)

func newTestCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0), mr
}

func TestCache_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	res := domain.OptimizationResult{
		OptimalPrice:     120,
		ProjectedRevenue: 8400,
		Occupancy:        0.35,
		Curve: []domain.PricePoint{
			{Price: 110, Revenue: 8000},
			{Price: 120, Revenue: 8400},
		},
	}
	if err := c.Set(ctx, "optimize:test", res, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got domain.OptimizationResult
	ok, err := c.Get(ctx, "optimize:test", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if got.OptimalPrice != 120 || got.ProjectedRevenue != 8400 || len(got.Curve) != 2 {
		t.Fatalf("unexpected cached value: %+v", got)
	}

	// stored under the pricing namespace, raw key untouched
	keys := mr.Keys()
	if len(keys) != 1 || !strings.HasPrefix(keys[0], "roomify:pricing:") {
		t.Fatalf("unexpected redis keys: %v", keys)
	}
}

func TestCache_MissAndDel(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var dst domain.OptimizationResult
	ok, err := c.Get(ctx, "nope", &dst)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected a miss")
	}

	if err := c.Set(ctx, "k", dst, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "k", &dst); ok {
		t.Fatal("expected a miss after delete")
	}
}
