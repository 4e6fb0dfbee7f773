package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"assetman/api/internal/models"
)

type countingStatsSource struct {
	calls int
	stats models.AssetStats
}

func (s *countingStatsSource) Stats(_ context.Context, _ string) (models.AssetStats, error) {
	s.calls++
	return s.stats, nil
}

func statsTestService(t *testing.T) (*AssetService, *countingStatsSource, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	source := &countingStatsSource{stats: models.AssetStats{
		TotalAssets: 12,
		TotalValue:  34500,
	}}
	return NewAssetService(source, client, nil, zerolog.Nop()), source, mr
}

func TestAssetServiceStats_CachesResult(t *testing.T) {
	svc, source, _ := statsTestService(t)
	ctx := context.Background()

	first, err := svc.Stats(ctx, "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	second, err := svc.Stats(ctx, "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if source.calls != 1 {
		t.Errorf("source queried %d times, want 1", source.calls)
	}
	if first.TotalAssets != second.TotalAssets || first.TotalValue != second.TotalValue {
		t.Errorf("cached stats differ: %+v vs %+v", first, second)
	}
}

func TestAssetServiceStats_ScopedKeys(t *testing.T) {
	svc, source, mr := statsTestService(t)
	ctx := context.Background()

	if _, err := svc.Stats(ctx, ""); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if _, err := svc.Stats(ctx, "usr_1"); err != nil {
		t.Fatalf("stats: %v", err)
	}

	if source.calls != 2 {
		t.Errorf("source queried %d times, want 2 for distinct scopes", source.calls)
	}
	if !mr.Exists("stats:all") || !mr.Exists("stats:user:usr_1") {
		t.Errorf("expected both cache keys, have %v", mr.Keys())
	}
}

func TestAssetServiceStats_CacheExpiry(t *testing.T) {
	svc, source, mr := statsTestService(t)
	ctx := context.Background()

	if _, err := svc.Stats(ctx, ""); err != nil {
		t.Fatalf("stats: %v", err)
	}
	mr.FastForward(statsCacheTTL + time.Second)
	if _, err := svc.Stats(ctx, ""); err != nil {
		t.Fatalf("stats: %v", err)
	}

	if source.calls != 2 {
		t.Errorf("source queried %d times, want recompute after expiry", source.calls)
	}
}

func TestAssetServiceWarrantyRegistered_NoClient(t *testing.T) {
	svc := NewAssetService(&countingStatsSource{}, nil, nil, zerolog.Nop())
	if svc.WarrantyRegistered(context.Background(), "ast_1") {
		t.Errorf("registered reported true without a registry client")
	}
}
