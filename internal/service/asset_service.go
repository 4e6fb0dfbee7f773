package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"assetman/api/internal/models"
	"assetman/api/internal/warranty"
)

const statsCacheTTL = time.Minute

// StatsSource abstracts the asset repository's aggregate query.
type StatsSource interface {
	Stats(ctx context.Context, ownerID string) (models.AssetStats, error)
}

type AssetService struct {
	assets   StatsSource
	cache    *redis.Client
	warranty *warranty.Client
	log      zerolog.Logger
}

func NewAssetService(assets StatsSource, cache *redis.Client, warrantyClient *warranty.Client, log zerolog.Logger) *AssetService {
	return &AssetService{
		assets:   assets,
		cache:    cache,
		warranty: warrantyClient,
		log:      log,
	}
}

func statsCacheKey(ownerID string) string {
	if ownerID == "" {
		return "stats:all"
	}
	return "stats:user:" + ownerID
}

// Stats serves dashboard numbers from redis when fresh and recomputes on miss.
func (s *AssetService) Stats(ctx context.Context, ownerID string) (models.AssetStats, error) {
	key := statsCacheKey(ownerID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var stats models.AssetStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return stats, nil
			}
		}
	}

	stats, err := s.assets.Stats(ctx, ownerID)
	if err != nil {
		return models.AssetStats{}, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, key, encoded, statsCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("stats cache write failed")
			}
		}
	}
	return stats, nil
}

// WarrantyRegistered consults the external registry; a registry outage is
// reported as "not registered" rather than failing the asset view.
func (s *AssetService) WarrantyRegistered(ctx context.Context, assetID string) bool {
	if s.warranty == nil {
		return false
	}
	registered, err := s.warranty.IsRegistered(ctx, assetID)
	if err != nil {
		s.log.Warn().Err(err).Str("asset_id", assetID).Msg("warranty lookup failed")
		return false
	}
	return registered
}

// RegisterWarranty submits a registration on behalf of an asset's owner.
func (s *AssetService) RegisterWarranty(ctx context.Context, asset models.Asset, ownerName string) error {
	return s.warranty.Register(ctx, warranty.Registration{
		AssetExternalID: asset.ID,
		Name:            asset.Name,
		SerialNumber:    "N/A",
		Owner:           ownerName,
	})
}
