// Package warranty talks to the external warranty registry assets are
// registered with.
package warranty

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"assetman/api/internal/config"
)

const listCacheKey = "warranty:list"

// Registration mirrors the registry's wire format.
type Registration struct {
	AssetExternalID string `json:"asset_external_id"`
	Name            string `json:"name"`
	SerialNumber    string `json:"serial_number"`
	Owner           string `json:"owner"`
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   *redis.Client
	cfg     config.WarrantyConfig
	log     zerolog.Logger
}

func NewClient(cfg config.WarrantyConfig, cache *redis.Client, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   cache,
		cfg:     cfg,
		log:     log,
	}
}

// Register submits a registration and invalidates the cached list.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	body, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("encode registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/warranties", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("registry returned %d", resp.StatusCode)
	}

	if c.cache != nil {
		if err := c.cache.Del(ctx, listCacheKey).Err(); err != nil {
			c.log.Warn().Err(err).Msg("warranty cache invalidation failed")
		}
	}
	return nil
}

// List returns all registrations, served from the redis cache when fresh.
func (c *Client) List(ctx context.Context) ([]Registration, error) {
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, listCacheKey).Bytes(); err == nil {
			var regs []Registration
			if err := json.Unmarshal(cached, &regs); err == nil {
				return regs, nil
			}
		}
	}

	regs, err := c.fetchList(ctx)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if encoded, err := json.Marshal(regs); err == nil {
			if err := c.cache.Set(ctx, listCacheKey, encoded, c.cfg.CacheTTL).Err(); err != nil {
				c.log.Warn().Err(err).Msg("warranty cache write failed")
			}
		}
	}
	return regs, nil
}

// IsRegistered reports whether an asset appears in the registry.
func (c *Client) IsRegistered(ctx context.Context, assetID string) (bool, error) {
	regs, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	for _, reg := range regs {
		if reg.AssetExternalID == assetID {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) fetchList(ctx context.Context) ([]Registration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/warranties", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned %d", resp.StatusCode)
	}

	// The registry answers either a bare array or {"results": [...]}.
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var regs []Registration
	if err := json.Unmarshal(raw, &regs); err == nil {
		return regs, nil
	}

	var wrapped struct {
		Results []Registration `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return wrapped.Results, nil
}
