// Package cache provides a Redis-backed cache for period analyses.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"daily-journal-be/internal/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AnalysisCache is a cache-aside layer in front of the period_analyses table.
// Keys are scoped per user, period type and period start so invalidation can
// target a user's whole namespace with a single pattern delete.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAnalysisCache(client *redis.Client, ttl time.Duration) *AnalysisCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &AnalysisCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *AnalysisCache) key(userId uuid.UUID, period entity.AnalysisPeriod, periodStart time.Time) string {
	return fmt.Sprintf("analysis:%s:%s:%s", userId, period, periodStart.Format("2006-01-02"))
}

// Get returns the cached analysis or (nil, nil) on a miss.
func (c *AnalysisCache) Get(ctx context.Context, userId uuid.UUID, period entity.AnalysisPeriod, periodStart time.Time) (*entity.PeriodAnalysis, error) {
	if c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, c.key(userId, period, periodStart)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var analysis entity.PeriodAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		// Treat a corrupt entry as a miss, the next Set overwrites it
		return nil, nil
	}
	return &analysis, nil
}

func (c *AnalysisCache) Set(ctx context.Context, analysis *entity.PeriodAnalysis) error {
	if c.client == nil || analysis == nil {
		return nil
	}

	raw, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	return c.client.Set(ctx, c.key(analysis.UserId, analysis.PeriodType, analysis.PeriodStart), raw, c.ttl).Err()
}

// InvalidateUser drops every cached analysis belonging to a user. Called when
// one of their entries changes, since any period could contain that entry.
func (c *AnalysisCache) InvalidateUser(ctx context.Context, userId uuid.UUID) error {
	if c.client == nil {
		return nil
	}

	pattern := fmt.Sprintf("analysis:%s:*", userId)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache invalidate: %w", err)
		}
	}
	return iter.Err()
}
