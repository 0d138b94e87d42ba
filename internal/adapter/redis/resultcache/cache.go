package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/secondary"
	"gitlab.com/meshopt-cloud.net/internal/domain"
)

const (
	resultKeyPrefix  = "result:"
	resultExpiration = 30 * time.Minute
)

var _ secondary.ResultCache = (*ResultCache)(nil)

// ResultCache implements the ResultCache interface with Redis. Entries expire
// so the cache only ever holds recent completions.
type ResultCache struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewResultCache creates a new Redis result cache
func NewResultCache(redisClient *redis.Client, logger primary.Logger) *ResultCache {
	return &ResultCache{
		redisClient: redisClient,
		logger:      logger,
	}
}

// SaveResult stores a completion result with expiration
func (c *ResultCache) SaveResult(ctx context.Context, result *domain.CompletionResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("Failed to marshal completion result", "error", err)
		return fmt.Errorf("failed to marshal completion result: %w", err)
	}

	resultKey := fmt.Sprintf("%s%s", resultKeyPrefix, result.JobID)
	if err := c.redisClient.Set(ctx, resultKey, resultJSON, resultExpiration).Err(); err != nil {
		c.logger.Error("Failed to save completion result", "error", err)
		return fmt.Errorf("failed to save completion result: %w", err)
	}

	return nil
}

// GetResult retrieves a cached completion result, or nil when absent
func (c *ResultCache) GetResult(ctx context.Context, jobID uuid.UUID) (*domain.CompletionResult, error) {
	resultKey := fmt.Sprintf("%s%s", resultKeyPrefix, jobID)
	resultJSON, err := c.redisClient.Get(ctx, resultKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Not cached
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get completion result: %w", err)
	}

	var result domain.CompletionResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal completion result: %w", err)
	}

	return &result, nil
}
