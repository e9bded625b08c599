package casecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/klauspost/compress/zstd"

	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/metrics"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
)

var _ secondary.TestCaseGateway = (*CaseCache)(nil)

const (
	caseKeyPrefix   = "judge:cases:"
	defaultCacheTTL = 10 * time.Minute
)

// CaseCache is a read-through Redis cache in front of another TestCaseGateway.
// Entries are normalized case sets stored as zstd-compressed JSON. Redis
// failures never fail a load; the delegate is asked instead.
type CaseCache struct {
	redisClient *redis.Client
	delegate    secondary.TestCaseGateway
	ttl         time.Duration
	logger      primary.Logger
	encoder     *zstd.Encoder
	decoder     *zstd.Decoder
}

// NewCaseCache creates a new Redis case cache
func NewCaseCache(redisClient *redis.Client, delegate secondary.TestCaseGateway, ttl time.Duration, logger primary.Logger) (*CaseCache, error) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &CaseCache{
		redisClient: redisClient,
		delegate:    delegate,
		ttl:         ttl,
		logger:      logger,
		encoder:     encoder,
		decoder:     decoder,
	}, nil
}

func cacheKey(questionID int64) string {
	return fmt.Sprintf("%s%d", caseKeyPrefix, questionID)
}

func (c *CaseCache) LoadCaseSet(ctx context.Context, questionID int64) (domain.TestCaseSet, error) {
	key := cacheKey(questionID)

	data, err := c.redisClient.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		set, decodeErr := c.decode(data)
		if decodeErr == nil {
			metrics.CaseCacheLookups.WithLabelValues("hit").Inc()
			return set, nil
		}
		c.logger.Warn("Dropping undecodable cache entry", "questionId", questionID, "error", decodeErr)
		if err := c.redisClient.Del(ctx, key).Err(); err != nil {
			c.logger.Warn("Failed to drop undecodable cache entry", "questionId", questionID, "error", err)
		}
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("Case cache unavailable", "questionId", questionID, "error", err)
	}
	metrics.CaseCacheLookups.WithLabelValues("miss").Inc()

	set, err := c.delegate.LoadCaseSet(ctx, questionID)
	if err != nil {
		return domain.TestCaseSet{}, err
	}

	c.store(ctx, key, set)
	return set, nil
}

// Invalidate drops the cached case set of a question
func (c *CaseCache) Invalidate(ctx context.Context, questionID int64) error {
	if err := c.redisClient.Del(ctx, cacheKey(questionID)).Err(); err != nil {
		c.logger.Error("Failed to invalidate case cache", "questionId", questionID, "error", err)
		return fmt.Errorf("failed to invalidate case cache: %w", err)
	}
	return nil
}

func (c *CaseCache) store(ctx context.Context, key string, set domain.TestCaseSet) {
	payload, err := json.Marshal(set)
	if err != nil {
		c.logger.Warn("Failed to marshal case set", "key", key, "error", err)
		return
	}
	if err := c.redisClient.Set(ctx, key, c.encoder.EncodeAll(payload, nil), c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache case set", "key", key, "error", err)
	}
}

func (c *CaseCache) decode(data []byte) (domain.TestCaseSet, error) {
	payload, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return domain.TestCaseSet{}, fmt.Errorf("failed to decompress case set: %w", err)
	}
	var set domain.TestCaseSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return domain.TestCaseSet{}, fmt.Errorf("failed to unmarshal case set: %w", err)
	}
	return set, nil
}
