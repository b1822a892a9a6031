package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// Store is a TTL-bounded key-value store backing the analysis cache.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// AnalysisCache memoizes analysis results by transcript content, so an
// identical transcript never pays for a second model call.
type AnalysisCache struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewAnalysisCache wraps a store with analysis-result serialization.
func NewAnalysisCache(store Store, ttl time.Duration, logger *zap.Logger) *AnalysisCache {
	return &AnalysisCache{store: store, ttl: ttl, logger: logger}
}

// Key derives the cache key from the transcript content.
func Key(transcript string) string {
	sum := sha256.Sum256([]byte(transcript))
	return "analysis:" + hex.EncodeToString(sum[:])
}

// Get returns the cached analysis for a transcript, if present. Cache errors
// are logged and treated as misses.
func (c *AnalysisCache) Get(ctx context.Context, transcript string) (*entities.AnalysisResult, bool) {
	raw, found, err := c.store.Get(ctx, Key(transcript))
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("analysis cache lookup failed", zap.Error(err))
		}
		return nil, false
	}
	if !found {
		return nil, false
	}

	var result entities.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		if c.logger != nil {
			c.logger.Warn("analysis cache entry is not decodable, ignoring", zap.Error(err))
		}
		return nil, false
	}
	return &result, true
}

// Put stores the analysis for a transcript. Failures are logged, never fatal.
func (c *AnalysisCache) Put(ctx context.Context, transcript string, result *entities.AnalysisResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, Key(transcript), string(payload), c.ttl); err != nil {
		if c.logger != nil {
			c.logger.Warn("analysis cache write failed", zap.Error(err))
		}
	}
}
