package category

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CategoryCacheRepository keeps the per-event category listing in redis. Cache
// misses and redis failures both fall through to the database, so every method
// is best effort.
type CategoryCacheRepository interface {
	GetManyByEventID(ctx context.Context, eventID string) ([]Category, bool)
	SetManyByEventID(ctx context.Context, eventID string, categories []Category)
	DeleteByEventID(ctx context.Context, eventID string)
}

type categoryCacheRepository struct {
	logger *logrus.Logger
	rc     *redis.Client
	ttl    time.Duration
}

func NewCategoryCacheRepository(logger *logrus.Logger, rc *redis.Client, ttl time.Duration) CategoryCacheRepository {
	return &categoryCacheRepository{
		logger: logger,
		rc:     rc,
		ttl:    ttl,
	}
}

func cacheKey(eventID string) string {
	return fmt.Sprintf("nf-ticket:category-list:%s", eventID)
}

// GetManyByEventID implements CategoryCacheRepository.
func (r *categoryCacheRepository) GetManyByEventID(ctx context.Context, eventID string) ([]Category, bool) {
	raw, err := r.rc.Get(ctx, cacheKey(eventID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.WithContext(ctx).WithError(err).Warn("failed to read category listing cache")
		}
		return nil, false
	}

	var categories []Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		r.logger.WithContext(ctx).WithError(err).Warn("failed to decode category listing cache")
		return nil, false
	}

	return categories, true
}

// SetManyByEventID implements CategoryCacheRepository.
func (r *categoryCacheRepository) SetManyByEventID(ctx context.Context, eventID string, categories []Category) {
	raw, err := json.Marshal(categories)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Warn("failed to encode category listing cache")
		return
	}

	if err := r.rc.Set(ctx, cacheKey(eventID), raw, r.ttl).Err(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Warn("failed to write category listing cache")
	}
}

// DeleteByEventID implements CategoryCacheRepository.
func (r *categoryCacheRepository) DeleteByEventID(ctx context.Context, eventID string) {
	if err := r.rc.Del(ctx, cacheKey(eventID)).Err(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Warn("failed to invalidate category listing cache")
	}
}
