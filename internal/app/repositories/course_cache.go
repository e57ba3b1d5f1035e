package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yigit/unisphere-courses/internal/app/models"
	"github.com/yigit/unisphere-courses/internal/pkg/logger"
)

const (
	courseListKeyPrefix = "courses:list"
	// courseGenerationKey is bumped on every mutation; list keys embed it, so a
	// bump orphans every cached listing at once.
	courseGenerationKey = "courses:generation"
)

// CachedCourseStore caches course listings in Redis in front of another store.
// Reads of a single course and all mutations go straight to the inner store.
// Cache failures are logged and fall through to the inner store.
type CachedCourseStore struct {
	inner CourseStore
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedCourseStore wraps inner with a Redis listing cache.
func NewCachedCourseStore(inner CourseStore, rdb *redis.Client, ttl time.Duration) *CachedCourseStore {
	return &CachedCourseStore{inner: inner, rdb: rdb, ttl: ttl}
}

func (s *CachedCourseStore) listKey(ctx context.Context, pred CoursePredicate) (string, error) {
	gen, err := s.rdb.Get(ctx, courseGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", courseListKeyPrefix, gen, pred.CacheKey()), nil
}

// List serves from cache when possible.
func (s *CachedCourseStore) List(ctx context.Context, pred CoursePredicate) ([]*models.Course, error) {
	key, err := s.listKey(ctx, pred)
	if err != nil {
		logger.Warn().Err(err).Msg("Course cache unavailable, reading from store")
		return s.inner.List(ctx, pred)
	}

	if val, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var courses []*models.Course
		if json.Unmarshal(val, &courses) == nil {
			return courses, nil
		}
	}

	courses, err := s.inner.List(ctx, pred)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(courses); err == nil {
		if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to cache course listing")
		}
	}
	return courses, nil
}

// Get reads through to the inner store.
func (s *CachedCourseStore) Get(ctx context.Context, subject string, courseID int64) (*models.Course, error) {
	return s.inner.Get(ctx, subject, courseID)
}

// Create writes through and invalidates cached listings.
func (s *CachedCourseStore) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	created, err := s.inner.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Delete writes through and invalidates cached listings.
func (s *CachedCourseStore) Delete(ctx context.Context, subject string, courseID int64) error {
	if err := s.inner.Delete(ctx, subject, courseID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedCourseStore) invalidate(ctx context.Context) {
	if err := s.rdb.Incr(ctx, courseGenerationKey).Err(); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate course listing cache")
	}
}
