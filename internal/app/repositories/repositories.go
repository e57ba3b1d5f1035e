package repositories

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Repositories holds all the repository instances
type Repositories struct {
	// CourseRepository talks to Postgres directly.
	CourseRepository *CourseRepository
	// Courses is the store the services use: the repository, optionally behind the listing cache.
	Courses CourseStore
}

// NewRepositories initializes all repositories. A nil rdb disables the listing cache.
func NewRepositories(db *pgxpool.Pool, rdb *redis.Client, cacheTTL time.Duration) *Repositories {
	courseRepo := NewCourseRepository(db)

	var courses CourseStore = courseRepo
	if rdb != nil {
		courses = NewCachedCourseStore(courseRepo, rdb, cacheTTL)
	}

	return &Repositories{
		CourseRepository: courseRepo,
		Courses:          courses,
	}
}
