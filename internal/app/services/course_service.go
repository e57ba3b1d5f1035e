package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/unisphere-courses/internal/app/auth"
	"github.com/yigit/unisphere-courses/internal/app/discussion"
	"github.com/yigit/unisphere-courses/internal/app/models"
	"github.com/yigit/unisphere-courses/internal/app/models/dto"
	"github.com/yigit/unisphere-courses/internal/app/repositories"
	"github.com/yigit/unisphere-courses/internal/pkg/apperrors"
	"github.com/yigit/unisphere-courses/internal/pkg/logger"
	"github.com/yigit/unisphere-courses/internal/pkg/validation"
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	ListCourses(ctx context.Context, principal models.Principal, criteria repositories.CourseCriteria) ([]*models.Course, error)
	GetCourse(ctx context.Context, principal models.Principal, subject string, courseID int64) (*models.Course, error)
	CreateCourse(ctx context.Context, principal models.Principal, req dto.CreateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, principal models.Principal, subject string, courseID int64) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	store    repositories.CourseStore
	notifier discussion.Notifier
	idPolicy models.CourseIDPolicy
}

// NewCourseService creates a new course service instance. A nil notifier disables discussion sync.
func NewCourseService(store repositories.CourseStore, notifier discussion.Notifier, idPolicy models.CourseIDPolicy) CourseService {
	if notifier == nil {
		notifier = discussion.NoopNotifier{}
	}
	if idPolicy == "" {
		idPolicy = models.CourseIDClient
	}
	return &courseServiceImpl{
		store:    store,
		notifier: notifier,
		idPolicy: idPolicy,
	}
}

// ListCourses returns the courses matching criteria ordered by subject and id.
func (s *courseServiceImpl) ListCourses(ctx context.Context, principal models.Principal, criteria repositories.CourseCriteria) ([]*models.Course, error) {
	if err := auth.Authorize(auth.OpList, principal, nil).Err(); err != nil {
		return nil, err
	}

	courses, err := s.store.List(ctx, repositories.BuildFilter(criteria))
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return courses, nil
}

// GetCourse retrieves a single course
func (s *courseServiceImpl) GetCourse(ctx context.Context, principal models.Principal, subject string, courseID int64) (*models.Course, error) {
	if err := auth.Authorize(auth.OpRead, principal, nil).Err(); err != nil {
		return nil, err
	}

	course, err := s.store.Get(ctx, subject, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// validateCreate checks the payload and the courseID policy.
func (s *courseServiceImpl) validateCreate(req dto.CreateCourseRequest) error {
	fields := map[string]interface{}{}
	for field, msg := range validation.Struct(req) {
		fields[field] = msg
	}
	if s.idPolicy == models.CourseIDClient && req.CourseID == nil {
		fields["courseID"] = "courseID is required"
	}

	if len(fields) > 0 {
		return apperrors.NewValidationError("invalid course data", fields)
	}
	return nil
}

// CreateCourse stores a new course owned by principal and mirrors it to the
// Discussion Service. The mirror outcome never affects the result.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, principal models.Principal, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := auth.Authorize(auth.OpCreate, principal, nil).Err(); err != nil {
		return nil, err
	}

	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	course := req.ToModel()
	if s.idPolicy == models.CourseIDStore {
		course.CourseID = 0
	}
	creatorID := principal.ID
	course.CreatorID = &creatorID

	created, err := s.store.Create(ctx, course)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseAlreadyExists) {
			return nil, apperrors.NewValidationError("invalid course data", map[string]interface{}{
				"courseID": apperrors.ErrCourseAlreadyExists.Error(),
			})
		}
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	logger.Info().
		Str("course", created.Key()).
		Int64("creatorID", creatorID).
		Msg("Course created")

	s.notifier.OnCourseCreated(*created)
	return created, nil
}

// DeleteCourse removes a course and mirrors the removal to the Discussion
// Service. A missing course returns ErrCourseNotFound and triggers no sync.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, principal models.Principal, subject string, courseID int64) error {
	if err := auth.Authorize(auth.OpDelete, principal, nil).Err(); err != nil {
		return err
	}

	course, err := s.store.Get(ctx, subject, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error retrieving course: %w", err)
	}

	if err := s.store.Delete(ctx, subject, courseID); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			// Deleted concurrently; the other request owns the sync.
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error deleting course: %w", err)
	}

	logger.Info().
		Str("course", course.Key()).
		Int64("deletedBy", principal.ID).
		Msg("Course deleted")

	s.notifier.OnCourseDeleted(*course)
	return nil
}
