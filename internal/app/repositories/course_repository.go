package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/unisphere-courses/internal/app/models"
	"github.com/yigit/unisphere-courses/internal/pkg/apperrors"
	"github.com/yigit/unisphere-courses/internal/pkg/dberrors"
	"github.com/yigit/unisphere-courses/internal/pkg/logger"
)

// CourseStore is the storage collaborator for courses.
type CourseStore interface {
	List(ctx context.Context, pred CoursePredicate) ([]*models.Course, error)
	Get(ctx context.Context, subject string, courseID int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) (*models.Course, error)
	Delete(ctx context.Context, subject string, courseID int64) error
}

var courseColumns = []string{
	"course_id", "creator_id", "course_subject", "title", "instructor", "credits",
	"schedule", "room", "requirements", "description", "instruction_mode",
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(
		&c.CourseID, &c.CreatorID, &c.CourseSubject, &c.Title, &c.Instructor, &c.Credits,
		&c.Schedule, &c.Room, &c.Requirements, &c.Description, &c.InstructionMode,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the courses matching pred in subject, id order.
func (r *CourseRepository) List(ctx context.Context, pred CoursePredicate) ([]*models.Course, error) {
	query := r.sb.Select(courseColumns...).
		From("courses").
		OrderBy(CourseOrderBy...)
	if !pred.IsEmpty() {
		query = query.Where(pred)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// Get retrieves a course by subject and id.
func (r *CourseRepository) Get(ctx context.Context, subject string, courseID int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"course_subject": subject, "course_id": courseID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("subject", subject).Int64("courseID", courseID).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course: %w", err)
	}

	return course, nil
}

// Create inserts a course and returns the stored record. A zero CourseID lets
// the sequence assign one.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	values := map[string]interface{}{
		"creator_id":       course.CreatorID,
		"course_subject":   course.CourseSubject,
		"title":            course.Title,
		"instructor":       course.Instructor,
		"credits":          course.Credits,
		"schedule":         course.Schedule,
		"room":             course.Room,
		"requirements":     course.Requirements,
		"description":      course.Description,
		"instruction_mode": course.InstructionMode,
	}
	if course.CourseID != 0 {
		values["course_id"] = course.CourseID
	}

	sql, args, err := r.sb.Insert("courses").
		SetMap(values).
		Suffix("RETURNING " + strings.Join(courseColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return nil, fmt.Errorf("failed to build create course query: %w", err)
	}

	created, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrCourseAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create course query")
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	return created, nil
}

// Delete removes a course by subject and id.
func (r *CourseRepository) Delete(ctx context.Context, subject string, courseID int64) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"course_subject": subject, "course_id": courseID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete course SQL")
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("subject", subject).Int64("courseID", courseID).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}
