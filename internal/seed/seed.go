package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/unisphere-courses/internal/app/models"
	appRepos "github.com/yigit/unisphere-courses/internal/app/repositories"
	"github.com/yigit/unisphere-courses/internal/pkg/apperrors"
)

// SampleCourses is the catalogue installed on an empty development database.
func SampleCourses() []appModels.Course {
	return []appModels.Course{
		{
			CourseID:        1,
			CourseSubject:   "COMPSCI",
			Title:           "Introduction to Computer Science",
			Instructor:      "Dr. Smith",
			Credits:         4,
			Schedule:        "MWF 10:00-11:00",
			Room:            "ENG 101",
			Requirements:    "None",
			Description:     "Foundations of programming and computational thinking.",
			InstructionMode: "In-person",
		},
		{
			CourseID:        2,
			CourseSubject:   "BIOLOGY",
			Title:           "Genetics",
			Instructor:      "Dr. Jones",
			Credits:         3,
			Schedule:        "TTh 13:00-14:30",
			Room:            "SCI 204",
			Requirements:    "BIOLOGY 1",
			Description:     "Principles of heredity and gene expression.",
			InstructionMode: "Hybrid",
		},
	}
}

// CreateSampleCourses inserts SampleCourses, skipping any whose courseID is taken.
// Seeded rows are not mirrored to the discussion service.
func CreateSampleCourses(ctx context.Context, store appRepos.CourseStore, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating sample courses...")
	var finalErr error

	for _, course := range SampleCourses() {
		c := course
		_, err := store.Create(ctx, &c)
		switch {
		case err == nil:
			lgr.Info().Str("course", c.Key()).Msg("Sample course created")
		case errors.Is(err, apperrors.ErrCourseAlreadyExists):
			lgr.Debug().Str("course", c.Key()).Msg("Sample course already present")
		default:
			lgr.Error().Err(err).Str("course", c.Key()).Msg("Error creating sample course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}
