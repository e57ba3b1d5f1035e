package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unisphere-courses/internal/app/auth"
	"github.com/yigit/unisphere-courses/internal/app/models"
	"github.com/yigit/unisphere-courses/internal/app/models/dto"
	"github.com/yigit/unisphere-courses/internal/app/repositories"
	"github.com/yigit/unisphere-courses/internal/app/services"
	"github.com/yigit/unisphere-courses/internal/middleware"
	"github.com/yigit/unisphere-courses/internal/pkg/apperrors"
)

// CourseController handles course-related operations
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// courseKey reads the subject and id path parameters. A courseID that is not
// an integer cannot address any course, so it is reported as not found once
// the caller has passed the role gate for op.
func courseKey(ctx *gin.Context, op auth.Operation, principal models.Principal) (string, int64, error) {
	id, err := strconv.ParseInt(ctx.Param("courseID"), 10, 64)
	if err != nil {
		if authErr := auth.Authorize(op, principal, nil).Err(); authErr != nil {
			return "", 0, authErr
		}
		return "", 0, apperrors.ErrCourseNotFound
	}
	return ctx.Param("courseSubject"), id, nil
}

// ListCourses lists courses, optionally filtered
// @Summary List courses
// @Description Lists courses ordered by subject then id. Subject, title and instructor match case-insensitive substrings; courseID matches exactly.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseSubject query string false "Subject substring"
// @Param courseID query string false "Exact course id"
// @Param title query string false "Title substring"
// @Param instructor query string false "Instructor substring"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Router /courses/ [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var query dto.CourseListQuery
	// Query values are plain strings, binding cannot fail on type.
	_ = ctx.ShouldBindQuery(&query)

	courses, err := c.courseService.ListCourses(ctx.Request.Context(), middleware.PrincipalFrom(ctx), repositories.CourseCriteria{
		CourseSubject: query.CourseSubject,
		CourseID:      query.CourseID,
		Title:         query.Title,
		Instructor:    query.Instructor,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(courses))
}

// GetCourse retrieves a course
// @Summary Get course details
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseSubject path string true "Course subject"
// @Param courseID path int true "Course id"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{courseSubject}/{courseID}/ [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	principal := middleware.PrincipalFrom(ctx)

	subject, id, err := courseKey(ctx, auth.OpRead, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course, err := c.courseService.GetCourse(ctx.Request.Context(), principal, subject, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(course))
}

// CreateCourse handles course creation
// @Summary Create a new course
// @Description Creates a course owned by the caller. Requires STAFF or ADMIN. creator_id is taken from the token.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Router /courses/ [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	principal := middleware.PrincipalFrom(ctx)

	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		// Authorization is decided before the payload is judged.
		if authErr := auth.Authorize(auth.OpCreate, principal, nil).Err(); authErr != nil {
			middleware.HandleAPIError(ctx, authErr)
			return
		}
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: invalid course data: %v", apperrors.ErrBadRequest, err))
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), principal, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(course))
}

// DeleteCourse deletes a course
// @Summary Delete a course
// @Description Deletes a course and removes its discussion thread. Requires STAFF or ADMIN.
// @Tags courses
// @Security BearerAuth
// @Param courseSubject path string true "Course subject"
// @Param courseID path int true "Course id"
// @Success 204 "Course deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{courseSubject}/{courseID}/ [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	principal := middleware.PrincipalFrom(ctx)

	subject, id, err := courseKey(ctx, auth.OpDelete, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), principal, subject, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
