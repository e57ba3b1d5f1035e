package services

import (
	"github.com/yigit/unisphere-courses/internal/app/discussion"
	"github.com/yigit/unisphere-courses/internal/app/models"
	"github.com/yigit/unisphere-courses/internal/app/repositories"
)

// Services holds all the service instances
type Services struct {
	CourseService CourseService
}

// NewServices initializes all services
func NewServices(repos *repositories.Repositories, notifier discussion.Notifier, idPolicy models.CourseIDPolicy) *Services {
	return &Services{
		CourseService: NewCourseService(repos.Courses, notifier, idPolicy),
	}
}
