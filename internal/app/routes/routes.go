package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unisphere-courses/internal/app/controllers"
	"github.com/yigit/unisphere-courses/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	systemController *controllers.SystemController,
	authMiddleware *middleware.AuthMiddleware,
	metricsHandler http.Handler,
) {
	// --- Health and metrics ---
	router.GET("/ping", systemController.Ping)
	router.GET("/health/ready", systemController.Ready)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := router.Group("/api")
	api.Use(authMiddleware.ResolvePrincipal())
	{
		api.GET("/", systemController.Overview)

		courses := api.Group("/courses")
		{
			courses.GET("/", courseController.ListCourses)
			courses.POST("/", courseController.CreateCourse)
			courses.GET("/:courseSubject/:courseID/", courseController.GetCourse)
			courses.DELETE("/:courseSubject/:courseID/", courseController.DeleteCourse)

			// Paths kept for clients of the earlier URL layout
			courses.POST("/create/", courseController.CreateCourse)
			courses.DELETE("/:courseSubject/:courseID/delete/", courseController.DeleteCourse)
		}
	}
}
