package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unisphere-courses/internal/app/models/dto"
)

// Pinger is a dependency whose availability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// SystemController serves the API overview and health endpoints
type SystemController struct {
	checks map[string]Pinger
}

// NewSystemController creates a new SystemController. checks are probed by Ready.
func NewSystemController(checks map[string]Pinger) *SystemController {
	return &SystemController{checks: checks}
}

// Overview lists the available endpoints
// @Summary API overview
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (c *SystemController) Overview(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"getCourses":   "/api/courses/",
		"getCourse":    "/api/courses/<courseSubject>/<courseID>/",
		"createCourse": "/api/courses/create/",
		"deleteCourse": "/api/courses/<courseSubject>/<courseID>/delete/",
	})
}

// Ping reports liveness
func (c *SystemController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Ready probes every dependency
// @Summary Readiness probe
// @Tags system
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 503 {object} dto.APIResponse
// @Router /health/ready [get]
func (c *SystemController) Ready(ctx *gin.Context) {
	probeCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(c.checks))
	for name, check := range c.checks {
		if err := check.Ping(probeCtx); err != nil {
			results[name] = "DOWN: " + err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "UP"
	}

	resp := dto.NewAPIResponse(results)
	resp.Success = status == http.StatusOK
	ctx.JSON(status, resp)
}
