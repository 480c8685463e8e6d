package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-trip-pipeline/docs"
	"go-trip-pipeline/internal/api/handler"
	"go-trip-pipeline/pkg/router"
)

func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/jobs", handler.CreateJob)
	r.GET("/api/v1/jobs", handler.ListJobs)
	// More specific routes first
	r.GET("/api/v1/jobs/*/errors", handler.GetJobErrors)
	r.GET("/api/v1/jobs/*/logs", handler.GetJobLogs)
	r.GET("/api/v1/jobs/*/results", handler.GetJobResults)
	// Generic job route last
	r.GET("/api/v1/jobs/*", handler.GetJob)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
