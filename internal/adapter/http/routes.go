package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskflow/internal/adapter/http/handlers"
	"taskflow/internal/adapter/http/middleware"
)

type Handlers struct {
	Health *handlers.HealthHandler
	Tasks  *handlers.TaskHandler
	Parse  *handlers.ParseHandler
}

type RouteOptions struct {
	// ParseLimiter guards the parsing endpoints. Nil disables limiting.
	ParseLimiter gin.HandlerFunc
	// Gatherer backs GET /metrics. Nil leaves the route unregistered.
	Gatherer prometheus.Gatherer
}

func RegisterRoutes(r *gin.Engine, h Handlers, opts RouteOptions) {
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)

		api.GET("/tasks", h.Tasks.ListTasks)
		api.POST("/tasks", h.Tasks.CreateTask)
		api.POST("/tasks/batch", h.Tasks.CreateTasks)
		api.GET("/tasks/stats", h.Tasks.TaskStats)
		api.GET("/tasks/assignees", h.Tasks.ListAssignees)
		api.GET("/tasks/:id", h.Tasks.GetTask)
		api.PATCH("/tasks/:id", h.Tasks.UpdateTask)
		api.DELETE("/tasks/:id", h.Tasks.DeleteTask)

		parse := api.Group("/tasks")
		if opts.ParseLimiter != nil {
			parse.Use(opts.ParseLimiter)
		}
		parse.POST("/parse", h.Parse.ParseTask)
		parse.POST("/parse-transcript", h.Parse.ParseTranscript)
	}
}
