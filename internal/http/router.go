package http

import (
	"github.com/gin-gonic/gin"

	"grantscope/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Auth endpoints are public; everything under /api except /api/auth
// requires a valid session cookie.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.ProjectStore, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	authController := auth.NewAuthController(cfg.AuthService, cfg.AuthConfig)
	authController.RegisterRoutes(router, cfg.AuthMiddleware)

	// Everything below is dashboard data and needs a session.
	api := router.Group("/api", cfg.AuthMiddleware.RequireAuth())

	projectsController := NewProjectsController(cfg.ProjectService)
	api.GET("/projects", projectsController.ListProjects)
	api.GET("/projects/search", projectsController.GetProject)

	analyticsController := NewAnalyticsController(cfg.AnalyticsService)
	api.GET("/analytics/dashboard", analyticsController.Dashboard)
	api.GET("/analytics/categories", analyticsController.Categories)
	api.GET("/analytics/timeline", analyticsController.Timeline)
	api.GET("/analytics/heatmap", analyticsController.Heatmap)
	api.GET("/analytics/gaps", analyticsController.Gaps)
	api.GET("/analytics/live-dashboard", analyticsController.LiveDashboard)
	api.GET("/analytics/category/:category", analyticsController.CategoryInsight)
	api.POST("/analytics/recommendations", analyticsController.Recommendations)
	api.POST("/analytics/calculator", analyticsController.Calculator)
	api.POST("/analytics/landscape", analyticsController.Landscape)
	api.POST("/analytics/timeline-planner", analyticsController.TimelinePlanner)
	api.POST("/analytics/success-patterns", analyticsController.SuccessPatterns)
	api.POST("/analytics/proposal-template", analyticsController.ProposalTemplate)

	api.POST("/predictor", analyticsController.PredictFunding)
	api.POST("/predictor/competitors", analyticsController.Competitors)

	return router
}
