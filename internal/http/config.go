package http

import (
	"grantscope/internal/analytics"
	"grantscope/internal/auth"
	"grantscope/internal/config"
	"grantscope/internal/database"
	"grantscope/internal/projects"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database     *database.Database
	ProjectStore *projects.Store

	// Services behind the API
	ProjectService   *projects.Service
	AnalyticsService *analytics.Service

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	AuthConfig     config.Auth

	// Application info
	Version string
}
