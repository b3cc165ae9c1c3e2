package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/autoseo-dev/autoseo-api/internal/config"
	"github.com/autoseo-dev/autoseo-api/internal/handler"
	"github.com/autoseo-dev/autoseo-api/internal/middleware"
	"github.com/autoseo-dev/autoseo-api/internal/observability"
	"github.com/autoseo-dev/autoseo-api/internal/permissions"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ContentHandler         *handler.ContentHandler
	SchedulerHandler       *handler.SchedulerHandler
	RoleApplicationHandler *handler.RoleApplicationHandler
	AuditLogHandler        *handler.AuditLogHandler
	DashboardHandler       *handler.DashboardHandler
	Authorizer             *permissions.Authorizer
	JWTMiddleware          fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.ContentHandler != nil {
		content := app.Group("/api/content", jwtMiddleware, middleware.RequirePermission(permissions.PermissionContentView))
		deps.ContentHandler.Register(content)
	}

	if deps.SchedulerHandler != nil {
		schedulerGroup := app.Group("/api/scheduler", jwtMiddleware, middleware.RequirePrivileged(deps.Authorizer))
		deps.SchedulerHandler.Register(schedulerGroup)
	}

	if deps.RoleApplicationHandler != nil {
		applications := app.Group("/api/role-applications", jwtMiddleware, middleware.RateLimit("role_applications", 30, time.Minute))
		deps.RoleApplicationHandler.Register(applications)
	}

	if deps.AuditLogHandler != nil {
		audit := app.Group("/api/audit-logs", jwtMiddleware, middleware.RequirePermission(permissions.PermissionAuditLogsView))
		deps.AuditLogHandler.Register(audit)
	}

	if deps.DashboardHandler != nil {
		dashboard := app.Group("/api/dashboard", jwtMiddleware, middleware.RequirePermission(permissions.PermissionDashboardView))
		deps.DashboardHandler.Register(dashboard)
	}
}
