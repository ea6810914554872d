package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/timesheet-service/internal/api/http/handlers"
	"github.com/spec-kit/timesheet-service/internal/auth"
	"github.com/spec-kit/timesheet-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Departments    *handlers.DepartmentsHandler
	TimeEntries    *handlers.TimeEntriesHandler
	BillingRuns    *handlers.BillingRunsHandler
	Backoffice     *handlers.BackofficeHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	protected.Get("/departments", cfg.Departments.List)
	protected.Get("/departments/mine", cfg.Departments.Mine)

	protected.Post("/time-entries", cfg.TimeEntries.Create)
	protected.Get("/time-entries", cfg.TimeEntries.List)
	protected.Get("/time-entries/:id/history", cfg.TimeEntries.History)

	protected.Post("/billing-runs", cfg.BillingRuns.Create)
	protected.Get("/billing-runs/mine", cfg.BillingRuns.Mine)
	protected.Get("/billing-runs/:id", cfg.BillingRuns.Get)
	protected.Post("/billing-runs/:id/approve",
		auth.RequireRole(domain.RoleDepartmentHead), cfg.BillingRuns.Approve)

	backoffice := protected.Group("/backoffice", auth.RequireRole(domain.RoleBackOffice))
	backoffice.Get("/billing-runs", cfg.Backoffice.Queue)
	backoffice.Post("/billing-runs/:id/finalize", cfg.Backoffice.Finalize)
	backoffice.Get("/billing-runs/history", cfg.Backoffice.History)
}
