package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Masomatta/Afg-egov-portal/internal/api/http/handlers"
	"github.com/Masomatta/Afg-egov-portal/internal/auth"
	"github.com/Masomatta/Afg-egov-portal/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Citizen        *handlers.CitizenHandler
	Officer        *handlers.OfficerHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	citizen := app.Group("/citizen", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleCitizen))
	citizen.Get("/services", cfg.Citizen.ListServices)
	citizen.Post("/requests", cfg.Citizen.Apply)
	citizen.Get("/requests", cfg.Citizen.ListRequests)
	citizen.Get("/requests/:id", cfg.Citizen.GetRequest)
	citizen.Post("/requests/:id/pay", cfg.Citizen.Pay)
	citizen.Get("/notifications", cfg.Citizen.Notifications)

	officer := app.Group("/officer", cfg.AuthMiddleware.Handle, auth.RequireOfficerLevel())
	officer.Get("/requests", cfg.Officer.Worklist)
	officer.Get("/requests/:id", cfg.Officer.GetRequest)
	officer.Post("/requests/:id/decision", cfg.Officer.Decide)
	officer.Post("/requests/:id/assign", cfg.Officer.Assign)
	officer.Get("/stats", cfg.Officer.Stats)
	officer.Get("/department/officers", cfg.Officer.DepartmentOfficers)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", cfg.Admin.CreateUser)
	admin.Put("/users/:id", cfg.Admin.UpdateUser)
	admin.Delete("/users/:id", cfg.Admin.DeleteUser)
	admin.Get("/departments", cfg.Admin.ListDepartments)
	admin.Post("/departments", cfg.Admin.CreateDepartment)
	admin.Put("/departments/:id", cfg.Admin.UpdateDepartment)
	admin.Get("/services", cfg.Admin.ListServices)
	admin.Post("/services", cfg.Admin.CreateService)
	admin.Put("/services/:id", cfg.Admin.UpdateService)
	admin.Get("/requests", cfg.Admin.BrowseRequests)
	admin.Get("/overview", cfg.Admin.Overview)
	admin.Get("/reports", cfg.Admin.Report)
}
