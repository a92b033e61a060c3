package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Trazabilidad-api/internal/application/auth"
	"github.com/jhoicas/Trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/Trazabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	DepartmentUC *usecase.DepartmentUseCase
	TrackingUC   *tracking.UseCase
	Sessions     auth.SessionStore
	Tokens       *jwt.Signer
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (Bearer Token + sesión activa)
	protected := api.Group("/", AuthMiddleware(deps.Tokens, deps.Sessions))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/password", authHandler.ChangePassword)

	orderHandler := NewOrderHandler(deps.TrackingUC)

	// Reparti: lectura para todos, escritura solo admin
	departments := protected.Group("/departments")
	departmentHandler := NewDepartmentHandler(deps.DepartmentUC)
	departments.Get("/", departmentHandler.List)
	departments.Post("/", adminOnly, departmentHandler.Create)
	departments.Delete("/:id", adminOnly, departmentHandler.Delete)
	departments.Get("/:id/orders/count", orderHandler.CountInDepartment)

	// Usuarios (admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/pending", userHandler.ListPending)
	users.Get("/", userHandler.ListApproved)
	users.Post("/:id/approve", userHandler.Approve)
	users.Put("/:id/role", userHandler.ChangeRole)
	users.Delete("/:id", userHandler.Delete)

	// Trazabilidad
	protected.Post("/tracking", orderHandler.Track)

	orders := protected.Group("/orders")
	orders.Get("/", orderHandler.List)
	orders.Get("/search", orderHandler.Search)
	orders.Get("/summary", orderHandler.Summary)
	orders.Get("/by-number/:number", orderHandler.GetByNumber)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/history", orderHandler.History)
	orders.Get("/:id/pdf", orderHandler.Card)
	orders.Post("/:id/move", orderHandler.Move)
	orders.Put("/:id/data", orderHandler.UpdateData)

	history := protected.Group("/history")
	history.Get("/recent", orderHandler.RecentHistory)
	history.Get("/export.csv", orderHandler.ExportCSV)
}
