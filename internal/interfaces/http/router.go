package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/auth"
	"github.com/jhoicas/albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
	"github.com/jhoicas/albaranes-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	CompanyUC      *usecase.CompanyUseCase
	InvitationUC   *usecase.InvitationUseCase
	ClientUC       *usecase.ClientUseCase
	ProjectUC      *usecase.ProjectUseCase
	DeliveryNoteUC *deliverynote.UseCase
	Users          repository.UserRepository
	Validator      *validation.Validator
	JWTSecret      string
	// StorageDir si no está vacío se sirve como estático en /storage (almacenamiento local).
	StorageDir string
}

// Router registra las rutas de la API y el fallback 404. Debe llamarse después
// de registrar el resto de rutas de la aplicación.
func Router(app *fiber.App, deps RouterDeps) {
	v := deps.Validator
	if v == nil {
		v = validation.NewValidator()
	}

	if deps.StorageDir != "" {
		app.Static("/storage", deps.StorageDir)
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, v)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/request-password-reset", authHandler.RequestPasswordReset)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	api.Put("/user/validation", authHandler.ValidateEmail)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	active := RequireActiveUser(deps.Users)

	// Perfil propio: accesible aunque la cuenta esté eliminada.
	userHandler := NewUserHandler(deps.UserUC, deps.CompanyUC, deps.InvitationUC, v)
	user := protected.Group("/user")
	user.Get("/", userHandler.Me)
	user.Get("/me", userHandler.Me)
	user.Patch("/", userHandler.Update)
	user.Patch("/me", userHandler.Update)
	user.Patch("/me/soft-delete", userHandler.SoftDeleteSelf)
	user.Get("/company", active, userHandler.GetCompany)
	user.Patch("/company", active, userHandler.UpdateCompany)
	user.Patch("/change-password", active, userHandler.ChangePassword)
	user.Post("/invite-to-company", active, userHandler.Invite)
	user.Post("/accept-company-invitation", active, userHandler.AcceptInvitation)
	user.Delete("/:id/hard-delete", active, userHandler.HardDelete)

	// Clients
	clientHandler := NewClientHandler(deps.ClientUC, v)
	clients := protected.Group("/clients", active)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Patch("/:id", clientHandler.Update)
	clients.Delete("/:id/soft", clientHandler.SoftDelete)
	clients.Patch("/:id/recover", clientHandler.Recover)
	clients.Delete("/:id/hard", clientHandler.HardDelete)

	// Projects: archivado y borrado lógico son ejes distintos.
	projectHandler := NewProjectHandler(deps.ProjectUC, v)
	projects := protected.Group("/projects", active)
	projects.Post("/", projectHandler.Create)
	projects.Get("/", projectHandler.List)
	projects.Get("/:id", projectHandler.GetByID)
	projects.Put("/:id", projectHandler.Update)
	projects.Patch("/:id", projectHandler.Update)
	projects.Patch("/:id/archive", projectHandler.Archive)
	projects.Patch("/:id/recover", projectHandler.Recover)
	projects.Delete("/:id/soft", projectHandler.SoftDelete)
	projects.Patch("/:id/restore", projectHandler.Restore)
	projects.Delete("/:id", projectHandler.HardDelete)

	// Delivery notes
	noteHandler := NewDeliveryNoteHandler(deps.DeliveryNoteUC, v)
	notes := protected.Group("/deliverynotes", active)
	notes.Post("/", noteHandler.Create)
	notes.Get("/", noteHandler.List)
	notes.Get("/:id", noteHandler.GetByID)
	notes.Patch("/:id/sign", noteHandler.Sign)
	notes.Get("/:id/download-pdf", noteHandler.DownloadPDF)
	notes.Post("/:id/upload-signed-pdf", noteHandler.UploadSignedPDF)
	notes.Delete("/:id", noteHandler.SoftDelete)
	notes.Patch("/:id/recover", noteHandler.Recover)
	notes.Delete("/:id/hard", noteHandler.HardDelete)

	app.Use(NotFound)
}
