package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// userLookup es el contrato mínimo que necesita el middleware.
// Lo implementa repository.UserRepository.
type userLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// RequireActiveUser rechaza cuentas eliminadas. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → el usuario del token ya no existe.
//   - 403 Forbidden    → la cuenta está eliminada (borrado lógico).
func RequireActiveUser(users userLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
		}
		user, err := users.GetByID(c.UserContext(), userID)
		if err != nil {
			return err
		}
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "el usuario del token no existe"})
		}
		if user.IsDeleted {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la cuenta ha sido eliminada"})
		}
		return c.Next()
	}
}
