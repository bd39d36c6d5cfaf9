package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
)

// UserHandler perfil, empresa e invitaciones del usuario autenticado.
type UserHandler struct {
	users       *usecase.UserUseCase
	company     *usecase.CompanyUseCase
	invitations *usecase.InvitationUseCase
	v           *validation.Validator
}

// NewUserHandler construye el handler.
func NewUserHandler(users *usecase.UserUseCase, company *usecase.CompanyUseCase, invitations *usecase.InvitationUseCase, v *validation.Validator) *UserHandler {
	return &UserHandler{users: users, company: company, invitations: invitations, v: v}
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         user
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/user [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.users.Get(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil
// @Description  Un email nuevo deja la cuenta sin validar y envía un nuevo enlace de validación.
// @Tags         user
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateUserRequest  true  "name, email, password"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/user [patch]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := bind(c, h.v, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.users.Update(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetCompany godoc
// @Summary      Empresa del usuario
// @Tags         user
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Router       /api/user/company [get]
func (h *UserHandler) GetCompany(c *fiber.Ctx) error {
	out, err := h.company.Get(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateCompany godoc
// @Summary      Actualizar empresa
// @Tags         user
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateCompanyRequest  true  "Campos de la empresa"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/user/company [patch]
func (h *UserHandler) UpdateCompany(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := bind(c, h.v, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.company.Update(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña
// @Tags         user
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "current_password, new_password"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/user/change-password [patch]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := bind(c, h.v, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.users.ChangePassword(c.UserContext(), GetUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Contraseña actualizada correctamente"})
}

// SoftDeleteSelf godoc
// @Summary      Eliminar la propia cuenta (lógico)
// @Tags         user
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/user/me/soft-delete [patch]
func (h *UserHandler) SoftDeleteSelf(c *fiber.Ctx) error {
	if err := h.users.SoftDeleteSelf(c.UserContext(), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Usuario eliminado correctamente"})
}

// HardDelete godoc
// @Summary      Eliminar usuario (físico)
// @Tags         user
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/user/{id}/hard-delete [delete]
func (h *UserHandler) HardDelete(c *fiber.Ctx) error {
	if err := h.users.HardDelete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Usuario eliminado permanentemente"})
}

// Invite godoc
// @Summary      Invitar a la empresa
// @Tags         user
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InviteRequest  true  "email"
// @Success      201   {object}  dto.InviteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/user/invite-to-company [post]
func (h *UserHandler) Invite(c *fiber.Ctx) error {
	var in dto.InviteRequest
	if err := bind(c, h.v, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.invitations.Invite(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AcceptInvitation godoc
// @Summary      Aceptar invitación a empresa
// @Tags         user
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AcceptInvitationRequest  true  "token"
// @Success      200   {object}  dto.AcceptInvitationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/user/accept-company-invitation [post]
func (h *UserHandler) AcceptInvitation(c *fiber.Ctx) error {
	var in dto.AcceptInvitationRequest
	if err := bind(c, h.v, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.invitations.Accept(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
