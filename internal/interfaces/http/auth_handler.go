package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/auth"
	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
)

// AuthHandler maneja registro, login, reseteo de contraseña y validación de email.
type AuthHandler struct {
	uc *auth.AuthUseCase
	v  *validation.Validator
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, v *validation.Validator) *AuthHandler {
	return &AuthHandler{uc: uc, v: v}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "name, email, password, company_name"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := bind(c, h.v, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bind(c, h.v, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RequestPasswordReset godoc
// @Summary      Solicitar reseteo de contraseña
// @Description  Responde siempre el mismo mensaje, exista o no el email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PasswordResetRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/request-password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var in dto.PasswordResetRequest
	if err := bind(c, h.v, &in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: h.uc.RequestPasswordReset(c.UserContext(), in)})
}

// ResetPassword godoc
// @Summary      Restablecer contraseña con token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PasswordResetConfirm  true  "token, password"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.PasswordResetConfirm
	if err := bind(c, h.v, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.uc.ResetPassword(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Contraseña restablecida correctamente"})
}

// ValidateEmail godoc
// @Summary      Validar email con token
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateEmailRequest  true  "token"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/user/validation [put]
func (h *AuthHandler) ValidateEmail(c *fiber.Ctx) error {
	var in dto.ValidateEmailRequest
	if err := bind(c, h.v, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.uc.ValidateEmail(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Email validado correctamente"})
}
