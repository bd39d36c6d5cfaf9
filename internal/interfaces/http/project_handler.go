package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/usecase"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
)

// ProjectHandler maneja las peticiones HTTP para Project (protegido).
type ProjectHandler struct {
	uc *usecase.ProjectUseCase
	v  *validation.Validator
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *usecase.ProjectUseCase, v *validation.Validator) *ProjectHandler {
	return &ProjectHandler{uc: uc, v: v}
}

// Create godoc
// @Summary      Crear proyecto
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProjectRequest  true  "Datos del proyecto"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
	if err := bind(c, h.v, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar proyectos
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        clientId         query  string  false  "Filtrar por cliente"
// @Param        includeArchived  query  bool    false  "Incluir archivados"
// @Param        includeDeleted   query  bool    false  "Incluir eliminados"
// @Success      200  {object}  dto.ListResponse[dto.ProjectResponse]
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.List(c.UserContext(), GetUserID(c), usecase.ProjectQuery{
		ClientID:        c.Query("clientId"),
		IncludeArchived: c.QueryBool("includeArchived"),
		IncludeDeleted:  c.QueryBool("includeDeleted"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(items))
}

// GetByID godoc
// @Summary      Obtener proyecto por ID
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id               path   string  true   "ID del proyecto"
// @Param        includeArchived  query  bool    false  "Permitir archivados"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), c.Params("id"), c.QueryBool("includeArchived"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar proyecto
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del proyecto"
// @Param        body  body  dto.UpdateProjectRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProjectRequest
	if err := bind(c, h.v, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Archive godoc
// @Summary      Archivar proyecto
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/archive [patch]
func (h *ProjectHandler) Archive(c *fiber.Ctx) error {
	out, err := h.uc.Archive(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Recover godoc
// @Summary      Desarchivar proyecto
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/recover [patch]
func (h *ProjectHandler) Recover(c *fiber.Ctx) error {
	out, err := h.uc.Recover(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SoftDelete godoc
// @Summary      Eliminar proyecto (lógico)
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/soft [delete]
func (h *ProjectHandler) SoftDelete(c *fiber.Ctx) error {
	out, err := h.uc.SoftDelete(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Restore godoc
// @Summary      Restaurar proyecto eliminado
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/restore [patch]
func (h *ProjectHandler) Restore(c *fiber.Ctx) error {
	out, err := h.uc.Restore(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// HardDelete godoc
// @Summary      Eliminar proyecto (físico)
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) HardDelete(c *fiber.Ctx) error {
	if err := h.uc.HardDelete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Proyecto eliminado permanentemente"})
}
