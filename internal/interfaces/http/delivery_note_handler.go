package http

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
)

// signatureField campo multipart con la imagen de la firma.
const signatureField = "firma"

// DeliveryNoteHandler maneja las peticiones HTTP para albaranes (protegido).
type DeliveryNoteHandler struct {
	uc *deliverynote.UseCase
	v  *validation.Validator
}

// NewDeliveryNoteHandler construye el handler.
func NewDeliveryNoteHandler(uc *deliverynote.UseCase, v *validation.Validator) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{uc: uc, v: v}
}

// Create godoc
// @Summary      Crear albarán
// @Description  El cliente se toma del proyecto. Estado inicial Borrador o Emitido.
// @Tags         deliverynotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryNoteRequest  true  "Datos del albarán"
// @Success      201   {object}  dto.DeliveryNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deliverynotes [post]
func (h *DeliveryNoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryNoteRequest
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
// @Summary      Listar albaranes
// @Description  Ordenados por fecha de emisión descendente.
// @Tags         deliverynotes
// @Security     Bearer
// @Produce      json
// @Param        projectId       query  string  false  "Filtrar por proyecto"
// @Param        clientId        query  string  false  "Filtrar por cliente"
// @Param        includeDeleted  query  bool    false  "Incluir eliminados"
// @Success      200  {object}  dto.ListResponse[dto.DeliveryNoteResponse]
// @Router       /api/deliverynotes [get]
func (h *DeliveryNoteHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.List(c.UserContext(), GetUserID(c), deliverynote.ListQuery{
		ProjectID:      c.Query("projectId"),
		ClientID:       c.Query("clientId"),
		IncludeDeleted: c.QueryBool("includeDeleted"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(items))
}

// GetByID godoc
// @Summary      Obtener albarán por ID
// @Tags         deliverynotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del albarán"
// @Success      200  {object}  dto.DeliveryNoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliverynotes/{id} [get]
func (h *DeliveryNoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Sign godoc
// @Summary      Firmar albarán
// @Description  Imagen (image/*, máx. 5 MB) en el campo multipart "firma".
// @Tags         deliverynotes
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      string  true  "ID del albarán"
// @Param        firma  formData  file    true  "Imagen de la firma"
// @Success      200  {object}  dto.DeliveryNoteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliverynotes/{id}/sign [patch]
func (h *DeliveryNoteHandler) Sign(c *fiber.Ctx) error {
	var up deliverynote.SignatureUpload
	if fh, err := c.FormFile(signatureField); err == nil {
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("abrir firma: %w", err)
		}
		defer f.Close()
		// Se lee un byte de más para que el caso de uso detecte el exceso.
		data, err := io.ReadAll(io.LimitReader(f, deliverynote.MaxSignatureBytes+1))
		if err != nil {
			return fmt.Errorf("leer firma: %w", err)
		}
		up = deliverynote.SignatureUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Data:        data,
		}
	}
	out, err := h.uc.Sign(c.UserContext(), GetUserID(c), c.Params("id"), up)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar PDF del albarán
// @Tags         deliverynotes
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del albarán"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliverynotes/{id}/download-pdf [get]
func (h *DeliveryNoteHandler) DownloadPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.DownloadPDF(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdf)
}

// UploadSignedPDF godoc
// @Summary      Generar y guardar el PDF firmado
// @Tags         deliverynotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del albarán"
// @Success      200  {object}  dto.SignedPDFResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliverynotes/{id}/upload-signed-pdf [post]
func (h *DeliveryNoteHandler) UploadSignedPDF(c *fiber.Ctx) error {
	out, err := h.uc.UploadSignedPDF(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SoftDelete godoc
// @Summary      Eliminar albarán (lógico)
// @Description  No se permite en albaranes firmados o cancelados.
// @Tags         deliverynotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del albarán"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliverynotes/{id} [delete]
func (h *DeliveryNoteHandler) SoftDelete(c *fiber.Ctx) error {
	if err := h.uc.SoftDelete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Albarán eliminado correctamente"})
}

// Recover godoc
// @Summary      Recuperar albarán eliminado
// @Tags         deliverynotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del albarán"
// @Success      200  {object}  dto.DeliveryNoteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliverynotes/{id}/recover [patch]
func (h *DeliveryNoteHandler) Recover(c *fiber.Ctx) error {
	out, err := h.uc.Recover(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// HardDelete godoc
// @Summary      Eliminar albarán (físico)
// @Description  No se permite en albaranes firmados.
// @Tags         deliverynotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del albarán"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliverynotes/{id}/hard [delete]
func (h *DeliveryNoteHandler) HardDelete(c *fiber.Ctx) error {
	if err := h.uc.HardDelete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Albarán eliminado permanentemente"})
}
