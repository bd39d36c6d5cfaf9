package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/albaranes-api/internal/application/dto"
	"github.com/jhoicas/albaranes-api/internal/application/validation"
	"github.com/jhoicas/albaranes-api/internal/domain"
	"github.com/jhoicas/albaranes-api/pkg/logger"
)

// errInvalidBody el cuerpo no se pudo decodificar.
var errInvalidBody = errors.New("cuerpo inválido")

// bind decodifica el cuerpo JSON en out y aplica las etiquetas validate.
func bind(c *fiber.Ctx, v *validation.Validator, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return v.Struct(out)
}

// respondError traduce errores de dominio y validación a la respuesta HTTP.
// Los errores no reconocidos se devuelven tal cual para el ErrorHandler de Fiber.
func respondError(c *fiber.Ctx, err error) error {
	if ve, ok := validation.AsErrors(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "error de validación",
			Errors:  ve.Fields,
		})
	}
	status, code := classify(err)
	if status == 0 {
		return err
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// classify devuelve estado y código para los errores conocidos; 0 si no lo es.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidBody):
		return fiber.StatusBadRequest, "INVALID_BODY"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusBadRequest, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusBadRequest, "DUPLICATE"
	case errors.Is(err, domain.ErrInvalidToken):
		return fiber.StatusBadRequest, "INVALID_TOKEN"
	case errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusBadRequest, "INVALID_STATE"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	}
	return 0, ""
}

// ErrorHandler último recurso: *fiber.Error conserva su estado, el resto es 500.
// Fuera de producción el cuerpo incluye la cadena de errores envueltos.
func ErrorHandler(log *logger.Logger, exposeStack bool) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "NOT_FOUND"
			case fiber.StatusRequestEntityTooLarge:
				code = "PAYLOAD_TOO_LARGE"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			}
			if fe.Code >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error http")
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}

		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		resp := dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
		if exposeStack {
			resp.Message = err.Error()
			resp.Stack = errorChain(err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}

// NotFound respuesta para rutas no registradas.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Code:    "NOT_FOUND",
		Message: "Ruta no encontrada - " + c.OriginalURL(),
	})
}

func errorChain(err error) string {
	var parts []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n  <- ")
}
