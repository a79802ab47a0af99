package http

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cmv-api/internal/application/dto"
	"github.com/jhoicas/cmv-api/internal/domain"
)

// localsError clave de Locals donde queda el error interno para el access log.
const localsError = "handler_error"

// writeError traduce errores de dominio a ErrorResponse con el status correspondiente.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("INVALID_RANGE", err.Error()))
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("VALIDATION", err.Error()))
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.NewErrorResponse("NOT_FOUND", err.Error()))
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.NewErrorResponse("DUPLICATE", err.Error()))
	default:
		c.Locals(localsError, err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewErrorResponse("INTERNAL", "error interno"))
	}
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse(code, msg))
}

// paramID lee :id como int64 positivo.
func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ── Validación ────────────────────────────────────────────────────────────────

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportar los campos con su nombre JSON.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage resume los errores del validador en un mensaje legible.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" es requerido")
		case "datetime":
			parts = append(parts, field+" debe tener formato YYYY-MM-DD")
		default:
			parts = append(parts, field+" no cumple "+fe.Tag()+"="+fe.Param())
		}
	}
	return strings.Join(parts, "; ")
}

// bindJSON decodifica el cuerpo JSON en out y aplica las reglas validate.
// Devuelve nil si la entrada es válida.
func bindJSON(c *fiber.Ctx, out any) *dto.ErrorResponse {
	if err := c.BodyParser(out); err != nil {
		return dto.NewErrorResponse("INVALID_BODY", "cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		return dto.NewErrorResponse("VALIDATION", validationMessage(err))
	}
	return nil
}
