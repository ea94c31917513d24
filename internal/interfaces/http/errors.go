package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/domain"
)

// Códigos de error de la API.
const (
	CodeMissingToken  = "MISSING_TOKEN"
	CodeInvalidToken  = "INVALID_TOKEN"
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeUserInactive  = "USER_INACTIVE"
	CodeValidation    = "VALIDATION"
	CodeInvalidBody   = "INVALID_BODY"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeDuplicate     = "DUPLICATE"
	CodeEmailExists   = "EMAIL_EXISTS"
	CodeInsufficient  = "INSUFFICIENT_STOCK"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternalError = "INTERNAL"
)

// errorMapping sentinel de dominio -> status HTTP y código. El orden importa:
// ErrUserNotFound y ErrEmailAlreadyExists van antes que sus genéricos.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrTokenMissing, fiber.StatusUnauthorized, CodeMissingToken},
	{domain.ErrTokenExpired, fiber.StatusUnauthorized, CodeTokenExpired},
	{domain.ErrTokenInvalid, fiber.StatusUnauthorized, CodeInvalidToken},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, CodeUnauthorized},
	{domain.ErrUserInactive, fiber.StatusForbidden, CodeUserInactive},
	{domain.ErrForbidden, fiber.StatusForbidden, CodeForbidden},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, CodeValidation},
	{domain.ErrUserNotFound, fiber.StatusNotFound, CodeNotFound},
	{domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, CodeEmailExists},
	{domain.ErrDuplicate, fiber.StatusConflict, CodeDuplicate},
	{domain.ErrInsufficientStock, fiber.StatusConflict, CodeInsufficient},
	{domain.ErrConflict, fiber.StatusConflict, CodeConflict},
	{domain.ErrRateLimited, fiber.StatusTooManyRequests, CodeRateLimited},
}

// errorStatus traduce err al status y código de la respuesta.
func errorStatus(err error) (int, string) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return fiber.StatusInternalServerError, CodeInternalError
}

// writeError responde con dto.ErrorResponse. Los 5xx se registran con la causa
// y al cliente solo le llega un mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno atendiendo la petición")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno, intente de nuevo"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Code:    code,
		Message: err.Error(),
		Details: detailsOf(err),
	})
}

// detailsOf arma el detalle por campo de un error de validación, o por línea
// cuando el caso de uso agrupó varios errores con multierr.
func detailsOf(err error) map[string]string {
	var ve *validationError
	if errors.As(err, &ve) {
		return ve.fields
	}
	errs := multierr.Errors(err)
	if len(errs) < 2 {
		return nil
	}
	details := make(map[string]string, len(errs))
	for i, e := range errs {
		details[strconv.Itoa(i)] = e.Error()
	}
	return details
}

// badRequest respuesta 400 para cuerpos o parámetros que ni siquiera se pueden leer.
func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler manejador de errores de Fiber para lo que no pasó por writeError
// (404 de rutas, panics recuperados, errores de middlewares).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternalError
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = CodeInvalidBody
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
