package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

var statusByKind = map[domain.Kind]int{
	domain.KindAuthentication: fiber.StatusUnauthorized,
	domain.KindAuthorization:  fiber.StatusForbidden,
	domain.KindValidation:     fiber.StatusBadRequest,
	domain.KindNotFound:       fiber.StatusNotFound,
	domain.KindConflict:       fiber.StatusConflict,
	domain.KindUnexpected:     fiber.StatusInternalServerError,
}

var codeByKind = map[domain.Kind]string{
	domain.KindAuthentication: "UNAUTHORIZED",
	domain.KindAuthorization:  "FORBIDDEN",
	domain.KindValidation:     "VALIDATION",
	domain.KindNotFound:       "NOT_FOUND",
	domain.KindConflict:       "CONFLICT",
	domain.KindUnexpected:     "INTERNAL",
}

// NewErrorHandler maps handler errors to the JSON error body. Domain errors use their kind;
// fiber errors (unknown route, body too large) keep their status.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: fe.Message, Code: utilsCode(fe.Code)})
		}
		kind := domain.KindOf(err)
		status := statusByKind[kind]
		if kind == domain.KindUnexpected {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: domain.PublicMessage(err), Code: codeByKind[kind]})
	}
}

func utilsCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case fiber.StatusBadRequest:
		return "INVALID_REQUEST"
	default:
		if status >= 500 {
			return "INTERNAL"
		}
		return "ERROR"
	}
}

// badBody is returned when the JSON body cannot be decoded.
func badBody(err error) error {
	return domain.Wrap(domain.KindValidation, err, "invalid request body")
}
