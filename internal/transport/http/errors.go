package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

const (
	codeUnauthenticated    = "unauthenticated"
	codePermissionDenied   = "permission_denied"
	codeInvalidArgument    = "invalid_argument"
	codeNotFound           = "not_found"
	codeFailedPrecondition = "failed_precondition"
	codeResourceExhausted  = "resource_exhausted"
	codeAlreadyExists      = "already_exists"
	codeInternal           = "internal"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(errorResponse{Error: msg, Code: code})
}

// respondError maps a domain error to its HTTP status and stable code.
// Anything unrecognized is an internal failure; the message is not leaked.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return writeError(c, fiber.StatusUnauthorized, codeUnauthenticated, err.Error())
	case errors.Is(err, domain.ErrPermissionDenied):
		return writeError(c, fiber.StatusForbidden, codePermissionDenied, err.Error())
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrRegistrationNotFound),
		errors.Is(err, domain.ErrAnnouncementNotFound):
		return writeError(c, fiber.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrDeadlinePassed),
		errors.Is(err, domain.ErrAlreadyCancelled):
		return writeError(c, fiber.StatusBadRequest, codeFailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrEventFull):
		return writeError(c, fiber.StatusConflict, codeResourceExhausted, err.Error())
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return writeError(c, fiber.StatusConflict, codeAlreadyExists, err.Error())
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrCategoryRequired),
		errors.Is(err, domain.ErrMemberIDRequired),
		errors.Is(err, domain.ErrEventIDRequired),
		errors.Is(err, domain.ErrPayerNameRequired),
		errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrMobileRequired),
		errors.Is(err, domain.ErrTitleRequired):
		return writeError(c, fiber.StatusBadRequest, codeInvalidArgument, err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, codeInternal, "internal error")
	}
}
