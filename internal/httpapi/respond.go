// Package httpapi is the thin handler-level glue SPEC_FULL.md's ambient
// stack section gives the core to run as a service: request decoding,
// identity extraction, response envelopes and route wiring. None of the
// domain logic lives here — every handler is a few lines deferring to
// acceptor/scheduler/repository.
package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/satu-n/sprig/internal/apperr"
)

// envelope is the one JSON shape every response takes, grounded on the
// teacher's common/dto.APIResponse.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(envelope{Success: true, Data: data})
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(envelope{Success: true, Data: data})
}

// errorHandler maps apperr.Error.Kind to an HTTP status, the way the
// teacher's common/errors.HTTPStatusCode maps AppError for fiber.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := apperr.Internal.String()
	message := "internal server error"

	var ae *apperr.Error
	if errors.As(err, &ae) {
		code = ae.Kind.String()
		message = ae.Error()
		switch ae.Kind {
		case apperr.BadRequest:
			status = fiber.StatusBadRequest
		case apperr.Unauthorized:
			status = fiber.StatusUnauthorized
		case apperr.Internal:
			status = fiber.StatusInternalServerError
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		code = "bad_request"
		message = fe.Message
	}

	return c.Status(status).JSON(envelope{
		Success: false,
		Error:   &apiError{Code: code, Message: message},
	})
}
