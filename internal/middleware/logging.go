package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger logs one structured event per request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("X-Request-ID", requestID)
		c.Locals("requestID", requestID)

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", latency).
			Str("ip", c.IP())

		if userID, ok := c.Locals("userID").(int64); ok && userID != 0 {
			event.Int64("user_id", userID)
		}
		if err != nil {
			event.Err(err)
		}
		event.Msg("request")

		return err
	}
}

// Recovery turns a panic into a logged 500 instead of a crashed process.
func Recovery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Locals("requestID").(string)
				log.Error().
					Str("request_id", requestID).
					Interface("panic", r).
					Str("path", c.Path()).
					Msg("panic recovered")

				_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"error": fiber.Map{
						"code":    "internal_server_error",
						"message": "internal server error",
					},
				})
			}
		}()
		return c.Next()
	}
}

// RequestID stamps every request with an X-Request-ID, generating one if
// the client didn't send it.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("X-Request-ID", requestID)
		c.Locals("requestID", requestID)
		return c.Next()
	}
}

// GetRequestID extracts the request ID stashed by RequestLogger/RequestID.
func GetRequestID(c *fiber.Ctx) string {
	requestID, _ := c.Locals("requestID").(string)
	return requestID
}

// LoggerWithFields returns a zerolog.Logger annotated with this request's id.
func LoggerWithFields(c *fiber.Ctx) zerolog.Logger {
	logger := log.With().Str("request_id", GetRequestID(c))
	if userID, ok := c.Locals("userID").(int64); ok && userID != 0 {
		logger = logger.Int64("user_id", userID)
	}
	return logger.Logger()
}
