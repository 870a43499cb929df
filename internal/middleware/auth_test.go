package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satu-n/sprig/internal/apperr"
)

// testApp mirrors the status mapping httpapi's server wires in production,
// so middleware errors surface with their real HTTP status in these tests.
func testApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if apperr.Is(err, apperr.BadRequest) {
				status = fiber.StatusBadRequest
			} else if apperr.Is(err, apperr.Unauthorized) {
				status = fiber.StatusUnauthorized
			}
			return c.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
		},
	})
}

func TestIssueAndValidateToken(t *testing.T) {
	tok, err := IssueToken(42, "Asia/Tokyo", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := validateToken(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "Asia/Tokyo", claims.TZ)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	tok, err := IssueToken(1, "UTC", "secret", time.Hour)
	require.NoError(t, err)

	_, err = validateToken(tok, "other")
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	tok, err := IssueToken(1, "UTC", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = validateToken(tok, "secret")
	assert.Error(t, err)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	app := testApp()
	app.Use(Auth(AuthConfig{JWTSecret: "secret"}))
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	tok, err := IssueToken(7, "UTC", "secret", time.Hour)
	require.NoError(t, err)

	app := testApp()
	app.Use(Auth(AuthConfig{JWTSecret: "secret"}))
	app.Get("/x", func(c *fiber.Ctx) error {
		id, err := UserID(c)
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, "UTC", TZ(c))
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
