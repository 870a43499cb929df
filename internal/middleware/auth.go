// Package middleware carries the HTTP-boundary concerns spec.md's core
// names but leaves to "the host": JWT verification, request logging,
// panic recovery and CORS. Grounded on csaptu-flow's pkg/middleware.
package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/satu-n/sprig/internal/apperr"
)

// Claims is the authenticated-user identity spec.md §5 names: an opaque
// token carrying {id: i64, tz: IANA-zone}.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"id"`
	TZ     string `json:"tz"`
}

// AuthConfig configures the Auth middleware.
type AuthConfig struct {
	JWTSecret string
}

// Auth verifies the Authorization: Bearer <token> header and stores the
// decoded identity in the request's locals.
func Auth(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return apperr.NewUnauthorized()
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return apperr.NewUnauthorized()
		}

		claims, err := validateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			return apperr.NewUnauthorized()
		}

		c.Locals("userID", claims.UserID)
		c.Locals("tz", claims.TZ)
		return c.Next()
	}
}

func validateToken(raw, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.NewUnauthorized()
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.NewUnauthorized()
	}
	return claims, nil
}

// IssueToken signs a new token for userID/tz, expiring after ttl.
func IssueToken(userID int64, tz, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		TZ:     tz,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// UserID extracts the authenticated user id from the request context.
func UserID(c *fiber.Ctx) (int64, error) {
	id, ok := c.Locals("userID").(int64)
	if !ok {
		return 0, apperr.NewUnauthorized()
	}
	return id, nil
}

// TZ extracts the authenticated user's timezone from the request context.
func TZ(c *fiber.Ctx) string {
	tz, _ := c.Locals("tz").(string)
	return tz
}
