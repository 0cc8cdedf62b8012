package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aliasadad-hash/Journeyman/internal/models"
	"github.com/aliasadad-hash/Journeyman/internal/repository"
)

const (
	// CookieName is the browser session cookie.
	CookieName = "session_token"
	// LocalUserID is the fiber.Ctx local holding the authenticated user id.
	LocalUserID = "user_id"
)

type SessionChecker interface {
	Find(ctx context.Context, token string) (*models.Session, error)
}

type ActivityToucher interface {
	TouchActivity(ctx context.Context, userID string, at time.Time) error
}

// Middleware verifies the session token from the Authorization header
// or the session cookie, rejects revoked sessions, and records user
// activity.
func Middleware(maker *TokenMaker, sessions SessionChecker, users ActivityToucher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Cookies(CookieName)
		}
		if token == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "missing session token"})
		}

		userID, jti, err := maker.Verify(token)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid session token"})
		}

		// Session records are the revocation source of truth.
		if _, err := sessions.Find(c.Context(), jti); err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
		}

		c.Locals(LocalUserID, userID)

		if users != nil {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				_ = users.TouchActivity(ctx, userID, time.Now())
			}()
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id set by Middleware.
func UserID(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocalUserID).(string); ok {
		return v
	}
	return ""
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

var _ SessionChecker = (*repository.SessionRepo)(nil)
var _ ActivityToucher = (*repository.UserRepo)(nil)
