package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/apperr"
	"github.com/aliasadad-hash/Journeyman/internal/auth"
	"github.com/aliasadad-hash/Journeyman/internal/httpclient"
	"github.com/aliasadad-hash/Journeyman/internal/models"
	"github.com/aliasadad-hash/Journeyman/internal/repository"
)

type AuthHandler struct {
	users      *repository.UserRepo
	sessions   *repository.SessionRepo
	maker      *auth.TokenMaker
	http       *httpclient.Client
	oauthURL   string
	sessionTTL time.Duration
	log        *zap.SugaredLogger
}

func NewAuthHandler(users *repository.UserRepo, sessions *repository.SessionRepo, maker *auth.TokenMaker,
	http *httpclient.Client, oauthURL string, sessionTTL time.Duration, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		sessions:   sessions,
		maker:      maker,
		http:       http,
		oauthURL:   oauthURL,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type oauthSessionRequest struct {
	SessionID string `json:"session_id"`
}

type oauthUserData struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Register creates an account with email and password and opens a
// session.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return badRequest(c, "email, password and name required")
	}

	user := models.NewUser(req.Email, req.Name)
	user.PasswordHash = auth.HashPassword(req.Password)
	if err := h.users.Insert(c.Context(), user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "email already registered"})
		}
		return fail(c, err)
	}

	token, err := h.openSession(c, user.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"user_id":             user.UserID,
		"email":               user.Email,
		"name":                user.Name,
		"onboarding_complete": false,
		"session_token":       token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	user, err := h.users.FindByCredentials(c.Context(), req.Email, auth.HashPassword(req.Password))
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
		}
		return fail(c, err)
	}

	token, err := h.openSession(c, user.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"user_id":             user.UserID,
		"email":               user.Email,
		"name":                user.Name,
		"picture":             user.Picture,
		"onboarding_complete": user.OnboardingComplete,
		"session_token":       token,
	})
}

// OAuthSession exchanges an OAuth provider session id for a local
// session, creating the account on first sign-in.
func (h *AuthHandler) OAuthSession(c *fiber.Ctx) error {
	var req oauthSessionRequest
	if err := c.BodyParser(&req); err != nil || req.SessionID == "" {
		return badRequest(c, "session_id required")
	}

	data, err := h.fetchOAuthUser(c.Context(), req.SessionID)
	if err != nil {
		h.log.Warnw("oauth session lookup failed", "err", err)
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid session"})
	}

	user, err := h.users.FindByEmail(c.Context(), data.Email)
	switch {
	case err == nil:
		update := bson.M{}
		if data.Name != "" {
			update["name"] = data.Name
		}
		if data.Picture != "" {
			update["picture"] = data.Picture
		}
		if len(update) > 0 {
			if err := h.users.Set(c.Context(), user.UserID, update); err != nil {
				return fail(c, err)
			}
		}
	case errors.Is(err, apperr.ErrNotFound):
		user = models.NewUser(data.Email, data.Name)
		user.Picture = data.Picture
		if err := h.users.Insert(c.Context(), user); err != nil {
			return fail(c, err)
		}
	default:
		return fail(c, err)
	}

	token, err := h.openSession(c, user.UserID)
	if err != nil {
		return fail(c, err)
	}
	fresh, err := h.users.FindByID(c.Context(), user.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"user_id":             fresh.UserID,
		"email":               fresh.Email,
		"name":                fresh.Name,
		"picture":             fresh.Picture,
		"onboarding_complete": fresh.OnboardingComplete,
		"session_token":       token,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.users.FindByID(c.Context(), auth.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(auth.CookieName)
	if token == "" {
		if h := c.Get("Authorization"); len(h) > 7 {
			token = h[7:]
		}
	}
	if token != "" {
		if _, jti, err := h.maker.Verify(token); err == nil {
			_ = h.sessions.Delete(c.Context(), jti)
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "logged out"})
}

// openSession writes the revocable session record, signs the token and
// sets the browser cookie.
func (h *AuthHandler) openSession(c *fiber.Ctx, userID string) (string, error) {
	jti := models.NewToken("sess")
	session := &models.Session{
		UserID:       userID,
		SessionToken: jti,
		ExpiresAt:    time.Now().Add(h.sessionTTL),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.sessions.Insert(c.Context(), session); err != nil {
		return "", err
	}
	token, expires, err := h.maker.Issue(userID, jti)
	if err != nil {
		return "", err
	}
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
	})
	return token, nil
}

func (h *AuthHandler) fetchOAuthUser(ctx context.Context, sessionID string) (*oauthUserData, error) {
	req, err := http.NewRequest(http.MethodGet, h.oauthURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := h.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.ErrUnauthorized
	}

	var data oauthUserData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.Email == "" {
		return nil, apperr.ErrUnauthorized
	}
	return &data, nil
}
