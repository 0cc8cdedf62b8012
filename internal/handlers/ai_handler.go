package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/ai"
	"github.com/aliasadad-hash/Journeyman/internal/auth"
	"github.com/aliasadad-hash/Journeyman/internal/repository"
)

type AIHandler struct {
	svc     *ai.Service
	users   *repository.UserRepo
	matches *repository.MatchRepo
	log     *zap.SugaredLogger
}

func NewAIHandler(svc *ai.Service, users *repository.UserRepo, matches *repository.MatchRepo, log *zap.SugaredLogger) *AIHandler {
	return &AIHandler{svc: svc, users: users, matches: matches, log: log}
}

type bioRequest struct {
	Style string `json:"style"`
}

func (h *AIHandler) GenerateBio(c *fiber.Ctx) error {
	var req bioRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Style == "" {
		req.Style = "confident"
	}
	user, err := h.users.FindByID(c.Context(), auth.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	bio, err := h.svc.GenerateBio(c.Context(), user, req.Style)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"bio": bio, "style": req.Style})
}

type saveBioRequest struct {
	Bio string `json:"bio"`
}

func (h *AIHandler) SaveBio(c *fiber.Ctx) error {
	var req saveBioRequest
	if err := c.BodyParser(&req); err != nil || req.Bio == "" {
		return badRequest(c, "bio text required")
	}
	if err := h.users.Set(c.Context(), auth.UserID(c), bson.M{"bio": req.Bio}); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Bio saved successfully", "bio": req.Bio})
}

// IceBreakers generates openers for a match. Both sides must have
// liked each other.
func (h *AIHandler) IceBreakers(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	targetID := c.Params("user_id")

	matched, err := h.matches.AreMatched(c.Context(), userID, targetID)
	if err != nil {
		return fail(c, err)
	}
	if !matched {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "you can only get ice breakers for matches"})
	}

	me, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	target, err := h.users.FindByID(c.Context(), targetID)
	if err != nil {
		return fail(c, err)
	}

	breakers, err := h.svc.IceBreakers(c.Context(), me, target, 3)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"ice_breakers": breakers,
		"match_name":   firstNameOr(target.Name, "your match"),
	})
}

func (h *AIHandler) Compatibility(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	targetID := c.Params("user_id")
	if userID == targetID {
		return badRequest(c, "cannot calculate compatibility with yourself")
	}

	me, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	target, err := h.users.FindByID(c.Context(), targetID)
	if err != nil {
		return fail(c, err)
	}

	result, err := h.svc.Compatibility(c.Context(), me, target)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"score":               result.Score,
		"reasons":             result.Reasons,
		"conversation_topics": result.ConversationTopics,
		"user_name":           firstNameOr(target.Name, "User"),
	})
}

// CompatibilityBatch scores up to five users in one call. Individual
// model failures degrade to a default score rather than failing the
// whole request.
func (h *AIHandler) CompatibilityBatch(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	me, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	var ids []string
	for _, raw := range strings.Split(c.Query("user_ids"), ",") {
		id := strings.TrimSpace(raw)
		if id != "" && id != userID {
			ids = append(ids, id)
		}
		if len(ids) == 5 {
			break
		}
	}

	type batchEntry struct {
		UserID    string `json:"user_id"`
		UserName  string `json:"user_name"`
		Score     int    `json:"score"`
		TopReason string `json:"top_reason"`
	}
	results := make([]batchEntry, 0, len(ids))
	for _, id := range ids {
		target, err := h.users.FindByID(c.Context(), id)
		if err != nil {
			continue
		}
		entry := batchEntry{
			UserID:    id,
			UserName:  firstNameOr(target.Name, "User"),
			Score:     75,
			TopReason: "Fellow traveler",
		}
		if result, err := h.svc.Compatibility(c.Context(), me, target); err == nil {
			entry.Score = result.Score
			if len(result.Reasons) > 0 {
				entry.TopReason = result.Reasons[0]
			} else {
				entry.TopReason = "Compatible travelers"
			}
		} else {
			h.log.Warnw("batch compatibility failed", "target", id, "err", err)
		}
		results = append(results, entry)
	}

	return c.JSON(fiber.Map{"compatibilities": results})
}

type firstMessageRequest struct {
	Tone string `json:"tone"`
}

func (h *AIHandler) FirstMessage(c *fiber.Ctx) error {
	var req firstMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Tone == "" {
		req.Tone = "friendly"
	}

	me, err := h.users.FindByID(c.Context(), auth.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	target, err := h.users.FindByID(c.Context(), c.Params("user_id"))
	if err != nil {
		return fail(c, err)
	}

	msg, err := h.svc.FirstMessage(c.Context(), me, target, req.Tone)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msg)
}

func firstNameOr(full, fallback string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return fallback
	}
	return fields[0]
}
