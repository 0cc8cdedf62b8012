package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/auth"
	"github.com/aliasadad-hash/Journeyman/internal/geo"
	"github.com/aliasadad-hash/Journeyman/internal/models"
	"github.com/aliasadad-hash/Journeyman/internal/realtime"
	"github.com/aliasadad-hash/Journeyman/internal/repository"
)

var icebreakerPrompts = []string{
	"Two truths and a lie about my travels...",
	"The best road trip snack is...",
	"My go-to karaoke song is...",
	"The most spontaneous thing I've done is...",
	"If I could live anywhere for a year, it would be...",
	"My ideal first date would be...",
	"The way to my heart is...",
	"I'm looking for someone who...",
	"My biggest adventure was...",
	"On weekends you'll find me...",
	"The key to my heart is...",
	"I geek out on...",
	"My simple pleasures include...",
	"Dating me is like...",
	"I'm convinced that...",
}

type ProfileHandler struct {
	users  *repository.UserRepo
	views  *repository.ViewRepo
	router *realtime.Router
	log    *zap.SugaredLogger
}

func NewProfileHandler(users *repository.UserRepo, views *repository.ViewRepo, router *realtime.Router, log *zap.SugaredLogger) *ProfileHandler {
	return &ProfileHandler{users: users, views: views, router: router, log: log}
}

type profileUpdateRequest struct {
	Name        *string              `json:"name"`
	Bio         *string              `json:"bio"`
	Profession  *string              `json:"profession"`
	Location    *string              `json:"location"`
	Latitude    *float64             `json:"latitude"`
	Longitude   *float64             `json:"longitude"`
	Age         *int                 `json:"age"`
	Interests   *[]string            `json:"interests"`
	Icebreakers *[]models.Icebreaker `json:"icebreakers"`
}

func (r *profileUpdateRequest) fields() bson.M {
	update := bson.M{}
	if r.Name != nil {
		update["name"] = *r.Name
	}
	if r.Bio != nil {
		update["bio"] = *r.Bio
	}
	if r.Profession != nil {
		update["profession"] = *r.Profession
	}
	if r.Location != nil {
		update["location"] = *r.Location
	}
	if r.Latitude != nil {
		update["latitude"] = *r.Latitude
	}
	if r.Longitude != nil {
		update["longitude"] = *r.Longitude
	}
	if r.Age != nil {
		update["age"] = *r.Age
	}
	if r.Interests != nil {
		update["interests"] = *r.Interests
	}
	if r.Icebreakers != nil {
		update["icebreakers"] = *r.Icebreakers
	}
	return update
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.FindByID(c.Context(), auth.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	return h.applyUpdate(c, false)
}

// CompleteOnboarding is Update plus flipping the onboarding flag, which
// admits the user into discovery feeds.
func (h *ProfileHandler) CompleteOnboarding(c *fiber.Ctx) error {
	return h.applyUpdate(c, true)
}

func (h *ProfileHandler) applyUpdate(c *fiber.Ctx, completeOnboarding bool) error {
	var req profileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	update := req.fields()
	if completeOnboarding {
		update["onboarding_complete"] = true
	}
	userID := auth.UserID(c)
	if len(update) > 0 {
		if err := h.users.Set(c.Context(), userID, update); err != nil {
			return fail(c, err)
		}
	}
	user, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

type photoUploadRequest struct {
	PhotoData string `json:"photo_data"`
	IsPrimary bool   `json:"is_primary"`
}

func (h *ProfileHandler) AddPhoto(c *fiber.Ctx) error {
	var req photoUploadRequest
	if err := c.BodyParser(&req); err != nil || req.PhotoData == "" {
		return badRequest(c, "photo_data required")
	}
	userID := auth.UserID(c)
	user, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.users.PushPhoto(c.Context(), userID, req.PhotoData); err != nil {
		return fail(c, err)
	}
	if req.IsPrimary || user.ProfilePhoto == "" {
		if err := h.users.Set(c.Context(), userID, bson.M{"profile_photo": req.PhotoData}); err != nil {
			return fail(c, err)
		}
	}
	return c.JSON(fiber.Map{"message": "Photo uploaded successfully", "photo_count": len(user.Photos) + 1})
}

func (h *ProfileHandler) DeletePhoto(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("photo_index")
	if err != nil {
		return badRequest(c, "invalid photo index")
	}
	userID := auth.UserID(c)
	user, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	if idx < 0 || idx >= len(user.Photos) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "photo not found"})
	}
	deleted := user.Photos[idx]
	remaining := append(append([]string{}, user.Photos[:idx]...), user.Photos[idx+1:]...)

	update := bson.M{"photos": remaining}
	if user.ProfilePhoto == deleted {
		if len(remaining) > 0 {
			update["profile_photo"] = remaining[0]
		} else {
			update["profile_photo"] = ""
		}
	}
	if err := h.users.Set(c.Context(), userID, update); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Photo deleted"})
}

func (h *ProfileHandler) RequestVerification(c *fiber.Ctx) error {
	vtype := c.Query("verification_type")
	if vtype != "photo" && vtype != "id" && vtype != "phone" {
		return badRequest(c, "invalid verification type")
	}
	if err := h.users.Set(c.Context(), auth.UserID(c), bson.M{
		"verified":          true,
		"verification_type": vtype,
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Verification successful", "verified": true})
}

// GetByID returns another user's profile with the distance to the
// viewer when both have locations.
func (h *ProfileHandler) GetByID(c *fiber.Ctx) error {
	me, err := h.users.FindByID(c.Context(), auth.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	user, err := h.users.FindByID(c.Context(), c.Params("user_id"))
	if err != nil {
		return fail(c, err)
	}
	if me.Latitude != nil && user.Latitude != nil {
		d := geo.DistanceMiles(*me.Latitude, *me.Longitude, *user.Latitude, *user.Longitude)
		user.Distance = &d
	}
	return c.JSON(user)
}

func (h *ProfileHandler) IcebreakerPrompts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"prompts": icebreakerPrompts})
}

func (h *ProfileHandler) UpdateSocialLinks(c *fiber.Ctx) error {
	var links models.SocialLinks
	if err := c.BodyParser(&links); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := h.users.Set(c.Context(), auth.UserID(c), bson.M{"social_links": links}); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Social links updated", "social_links": links})
}

func (h *ProfileHandler) GetSocialLinks(c *fiber.Ctx) error {
	user, err := h.users.FindByID(c.Context(), c.Params("user_id"))
	if err != nil {
		return fail(c, err)
	}
	links := user.SocialLinks
	if links == nil {
		links = &models.SocialLinks{}
	}
	return c.JSON(fiber.Map{"social_links": links})
}

// RecordView stores a profile view and notifies the viewed user when
// their settings allow it.
func (h *ProfileHandler) RecordView(c *fiber.Ctx) error {
	viewerID := auth.UserID(c)
	viewedID := c.Params("user_id")
	if viewerID == viewedID {
		return c.JSON(fiber.Map{"message": "Cannot view own profile"})
	}

	viewer, err := h.users.FindByID(c.Context(), viewerID)
	if err != nil {
		return fail(c, err)
	}
	view := &models.ProfileView{
		ViewID:    models.NewID("view"),
		ViewerID:  viewerID,
		ViewedID:  viewedID,
		CreatedAt: timeNow(),
	}
	if err := h.views.Insert(c.Context(), view); err != nil {
		return fail(c, err)
	}

	viewed, err := h.users.FindByID(c.Context(), viewedID)
	if err == nil && viewed.NotificationSettings != nil && viewed.NotificationSettings.ProfileViews {
		n := models.NewNotification(viewedID, models.NotifProfileView,
			"Profile View", viewer.Name+" viewed your profile",
			map[string]any{
				"from_user_id":    viewerID,
				"from_user_name":  viewer.Name,
				"from_user_photo": viewer.ProfilePhoto,
			})
		if err := h.router.Notify(c.Context(), n); err != nil {
			h.log.Warnw("profile view notification failed", "err", err)
		}
	}
	return c.JSON(fiber.Map{"message": "View recorded"})
}

// Views lists who viewed the caller's profile in the last N days.
func (h *ProfileHandler) Views(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 {
		days = 7
	}
	userID := auth.UserID(c)
	since := timeNow().AddDate(0, 0, -days)

	views, err := h.views.ViewsSince(c.Context(), userID, since, 50)
	if err != nil {
		return fail(c, err)
	}
	seen := map[string]bool{}
	var viewerIDs []string
	for _, v := range views {
		if !seen[v.ViewerID] {
			seen[v.ViewerID] = true
			viewerIDs = append(viewerIDs, v.ViewerID)
		}
	}
	viewers, err := h.users.FindManyByIDs(c.Context(), viewerIDs)
	if err != nil {
		return fail(c, err)
	}
	total, err := h.views.CountSince(c.Context(), userID, since)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"views": views, "viewers": viewers, "count": total})
}
