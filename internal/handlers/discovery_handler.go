package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/auth"
	"github.com/aliasadad-hash/Journeyman/internal/discovery"
	"github.com/aliasadad-hash/Journeyman/internal/geo"
	"github.com/aliasadad-hash/Journeyman/internal/models"
	"github.com/aliasadad-hash/Journeyman/internal/realtime"
	"github.com/aliasadad-hash/Journeyman/internal/repository"
)

const boostDuration = 30 * time.Minute

type DiscoveryHandler struct {
	users     *repository.UserRepo
	matches   *repository.MatchRepo
	schedules *repository.ScheduleRepo
	messages  *repository.MessageRepo
	router    *realtime.Router
	log       *zap.SugaredLogger
}

func NewDiscoveryHandler(users *repository.UserRepo, matches *repository.MatchRepo,
	schedules *repository.ScheduleRepo, messages *repository.MessageRepo,
	router *realtime.Router, log *zap.SugaredLogger) *DiscoveryHandler {
	return &DiscoveryHandler{
		users:     users,
		matches:   matches,
		schedules: schedules,
		messages:  messages,
		router:    router,
		log:       log,
	}
}

// Discover returns the swipe feed: candidates the caller has not acted
// on, boosted profiles first, hot travelers floated to the top.
func (h *DiscoveryHandler) Discover(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	me, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	acted, err := h.matches.ActedTargets(c.Context(), userID, 500)
	if err != nil {
		return fail(c, err)
	}

	filter := repository.DiscoverFilter{
		ExcludeIDs: append(acted, userID),
		MinAge:     c.QueryInt("min_age", 0),
		MaxAge:     c.QueryInt("max_age", 0),
		Skip:       int64(c.QueryInt("skip", 0)),
		Limit:      int64(c.QueryInt("limit", 20)),
	}
	if p := c.Query("professions"); p != "" {
		for _, prof := range strings.Split(p, ",") {
			if prof = strings.ToLower(strings.TrimSpace(prof)); prof != "" {
				filter.Professions = append(filter.Professions, prof)
			}
		}
	}

	users, err := h.users.Discover(c.Context(), filter)
	if err != nil {
		return fail(c, err)
	}

	annotateDistances(me, users)
	if err := h.annotateHotTravelers(c, users); err != nil {
		return fail(c, err)
	}

	if maxDist := c.QueryInt("max_distance", 0); maxDist > 0 && me.Latitude != nil {
		users = filterByDistance(users, float64(maxDist))
	}
	if c.QueryBool("hot_travelers_only", false) {
		users = filterHot(users)
	}
	discovery.SortHotFirst(users)

	return c.JSON(fiber.Map{
		"users":               users,
		"count":               len(users),
		"hot_travelers_count": countHot(users),
	})
}

// Nearby powers the map view: everyone with a location inside the
// radius, hot travelers first, then nearest.
func (h *DiscoveryHandler) Nearby(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	me, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	if me.Latitude == nil {
		return c.JSON(fiber.Map{"users": []*models.User{}, "message": "Location not set"})
	}
	radius := float64(c.QueryInt("radius", 50))

	candidates, err := h.users.FindWithLocation(c.Context(), userID, 100)
	if err != nil {
		return fail(c, err)
	}

	var nearby []*models.User
	for _, u := range candidates {
		if u.Latitude == nil {
			continue
		}
		d := geo.DistanceMiles(*me.Latitude, *me.Longitude, *u.Latitude, *u.Longitude)
		if d <= radius {
			u.Distance = &d
			nearby = append(nearby, u)
		}
	}

	if err := h.annotateHotTravelers(c, nearby); err != nil {
		return fail(c, err)
	}
	discovery.SortHotFirstByDistance(nearby)

	return c.JSON(fiber.Map{
		"users":               nearby,
		"count":               len(nearby),
		"hot_travelers_count": countHot(nearby),
	})
}

// Action records a like, super like, or pass. A reciprocal like makes
// a mutual match: both sides get a durable new_match notification with
// a live delivery attempt.
func (h *DiscoveryHandler) Action(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	targetID := c.Query("target_user_id")
	action := c.Query("action")

	if targetID == "" {
		return badRequest(c, "target_user_id required")
	}
	if action != models.ActionLike && action != models.ActionSuperLike && action != models.ActionPass {
		return badRequest(c, "action must be 'like', 'super_like', or 'pass'")
	}

	me, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	if action == models.ActionSuperLike {
		if me.SuperLikesRemaining <= 0 {
			return badRequest(c, "no super likes remaining")
		}
		if err := h.users.IncSuperLikes(c.Context(), userID, -1); err != nil {
			return fail(c, err)
		}
	}

	if existing, err := h.matches.FindAction(c.Context(), userID, targetID); err != nil {
		return fail(c, err)
	} else if existing != nil {
		return badRequest(c, "already acted on this user")
	}

	if err := h.matches.Insert(c.Context(), models.NewMatch(userID, targetID, action)); err != nil {
		return fail(c, err)
	}

	isMatch := false
	if action == models.ActionLike || action == models.ActionSuperLike {
		if action == models.ActionSuperLike {
			h.notify(c, models.NewNotification(targetID, models.NotifSuperLike,
				"Someone Super Liked You!", me.Name+" super liked your profile!",
				map[string]any{"from_user_id": userID}))
		}

		reciprocal, err := h.matches.HasLike(c.Context(), targetID, userID)
		if err != nil {
			return fail(c, err)
		}
		if reciprocal {
			isMatch = true
			if err := h.matches.RecordMutual(c.Context(), userID, targetID); err != nil {
				return fail(c, err)
			}
			target, err := h.users.FindByID(c.Context(), targetID)
			if err != nil {
				return fail(c, err)
			}

			h.notify(c, models.NewNotification(userID, models.NotifNewMatch,
				"It's a Match!", "You and "+target.Name+" liked each other!",
				map[string]any{
					"matched_user_id":    targetID,
					"matched_user_name":  target.Name,
					"matched_user_photo": target.ProfilePhoto,
				}))
			h.notify(c, models.NewNotification(targetID, models.NotifNewMatch,
				"It's a Match!", "You and "+me.Name+" liked each other!",
				map[string]any{
					"matched_user_id":    userID,
					"matched_user_name":  me.Name,
					"matched_user_photo": me.ProfilePhoto,
				}))
		}
	}

	return c.JSON(fiber.Map{"action": action, "is_match": isMatch})
}

// Boost raises the caller's discovery priority for thirty minutes.
func (h *DiscoveryHandler) Boost(c *fiber.Ctx) error {
	expires := timeNow().Add(boostDuration)
	if err := h.users.Set(c.Context(), auth.UserID(c), bson.M{
		"boost_active":  true,
		"boost_expires": expires,
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Boost activated", "expires_at": expires})
}

// Matches lists mutual matches with the last message in each
// conversation.
func (h *DiscoveryHandler) Matches(c *fiber.Ctx) error {
	userID := auth.UserID(c)

	liked, err := h.matches.LikedTargets(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	reciprocal, err := h.matches.LikesFromAny(c.Context(), liked, userID)
	if err != nil {
		return fail(c, err)
	}

	var matchedIDs []string
	for _, m := range reciprocal {
		matchedIDs = append(matchedIDs, m.UserID)
	}
	users, err := h.users.FindManyByIDs(c.Context(), matchedIDs)
	if err != nil {
		return fail(c, err)
	}

	for _, u := range users {
		convID := realtime.ConversationID(userID, u.UserID)
		last, err := h.messages.LastInConversation(c.Context(), convID)
		if err != nil {
			h.log.Warnw("last message lookup failed", "conversation_id", convID, "err", err)
			continue
		}
		u.LastMessage = last
	}

	return c.JSON(fiber.Map{"matches": users})
}

// LikesReceived lists users who liked the caller and have not been
// acted on yet.
func (h *DiscoveryHandler) LikesReceived(c *fiber.Ctx) error {
	userID := auth.UserID(c)

	likes, err := h.matches.LikesReceived(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	acted, err := h.matches.ActedTargets(c.Context(), userID, 1000)
	if err != nil {
		return fail(c, err)
	}
	actedSet := map[string]bool{}
	for _, id := range acted {
		actedSet[id] = true
	}

	superLikers := map[string]bool{}
	var pendingIDs []string
	for _, like := range likes {
		if actedSet[like.UserID] {
			continue
		}
		pendingIDs = append(pendingIDs, like.UserID)
		if like.Action == models.ActionSuperLike {
			superLikers[like.UserID] = true
		}
	}

	users, err := h.users.FindManyByIDs(c.Context(), pendingIDs)
	if err != nil {
		return fail(c, err)
	}
	for _, u := range users {
		u.IsSuperLike = superLikers[u.UserID]
	}

	return c.JSON(fiber.Map{"likes": users, "count": len(users)})
}

// OnlineStatus reports live presence for the caller's mutual matches.
// The in-memory registry is the source of truth here, not the mirrored
// user documents.
func (h *DiscoveryHandler) OnlineStatus(c *fiber.Ctx) error {
	userID := auth.UserID(c)

	partnerIDs, err := h.matches.MutualPartners(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	users, err := h.users.FindManyByIDs(c.Context(), partnerIDs)
	if err != nil {
		return fail(c, err)
	}

	type status struct {
		UserID       string     `json:"user_id"`
		Name         string     `json:"name"`
		ProfilePhoto string     `json:"profile_photo,omitempty"`
		Online       bool       `json:"online"`
		LastActive   *time.Time `json:"last_active,omitempty"`
	}
	out := make([]status, 0, len(users))
	for _, u := range users {
		out = append(out, status{
			UserID:       u.UserID,
			Name:         u.Name,
			ProfilePhoto: u.ProfilePhoto,
			Online:       h.router.Hub().IsOnline(u.UserID),
			LastActive:   u.LastActive,
		})
	}
	return c.JSON(fiber.Map{"users": out})
}

func (h *DiscoveryHandler) annotateHotTravelers(c *fiber.Ctx, users []*models.User) error {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}
	trips, err := discovery.HotTravelers(c.Context(), h.schedules, ids)
	if err != nil {
		return err
	}
	discovery.Annotate(users, trips)
	return nil
}

func (h *DiscoveryHandler) notify(c *fiber.Ctx, n *models.Notification) {
	if err := h.router.Notify(c.Context(), n); err != nil {
		h.log.Warnw("notification failed", "type", n.Type, "user_id", n.UserID, "err", err)
	}
}

func annotateDistances(me *models.User, users []*models.User) {
	if me.Latitude == nil {
		return
	}
	for _, u := range users {
		if u.Latitude != nil {
			d := geo.DistanceMiles(*me.Latitude, *me.Longitude, *u.Latitude, *u.Longitude)
			u.Distance = &d
		}
	}
}

func filterByDistance(users []*models.User, max float64) []*models.User {
	var out []*models.User
	for _, u := range users {
		if u.Distance == nil || *u.Distance <= max {
			out = append(out, u)
		}
	}
	return out
}

func filterHot(users []*models.User) []*models.User {
	var out []*models.User
	for _, u := range users {
		if u.HotTraveler {
			out = append(out, u)
		}
	}
	return out
}

func countHot(users []*models.User) int {
	n := 0
	for _, u := range users {
		if u.HotTraveler {
			n++
		}
	}
	return n
}
