package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/auth"
	"github.com/aliasadad-hash/Journeyman/internal/geo"
	"github.com/aliasadad-hash/Journeyman/internal/models"
	"github.com/aliasadad-hash/Journeyman/internal/repository"
)

const nearbyScheduleRadiusMiles = 100

type ScheduleHandler struct {
	schedules *repository.ScheduleRepo
	users     *repository.UserRepo
	log       *zap.SugaredLogger
}

func NewScheduleHandler(schedules *repository.ScheduleRepo, users *repository.UserRepo, log *zap.SugaredLogger) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, users: users, log: log}
}

func (h *ScheduleHandler) ListMine(c *fiber.Ctx) error {
	schedules, err := h.schedules.ListForUser(c.Context(), auth.UserID(c), 100)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"schedules": schedules})
}

type scheduleCreateRequest struct {
	Title         string   `json:"title"`
	Destination   string   `json:"destination"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Notes         string   `json:"notes"`
	LookingToMeet *bool    `json:"looking_to_meet"`
}

func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	var req scheduleCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Destination == "" || req.StartDate == "" || req.EndDate == "" {
		return badRequest(c, "destination, start_date and end_date required")
	}
	if req.EndDate < req.StartDate {
		return badRequest(c, "end_date must not precede start_date")
	}

	s := models.NewTravelSchedule(auth.UserID(c))
	s.Title = req.Title
	s.Destination = req.Destination
	s.Latitude = req.Latitude
	s.Longitude = req.Longitude
	s.StartDate = req.StartDate
	s.EndDate = req.EndDate
	s.Notes = req.Notes
	if req.LookingToMeet != nil {
		s.LookingToMeet = *req.LookingToMeet
	}

	if err := h.schedules.Insert(c.Context(), s); err != nil {
		return fail(c, err)
	}
	return c.JSON(s)
}

func (h *ScheduleHandler) Delete(c *fiber.Ctx) error {
	if err := h.schedules.Delete(c.Context(), c.Params("schedule_id"), auth.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Schedule deleted"})
}

func (h *ScheduleHandler) ListForUser(c *fiber.Ctx) error {
	schedules, err := h.schedules.ListForUser(c.Context(), c.Params("user_id"), 100)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"schedules": schedules})
}

// Nearby finds other users' upcoming trips within a hundred miles of
// the caller's location.
func (h *ScheduleHandler) Nearby(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	me, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	if me.Latitude == nil {
		return c.JSON(fiber.Map{"schedules": []*models.TravelSchedule{}})
	}

	daysAhead := c.QueryInt("days_ahead", 30)
	if daysAhead < 1 {
		daysAhead = 30
	}
	today := timeNow().Format("2006-01-02")
	future := timeNow().AddDate(0, 0, daysAhead).Format("2006-01-02")

	candidates, err := h.schedules.StartingWithin(c.Context(), userID, today, future, 100)
	if err != nil {
		return fail(c, err)
	}

	var nearby []*models.TravelSchedule
	for _, s := range candidates {
		if s.Latitude == nil {
			continue
		}
		d := geo.DistanceMiles(*me.Latitude, *me.Longitude, *s.Latitude, *s.Longitude)
		if d > nearbyScheduleRadiusMiles {
			continue
		}
		s.Distance = &d
		if u, err := h.users.FindByID(c.Context(), s.UserID); err == nil {
			s.User = u
		}
		nearby = append(nearby, s)
	}

	return c.JSON(fiber.Map{"schedules": nearby})
}
