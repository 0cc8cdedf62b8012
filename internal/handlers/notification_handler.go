package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/aliasadad-hash/Journeyman/internal/auth"
	"github.com/aliasadad-hash/Journeyman/internal/models"
	"github.com/aliasadad-hash/Journeyman/internal/repository"
)

type NotificationHandler struct {
	notifications *repository.NotificationRepo
	users         *repository.UserRepo
}

func NewNotificationHandler(notifications *repository.NotificationRepo, users *repository.UserRepo) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	unreadOnly := c.QueryBool("unread_only", false)
	items, err := h.notifications.ListForUser(c.Context(), auth.UserID(c), unreadOnly, 50)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"notifications": items})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	err := h.notifications.MarkRead(c.Context(), c.Params("notification_id"), auth.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkAllRead(c.Context(), auth.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.notifications.CountUnread(c.Context(), auth.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"unread_count": n})
}

func (h *NotificationHandler) GetSettings(c *fiber.Ctx) error {
	user, err := h.users.FindByID(c.Context(), auth.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	settings := user.NotificationSettings
	if settings == nil {
		defaults := models.DefaultNotificationSettings()
		settings = &defaults
	}
	return c.JSON(fiber.Map{"settings": settings})
}

func (h *NotificationHandler) UpdateSettings(c *fiber.Ctx) error {
	var settings models.NotificationSettings
	if err := c.BodyParser(&settings); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := h.users.Set(c.Context(), auth.UserID(c), bson.M{"notification_settings": settings}); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification settings updated", "settings": settings})
}
