package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/metrics"
	"github.com/aliasadad-hash/Journeyman/internal/middleware"
	"github.com/aliasadad-hash/Journeyman/internal/realtime"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Auth          *AuthHandler
	Profile       *ProfileHandler
	Discovery     *DiscoveryHandler
	Chat          *ChatHandler
	Schedules     *ScheduleHandler
	Notifications *NotificationHandler
	Media         *MediaHandler
	Location      *LocationHandler
	AI            *AIHandler
	WS            *realtime.WSServer
	AuthGuard     fiber.Handler
	RateLimiter   *middleware.RateLimiter
	CORSOrigins   []string
	Log           *zap.SugaredLogger
}

// NewApp builds the fiber application with every route mounted under
// /api and the realtime endpoint at /ws/:user_id.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(d.CORSOrigins, ","),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Session-ID",
	}))
	app.Use(requestLogger(d.Log))

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Journeyman API", "status": "ok"})
	})

	if d.RateLimiter != nil {
		api.Use(d.RateLimiter.ByIP())
	}

	// Auth. Everything below the guard requires a session.
	authGroup := api.Group("/auth")
	authGroup.Post("/register", d.Auth.Register)
	authGroup.Post("/login", d.Auth.Login)
	authGroup.Post("/session", d.Auth.OAuthSession)
	authGroup.Get("/me", d.AuthGuard, d.Auth.Me)
	authGroup.Post("/logout", d.Auth.Logout)

	secured := api.Group("", d.AuthGuard)

	// Profile.
	secured.Get("/profile", d.Profile.Get)
	secured.Put("/profile", d.Profile.Update)
	secured.Post("/profile/complete-onboarding", d.Profile.CompleteOnboarding)
	secured.Post("/profile/photo", d.Profile.AddPhoto)
	secured.Delete("/profile/photo/:photo_index", d.Profile.DeletePhoto)
	secured.Post("/profile/verify", d.Profile.RequestVerification)
	secured.Put("/profile/social-links", d.Profile.UpdateSocialLinks)
	secured.Get("/profile/views", d.Profile.Views)
	secured.Get("/profile/:user_id", d.Profile.GetByID)
	secured.Get("/profile/:user_id/social-links", d.Profile.GetSocialLinks)
	secured.Post("/profile/:user_id/view", d.Profile.RecordView)
	secured.Get("/icebreakers/prompts", d.Profile.IcebreakerPrompts)

	// Discovery.
	secured.Get("/discover", d.Discovery.Discover)
	secured.Get("/discover/nearby", d.Discovery.Nearby)
	secured.Post("/discover/action", d.Discovery.Action)
	secured.Post("/boost", d.Discovery.Boost)
	secured.Get("/matches", d.Discovery.Matches)
	secured.Get("/likes-received", d.Discovery.LikesReceived)
	secured.Get("/users/online-status", d.Discovery.OnlineStatus)

	// Chat.
	secured.Get("/conversations", d.Chat.Conversations)
	secured.Get("/chat/:user_id", d.Chat.History)
	secured.Post("/chat/:user_id", d.Chat.Send)
	secured.Post("/chat/:user_id/read", d.Chat.MarkRead)
	secured.Post("/chat/:user_id/typing", d.Chat.Typing)
	secured.Post("/chat/:user_id/media", d.Chat.SendMedia)
	secured.Post("/messages/:message_id/reaction", d.Chat.AddReaction)
	secured.Delete("/messages/:message_id/reaction", d.Chat.RemoveReaction)

	// Travel schedules.
	schedules := secured.Group("/schedules")
	schedules.Get("/", d.Schedules.ListMine)
	schedules.Post("/", d.Schedules.Create)
	schedules.Get("/nearby", d.Schedules.Nearby)
	schedules.Get("/user/:user_id", d.Schedules.ListForUser)
	schedules.Delete("/:schedule_id", d.Schedules.Delete)

	// Notifications.
	secured.Get("/notifications", d.Notifications.List)
	secured.Post("/notifications/read-all", d.Notifications.MarkAllRead)
	secured.Get("/notifications/unread-count", d.Notifications.UnreadCount)
	secured.Post("/notifications/:notification_id/read", d.Notifications.MarkRead)
	secured.Get("/settings/notifications", d.Notifications.GetSettings)
	secured.Put("/settings/notifications", d.Notifications.UpdateSettings)

	// Media and GIFs.
	secured.Post("/media/upload", d.Media.Upload)
	secured.Post("/media/profile-photo", d.Media.UploadProfilePhoto)
	secured.Post("/media/gallery", d.Media.AddGalleryPhoto)
	secured.Delete("/media/gallery", d.Media.RemoveGalleryPhoto)
	secured.Get("/media/status", d.Media.Status)
	secured.Get("/gifs/search", d.Media.SearchGifs)
	secured.Get("/gifs/trending", d.Media.TrendingGifs)

	// Location.
	secured.Get("/location/cities", d.Location.SearchCities)
	secured.Get("/location/reverse", d.Location.Reverse)

	// AI features.
	if d.AI != nil {
		aiGroup := secured.Group("/ai")
		aiGroup.Post("/generate-bio", d.AI.GenerateBio)
		aiGroup.Post("/save-generated-bio", d.AI.SaveBio)
		aiGroup.Get("/ice-breakers/:user_id", d.AI.IceBreakers)
		aiGroup.Get("/compatibility-batch", d.AI.CompatibilityBatch)
		aiGroup.Get("/compatibility/:user_id", d.AI.Compatibility)
		aiGroup.Post("/first-message/:user_id", d.AI.FirstMessage)
	}

	// Realtime. The upgrade check runs before the websocket handler.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/:user_id", websocket.New(d.WS.Handler()))

	return app
}

func requestLogger(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		log.Debugw("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"ip", c.IP(),
		)
		return err
	}
}
