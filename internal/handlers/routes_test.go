package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/realtime"
)

func testApp() *fiber.App {
	lg := zap.NewNop().Sugar()
	return NewApp(Deps{
		Auth:          &AuthHandler{},
		Profile:       &ProfileHandler{},
		Discovery:     &DiscoveryHandler{},
		Chat:          &ChatHandler{},
		Schedules:     &ScheduleHandler{},
		Notifications: &NotificationHandler{},
		Media:         &MediaHandler{},
		Location:      &LocationHandler{},
		AI:            &AIHandler{},
		WS:            realtime.NewWSServer(nil, nil, lg),
		AuthGuard:     func(c *fiber.Ctx) error { return c.Next() },
		CORSOrigins:   []string{"http://localhost:3000"},
		Log:           lg,
	})
}

func TestRouteTable(t *testing.T) {
	app := testApp()
	routes := app.GetRoutes()

	want := []struct{ method, path string }{
		{fiber.MethodPost, "/api/auth/register"},
		{fiber.MethodGet, "/api/profile/views"},
		{fiber.MethodPost, "/api/discover/action"},
		{fiber.MethodPost, "/api/chat/:user_id"},
		{fiber.MethodPost, "/api/media/gallery"},
		{fiber.MethodDelete, "/api/media/gallery"},
		{fiber.MethodGet, "/api/gifs/trending"},
		{fiber.MethodPost, "/api/ai/generate-bio"},
		{fiber.MethodGet, "/ws/:user_id"},
	}
	for _, w := range want {
		found := false
		for _, r := range routes {
			if r.Method == w.method && r.Path == w.path {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("route %s %s not registered", w.method, w.path)
		}
	}
}
