package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/ChorusHQ/Chorus/app/controllers"
	"github.com/ChorusHQ/Chorus/internal/pkg/cache"
	"github.com/ChorusHQ/Chorus/internal/pkg/env"
	"github.com/ChorusHQ/Chorus/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// Webhooks authenticate via HMAC signature, not API keys.
	v1.Post("/webhooks/payments", controllers.HandlePaymentWebhook)

	authed := v1.Group("", middleware.APIKeyAuthMiddleware(), middleware.RequireAuth)

	admin := authed.Group("/admin", middleware.RequireAdmin)
	admin.Post("/flush-counters", controllers.HandleFlushCounters)

	members := authed.Group("/communities/:community/members")
	members.Get("/", controllers.HandleListMembers)
	members.Post("/", controllers.HandleCreateMember)
	members.Get("/:userId/events", controllers.HandleListMemberEvents)
	members.Patch("/:userId", controllers.HandleUpdateMember)
	members.Delete("/:userId", controllers.HandleRemoveMember)

	cases := authed.Group("/communities/:community/moderation-cases")
	cases.Post("/:caseId/acknowledge", controllers.HandleAcknowledgeEscalation)
	cases.Post("/:caseId/resolve", controllers.HandleResolveIncident)
}

// newLimiterStorage backs the rate limiter with Redis so limits hold across
// instances. Falls back to the limiter's in-memory default when no cache
// client is configured (tests).
func newLimiterStorage() fiber.Storage {
	cacheClient := cache.GetClient()
	if cacheClient == nil {
		return nil
	}
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	addr := cacheClient.Options().Addr
	if h, p, err := net.SplitHostPort(addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}
	if p := cacheClient.Options().Password; p != "" {
		password = p
	}
	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1, // keep limiter buckets out of the cache DB
		Reset:    false,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
