package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// RouterConfig collects the handlers and cross-cutting pieces the router
// wires together.
type RouterConfig struct {
	Tokens        TokenParser
	CORSOrigins   string
	Logger        *zap.Logger
	Registrations *RegistrationHandler
	Finance       *FinanceHandler
	Events        *EventHandler
	Members       *MemberHandler
	Announcements *AnnouncementHandler
	Webhook       *WebhookHandler
}

// NewRouter assembles the fiber application. Routes under the authed group
// require a valid session token; webhook and login are open.
func NewRouter(cfg RouterConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.Logger != nil {
		app.Use(RequestLogger(cfg.Logger))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", HealthHandler)
	app.Post("/webhook/line", cfg.Webhook.Receive)
	app.Post("/auth/line", cfg.Members.LineLogin)

	authed := app.Group("/", RequireAuth(cfg.Tokens))

	authed.Get("/events", cfg.Events.List)
	authed.Get("/events/:id", cfg.Events.Get)
	authed.Post("/events", cfg.Events.Create)
	authed.Put("/events/:id", cfg.Events.Update)
	authed.Get("/events/:id/registrations", cfg.Registrations.ListForEvent)

	authed.Post("/registrations", cfg.Registrations.Register)
	authed.Post("/registrations/:id/cancel", cfg.Registrations.Cancel)
	authed.Get("/registrations/mine", cfg.Registrations.ListMine)

	authed.Post("/donations", cfg.Finance.CreateDonation)
	authed.Get("/donations/mine", cfg.Finance.ListMyDonations)
	authed.Post("/payments", cfg.Finance.CreatePayment)
	authed.Get("/payments/mine", cfg.Finance.ListMyPayments)

	authed.Post("/members/register", cfg.Members.CompleteRegistration)
	authed.Get("/members/me", cfg.Members.Me)
	authed.Put("/members/me/profile", cfg.Members.UpdateProfile)

	authed.Get("/announcements", cfg.Announcements.List)
	authed.Get("/announcements/:id", cfg.Announcements.Get)
	authed.Post("/announcements", cfg.Announcements.Create)
	authed.Put("/announcements/:id", cfg.Announcements.Update)

	authed.Get("/admin/messages", cfg.Webhook.ListMessages)

	return app
}
