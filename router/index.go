package router

import (
	"appliance_store/handler"
	"appliance_store/metrics"
	"appliance_store/middleware"
	"appliance_store/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	DB          *gorm.DB
	JWTSecret   []byte
	FrontendURL string
	DevMode     bool
	Log         *zap.Logger
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
}

// New builds the fiber app with the global middleware stack and every route.
func New(h *handler.Handler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(middleware.DevMode(opts.DevMode))
	app.Use(middleware.RequestLogger(opts.Log, opts.Metrics))
	origins := opts.FrontendURL
	if origins == "" {
		origins = "http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))

	SetupRoutes(app, h, opts)
	return app
}

func SetupRoutes(app *fiber.App, h *handler.Handler, opts Options) {
	protected := middleware.Protected(opts.JWTSecret)

	app.Get("/healthz", handler.Healthz(opts.DB))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", validate.Login(), h.Login)

	orders := api.Group("/orders", protected)
	orders.Post("/", validate.CreateOrder(), h.CreateOrder)
	orders.Get("/", validate.Pagination(), h.ListOrders)
	orders.Get("/:id", validate.GetById("id"), h.GetOrder)
	orders.Post("/:id/returns", validate.GetById("id"), validate.CreateReturn(), h.CreateReturn)

	coupons := api.Group("/coupons")
	coupons.Post("/validate/:code", validate.ValidateCoupon(), h.ValidateCoupon)

	pos := api.Group("/payment/virtual-pos")
	pos.Get("/configs", h.ListPosConfigs)
	pos.Post("/initiate", protected, validate.InitiatePayment(), h.InitiatePayment)
	pos.Get("/form/:transactionId", h.PaymentForm)
	pos.Post("/callback", validate.PaymentCallback(), h.PaymentCallback)
	pos.Get("/callback", validate.PaymentCallback(), h.PaymentCallback)

	admin := api.Group("/admin", protected, middleware.AdminOnly())
	admin.Patch("/orders/:id/status", validate.GetById("id"), validate.UpdateOrderStatus(), h.UpdateOrderStatus)
	admin.Patch("/orders/:id/tracking", validate.GetById("id"), validate.UpdateTrackingCode(), h.UpdateTrackingCode)
	admin.Post("/orders/:id/confirm-transfer", validate.GetById("id"), h.ConfirmBankTransfer)
	admin.Patch("/returns/:id", validate.GetById("id"), validate.ReturnDecision(), h.DecideReturn)
	admin.Get("/coupons", validate.Pagination(), h.ListCoupons)
	admin.Post("/coupons", validate.CreateCoupon(), h.CreateCoupon)
}
