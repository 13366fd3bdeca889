package app

import (
	"sevatrust-backend/internal/cleanup"
	"sevatrust-backend/internal/collectors"
	"sevatrust-backend/internal/config"
	"sevatrust-backend/internal/donationheads"
	"sevatrust-backend/internal/donations"
	"sevatrust-backend/internal/emails"
	"sevatrust-backend/internal/health"
	"sevatrust-backend/internal/infrastructure/database"
	"sevatrust-backend/internal/middleware"
	"sevatrust-backend/internal/models"
	"sevatrust-backend/internal/otp"
	"sevatrust-backend/internal/payments"
	"sevatrust-backend/internal/receipts"
	"sevatrust-backend/internal/referrals"
	"sevatrust-backend/internal/sms"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// App bundles the HTTP app with the resources main must manage.
type App struct {
	Fiber   *fiber.App
	DB      *gorm.DB
	Rdb     *redis.Client
	Cleanup *cleanup.Scheduler
}

// CreateApp builds the Fiber app with all global middleware and route
// registration. The webhook route is mounted before everything else so the
// raw body reaches the signature check untouched.
func CreateApp(cfg *config.Config) (*App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS first.
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Payment webhook — mounted early; handler reads raw body +
	// X-Razorpay-Signature header. DB is wired in after database init below.
	receiptGen := &receipts.Generator{Dir: cfg.ReceiptDir}
	var emailSender emails.Sender
	if cfg.SendinblueAPIKey != "" {
		emailSender = &emails.BrevoClient{APIKey: cfg.SendinblueAPIKey, MailFrom: cfg.MailFrom}
	}
	webhook := &payments.WebhookHandler{
		WebhookSecret: cfg.RazorpayWebhookSecret,
		ReceiptPrefix: cfg.ReceiptPrefix,
		Receipts:      receiptGen,
		Emails:        emailSender,
	}
	app.Post("/api/v1/payments/webhook", webhook.HandleWebhook)

	// Redis; nil client degrades gracefully (rate limits open, no counters).
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		rdb = redis.NewClient(opts)
	}

	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.Database != "" {
		var err error
		db, err = database.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
	}
	webhook.DB = db

	// Health (no auth).
	healthService := &health.Service{DB: db, Rdb: rdb}
	healthHandlers := &health.Handlers{Service: healthService}
	app.Get("/health", healthHandlers.Plain)
	app.Get("/health/json", healthHandlers.JSON)

	result := &App{Fiber: app, DB: db, Rdb: rdb}
	if db == nil {
		// Routes below all need the database (e.g. tests exercising only
		// middleware or health).
		return result, nil
	}

	// OTP verification.
	otpService := &otp.Service{DB: db, Rdb: rdb, SMS: sms.NewFast2SMSClient(cfg.Fast2SMSAPIKey)}
	otpHandlers := &otp.Handlers{Service: otpService}
	otpGroup := app.Group("/api/v1/otp")
	otpGroup.Post("/send", otpHandlers.Send)
	otpGroup.Post("/verify", otpHandlers.Verify)

	// Referrals: validation and leaderboard are public, dashboard is the
	// collector's own.
	referralService := &referrals.Service{DB: db}
	referralHandlers := &referrals.Handlers{Service: referralService}
	referralGroup := app.Group("/api/v1/referrals")
	referralGroup.Post("/validate", referralHandlers.Validate)
	referralGroup.Get("/leaderboard", referralHandlers.Leaderboard)
	referralGroup.Get("/dashboard", middleware.RequireAuth(cfg.JWTSecret), referralHandlers.Dashboard)

	// Donations. Creation works for guests and authenticated users alike.
	gateway := payments.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	donationService := donations.NewService(db, referralService, gateway, receiptGen, cfg.DonationMinAmount, cfg.DonationMaxAmount)
	donationHandlers := &donations.Handlers{Service: donationService}
	donationGroup := app.Group("/api/v1/donations")
	donationGroup.Post("/", middleware.OptionalAuth(cfg.JWTSecret), donationHandlers.Create)
	donationGroup.Get("/my", middleware.RequireAuth(cfg.JWTSecret), donationHandlers.Mine)
	donationGroup.Post("/:id/order", donationHandlers.CreateOrder)
	donationGroup.Get("/:id/status", donationHandlers.Status)
	donationGroup.Get("/:id/receipt", donationHandlers.DownloadReceipt)

	// Collector lifecycle.
	collectorService := &collectors.Service{DB: db, Referrals: referralService}
	collectorHandlers := &collectors.Handlers{Service: collectorService}
	app.Post("/api/v1/collectors/apply", middleware.RequireAuth(cfg.JWTSecret), collectorHandlers.Apply)

	adminAuth := []fiber.Handler{
		middleware.RequireAuth(cfg.JWTSecret),
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
	}
	adminCollectors := app.Group("/api/v1/admin/collectors", adminAuth...)
	adminCollectors.Get("/applications", collectorHandlers.ListApplications)
	adminCollectors.Post("/:id/approve", collectorHandlers.Approve)
	adminCollectors.Post("/:id/reject", collectorHandlers.Reject)
	adminCollectors.Post("/:id/toggle-disabled", collectorHandlers.ToggleDisabled)

	// Donation heads.
	headService := &donationheads.Service{DB: db}
	headHandlers := &donationheads.Handlers{Service: headService}
	app.Get("/api/v1/donation-heads", headHandlers.List)
	adminHeads := app.Group("/api/v1/admin/donation-heads", adminAuth...)
	adminHeads.Get("/", headHandlers.ListAll)
	adminHeads.Post("/", headHandlers.Create)
	adminHeads.Patch("/:id", headHandlers.Update)
	adminHeads.Post("/:id/active", headHandlers.SetActive)

	result.Cleanup = &cleanup.Scheduler{
		DB:            db,
		PendingMaxAge: cfg.PendingMaxAge,
		Interval:      cfg.CleanupInterval,
	}
	return result, nil
}
