package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/vihara/internal/config"
	"github.com/example/vihara/internal/handlers"
	"github.com/example/vihara/internal/middleware"
	"github.com/example/vihara/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	auditService := services.NewAuditService(db)
	mailerService := services.NewMailerService(cfg)
	gateway := services.NewMidtransClient(cfg)
	paymentService := services.NewPaymentService(db, gateway, mailerService, auditService)

	adminHandler := handlers.NewAdminHandler(db, cfg, auditService)
	memberHandler := handlers.NewMemberHandler(db, auditService)
	eventHandler := handlers.NewEventHandler(db, auditService)
	registrationHandler := handlers.NewRegistrationHandler(db, auditService, mailerService)
	attendanceHandler := handlers.NewAttendanceHandler(db, auditService)
	campaignHandler := handlers.NewCampaignHandler(db, auditService, paymentService)
	merchandiseHandler := handlers.NewMerchandiseHandler(db, auditService, paymentService)
	packageHandler := handlers.NewPackageHandler(db, auditService, paymentService)
	paymentHandler := handlers.NewPaymentHandler(db, cfg, paymentService, auditService)
	contentHandler := handlers.NewContentHandler(db, auditService)
	galleryHandler := handlers.NewGalleryHandler(db, auditService)
	scheduleHandler := handlers.NewScheduleHandler(db, auditService)
	activityLogHandler := handlers.NewActivityLogHandler(db, auditService)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", adminHandler.Register)
	auth.Post("/login", adminHandler.Login)

	// Public read surface
	api.Get("/events", eventHandler.List)
	api.Get("/events/:id", eventHandler.Get)
	api.Get("/donations", campaignHandler.List)
	api.Get("/donations/:id", campaignHandler.Get)
	api.Get("/merchandise", merchandiseHandler.List)
	api.Get("/merchandise/:id", merchandiseHandler.Get)
	api.Get("/packages", packageHandler.List)
	api.Get("/packages/:id", packageHandler.Get)
	api.Get("/announcements", contentHandler.ListAnnouncements)
	api.Get("/announcements/:id", contentHandler.GetAnnouncement)
	api.Get("/faqs", contentHandler.ListFAQs)
	api.Get("/faqs/:id", contentHandler.GetFAQ)
	api.Get("/org-chart", contentHandler.ListOrgChart)
	api.Get("/org-chart/:id", contentHandler.GetOrgChartEntry)
	api.Get("/general-info", contentHandler.GetGeneralInfo)
	api.Get("/gallery", galleryHandler.ListItems)
	api.Get("/gallery/:id", galleryHandler.GetItem)
	api.Get("/gallery-categories", galleryHandler.ListCategories)
	api.Get("/schedules", scheduleHandler.List)
	api.Get("/schedules/:id", scheduleHandler.Get)
	api.Get("/schedule-categories", scheduleHandler.ListCategories)

	// Public actions
	api.Post("/registrations", registrationHandler.Create)
	api.Get("/registrations/status", registrationHandler.CheckStatus)
	api.Post("/suggestions", contentHandler.CreateSuggestion)

	// Payment initiation and the gateway webhook
	api.Post("/donations/:id/pay", campaignHandler.Pay)
	api.Post("/merchandise/:id/pay", merchandiseHandler.Pay)
	api.Post("/packages/:id/pay", packageHandler.Pay)
	api.Post("/payments/webhook", paymentHandler.Webhook)
	api.Get("/payments/client-config", paymentHandler.ClientConfig)

	// Protected routes
	protected := api.Group("", middleware.RequireAdmin(cfg.JWTSecret))

	protected.Get("/members", memberHandler.List)
	protected.Post("/members", memberHandler.Create)
	protected.Get("/members/:id", memberHandler.Get)
	protected.Put("/members/:id", memberHandler.Update)
	protected.Delete("/members/:id", memberHandler.Delete)

	protected.Post("/events", eventHandler.Create)
	protected.Put("/events/:id", eventHandler.Update)
	protected.Delete("/events/:id", eventHandler.Delete)

	protected.Get("/registrations", registrationHandler.List)
	protected.Get("/registrations/:id", registrationHandler.Get)
	protected.Delete("/registrations/:id", registrationHandler.Delete)
	protected.Post("/registrations/bulk", registrationHandler.BulkCreate)
	protected.Post("/registrations/bulk-delete", registrationHandler.BulkDelete)
	protected.Post("/registrations/:id/send-qr", registrationHandler.SendQR)
	protected.Post("/registrations/send-qr", registrationHandler.BulkSendQR)

	protected.Post("/attendance/scan", attendanceHandler.Scan)
	protected.Get("/attendance", attendanceHandler.List)
	protected.Delete("/attendance/:id", attendanceHandler.Delete)

	protected.Post("/donations", campaignHandler.Create)
	protected.Put("/donations/:id", campaignHandler.Update)
	protected.Delete("/donations/:id", campaignHandler.Delete)

	protected.Post("/merchandise", merchandiseHandler.Create)
	protected.Put("/merchandise/:id", merchandiseHandler.Update)
	protected.Delete("/merchandise/:id", merchandiseHandler.Delete)

	protected.Post("/packages", packageHandler.Create)
	protected.Put("/packages/:id", packageHandler.Update)
	protected.Delete("/packages/:id", packageHandler.Delete)

	protected.Get("/payments", paymentHandler.List)
	protected.Get("/payments/:id", paymentHandler.Get)
	protected.Post("/payments/sync", paymentHandler.SyncAll)
	protected.Post("/payments/:id/sync", paymentHandler.SyncOne)
	protected.Put("/payments/:id/status", paymentHandler.OverrideStatus)

	protected.Post("/announcements", contentHandler.CreateAnnouncement)
	protected.Put("/announcements/:id", contentHandler.UpdateAnnouncement)
	protected.Delete("/announcements/:id", contentHandler.DeleteAnnouncement)

	protected.Post("/faqs", contentHandler.CreateFAQ)
	protected.Put("/faqs/:id", contentHandler.UpdateFAQ)
	protected.Delete("/faqs/:id", contentHandler.DeleteFAQ)

	protected.Post("/org-chart", contentHandler.CreateOrgChartEntry)
	protected.Put("/org-chart/:id", contentHandler.UpdateOrgChartEntry)
	protected.Delete("/org-chart/:id", contentHandler.DeleteOrgChartEntry)

	protected.Get("/suggestions", contentHandler.ListSuggestions)
	protected.Put("/suggestions/:id/status", contentHandler.UpdateSuggestionStatus)
	protected.Delete("/suggestions/:id", contentHandler.DeleteSuggestion)

	protected.Put("/general-info", contentHandler.UpdateGeneralInfo)

	protected.Post("/gallery", galleryHandler.CreateItem)
	protected.Put("/gallery/:id", galleryHandler.UpdateItem)
	protected.Delete("/gallery/:id", galleryHandler.DeleteItem)
	protected.Post("/gallery-categories", galleryHandler.CreateCategory)
	protected.Put("/gallery-categories/:id", galleryHandler.UpdateCategory)
	protected.Delete("/gallery-categories/:id", galleryHandler.DeleteCategory)

	protected.Post("/schedules", scheduleHandler.Create)
	protected.Put("/schedules/:id", scheduleHandler.Update)
	protected.Delete("/schedules/:id", scheduleHandler.Delete)
	protected.Post("/schedule-categories", scheduleHandler.CreateCategory)
	protected.Put("/schedule-categories/:id", scheduleHandler.UpdateCategory)
	protected.Delete("/schedule-categories/:id", scheduleHandler.DeleteCategory)

	protected.Get("/activity-logs", activityLogHandler.List)
	protected.Delete("/activity-logs/cleanup", activityLogHandler.Cleanup)
}
