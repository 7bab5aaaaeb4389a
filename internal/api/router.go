package api

import (
	"github.com/gin-gonic/gin"

	"github.com/devisgym/gym_go_server/config"
	"github.com/devisgym/gym_go_server/internal/api/handler"
	"github.com/devisgym/gym_go_server/internal/api/middleware"
	"github.com/devisgym/gym_go_server/internal/repository"
)

type Router struct {
	authHandler         *handler.AuthHandler
	catalogHandler      *handler.CatalogHandler
	paymentHandler      *handler.PaymentHandler
	subscriptionHandler *handler.SubscriptionHandler
	appointmentHandler  *handler.AppointmentHandler
	notificationHandler *handler.NotificationHandler
	uploadHandler       *handler.UploadHandler
	websocketHandler    *handler.WebSocketHandler
	userRepo            *repository.UserRepository
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	catalogHandler *handler.CatalogHandler,
	paymentHandler *handler.PaymentHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	appointmentHandler *handler.AppointmentHandler,
	notificationHandler *handler.NotificationHandler,
	uploadHandler *handler.UploadHandler,
	websocketHandler *handler.WebSocketHandler,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		catalogHandler:      catalogHandler,
		paymentHandler:      paymentHandler,
		subscriptionHandler: subscriptionHandler,
		appointmentHandler:  appointmentHandler,
		notificationHandler: notificationHandler,
		uploadHandler:       uploadHandler,
		websocketHandler:    websocketHandler,
		userRepo:            userRepo,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/otp/send", r.authHandler.SendOTP)
			auth.POST("/otp/verify", r.authHandler.VerifyOTP)
			auth.POST("/password/reset", r.authHandler.ResetPassword)
		}

		// 公开接口 - 目录
		api.GET("/plans", r.catalogHandler.ListPlans)
		api.GET("/plans/:id", r.catalogHandler.GetPlan)
		api.GET("/time-slots", r.catalogHandler.ListTimeSlots)

		// 会员接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.GET("/payments/qr-codes", r.paymentHandler.ListQRCodes)
			authenticated.POST("/payments", r.paymentHandler.Submit)
			authenticated.GET("/payments", r.paymentHandler.ListMine)

			authenticated.POST("/subscriptions", r.subscriptionHandler.Purchase)
			authenticated.GET("/subscriptions", r.subscriptionHandler.ListMine)

			authenticated.POST("/appointments", r.appointmentHandler.Book)
			authenticated.GET("/appointments", r.appointmentHandler.ListMine)
			authenticated.POST("/appointments/:id/cancel", r.appointmentHandler.Cancel)

			authenticated.GET("/notifications", r.notificationHandler.ListMine)
			authenticated.GET("/notifications/unread-count", r.notificationHandler.UnreadCount)
			authenticated.POST("/notifications/:id/read", r.notificationHandler.MarkRead)

			authenticated.POST("/upload/screenshot", r.uploadHandler.UploadScreenshot)
		}

		// 员工接口
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.Staff(r.userRepo))
		{
			admin.GET("/payments", r.paymentHandler.ListByStatus)
			admin.POST("/payments/bulk-verify", r.paymentHandler.BulkVerify)
			admin.POST("/payments/bulk-reject", r.paymentHandler.BulkReject)
			admin.POST("/payments/:id/verify", r.paymentHandler.Verify)
			admin.POST("/payments/:id/reject", r.paymentHandler.Reject)

			admin.POST("/qr-codes", r.paymentHandler.CreateQRCode)
			admin.PUT("/qr-codes/:id", r.paymentHandler.UpdateQRCode)

			admin.GET("/time-slots", r.catalogHandler.ListAllTimeSlots)
			admin.POST("/time-slots", r.catalogHandler.CreateTimeSlot)
			admin.PUT("/time-slots/:id", r.catalogHandler.UpdateTimeSlot)

			admin.GET("/appointments", r.appointmentHandler.ListByDate)
			admin.POST("/appointments/:id/confirm", r.appointmentHandler.Confirm)

			admin.POST("/notifications/broadcast", r.notificationHandler.Broadcast)

			admin.GET("/reports/revenue", r.subscriptionHandler.Revenue)

			admin.POST("/upload/qr-code", r.uploadHandler.UploadQRCode)
		}
	}

	return engine
}
