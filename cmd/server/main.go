package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/devisgym/gym_go_server/config"
	"github.com/devisgym/gym_go_server/internal/api"
	"github.com/devisgym/gym_go_server/internal/api/handler"
	"github.com/devisgym/gym_go_server/internal/database"
	"github.com/devisgym/gym_go_server/internal/pkg/cron"
	"github.com/devisgym/gym_go_server/internal/pkg/email"
	"github.com/devisgym/gym_go_server/internal/pkg/oss"
	"github.com/devisgym/gym_go_server/internal/pkg/otp"
	"github.com/devisgym/gym_go_server/internal/pkg/pubsub"
	"github.com/devisgym/gym_go_server/internal/pkg/ws"
	"github.com/devisgym/gym_go_server/internal/repository"
	"github.com/devisgym/gym_go_server/internal/service"
	"github.com/devisgym/gym_go_server/internal/sweeper"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化邮件和验证码
	emailService := email.NewService(&cfg.Email)
	otpStore := otp.NewStore(rdb, time.Duration(cfg.OTP.ExpireMinutes)*time.Minute)

	// 初始化 Pub/Sub
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// 初始化 WebSocket Hub，并把 Redis 通知转发到在线连接
	wsHub := ws.NewHub()
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.NotifyMessage) {
			wsMsg := &ws.Message{Type: msg.Event, Data: msg}
			if msg.UserID == 0 {
				if err := wsHub.Broadcast(wsMsg); err != nil {
					log.Printf("Failed to broadcast ws message: %v", err)
				}
				return
			}
			if err := wsHub.SendToUser(msg.UserID, wsMsg); err != nil {
				log.Printf("Failed to push ws message to user %d: %v", msg.UserID, err)
			}
		})
		if err != nil {
			log.Printf("Notify subscriber stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	slotRepo := repository.NewTimeSlotRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, otpStore, emailService, cfg)
	catalogService := service.NewCatalogService(planRepo, slotRepo)
	paymentService := service.NewPaymentService(db, paymentRepo, subRepo, planRepo, notifRepo, emailService, publisher)
	subscriptionService := service.NewSubscriptionService(db, subRepo, paymentRepo, planRepo, slotRepo)
	appointmentService := service.NewAppointmentService(apptRepo, subRepo, slotRepo, userRepo, emailService, cfg.Gym.ClosedWeekday)
	notificationService := service.NewNotificationService(notifRepo, userRepo, publisher)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	uploadHandler := handler.NewUploadHandler(ossClient, cfg)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 启动每日到期扫描
	expireSweeper := sweeper.New(subRepo, notifRepo, emailService, publisher, cfg.Sweeper.ExpiringSoonDays)
	sweepCron := cron.NewService(expireSweeper, cfg.Sweeper.RunAtHour)
	sweepCron.Start()
	defer sweepCron.Stop()
	log.Printf("Subscription sweeper scheduled at %02d:00 UTC", cfg.Sweeper.RunAtHour)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		catalogHandler,
		paymentHandler,
		subscriptionHandler,
		appointmentHandler,
		notificationHandler,
		uploadHandler,
		websocketHandler,
		userRepo,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
