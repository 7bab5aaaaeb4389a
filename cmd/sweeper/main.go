package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/devisgym/gym_go_server/config"
	"github.com/devisgym/gym_go_server/internal/database"
	"github.com/devisgym/gym_go_server/internal/pkg/dateutil"
	"github.com/devisgym/gym_go_server/internal/pkg/email"
	"github.com/devisgym/gym_go_server/internal/pkg/pubsub"
	"github.com/devisgym/gym_go_server/internal/repository"
	"github.com/devisgym/gym_go_server/internal/sweeper"
)

var runDate = flag.String("date", "", "Run the sweep as of this date (YYYY-MM-DD), defaults to today")

func main() {
	flag.Parse()

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}

	subRepo := repository.NewSubscriptionRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	emailService := email.NewService(&cfg.Email)
	publisher := pubsub.NewPublisher(rdb)

	s := sweeper.New(subRepo, notifRepo, emailService, publisher, cfg.Sweeper.ExpiringSoonDays)

	// 指定日期时固定时钟，方便补跑和演练
	if *runDate != "" {
		day, err := dateutil.Parse(*runDate)
		if err != nil {
			log.Fatalf("Invalid -date %q: %v", *runDate, err)
		}
		s.SetNow(func() time.Time { return day })
	}

	if err := s.Run(context.Background()); err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	log.Println("Sweep completed")
}
