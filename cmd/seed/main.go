package main

import (
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/config"
	"github.com/devisgym/gym_go_server/internal/database"
	"github.com/devisgym/gym_go_server/internal/model"
)

// 初始化基础数据：固定场次、自由时段和订阅套餐。可重复执行。
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	if err := seedTimeSlots(db); err != nil {
		log.Fatalf("Failed to seed time slots: %v", err)
	}
	log.Println("Time slots seeded")

	if err := seedPlans(db); err != nil {
		log.Fatalf("Failed to seed plans: %v", err)
	}
	log.Println("Plans seeded")
}

func seedTimeSlots(db *gorm.DB) error {
	slots := []model.TimeSlot{
		// 三大固定场次
		{Session: model.SessionMorning, StartTime: "06:00", EndTime: "10:00", IsAvailable: true},
		{Session: model.SessionAfternoon, StartTime: "12:00", EndTime: "16:00", IsAvailable: true},
		{Session: model.SessionEvening, StartTime: "17:00", EndTime: "21:00", IsAvailable: true},
		// 两小时自由时段
		{StartTime: "06:00", EndTime: "08:00", IsAvailable: true},
		{StartTime: "08:00", EndTime: "10:00", IsAvailable: true},
		{StartTime: "10:00", EndTime: "12:00", IsAvailable: true},
		{StartTime: "14:00", EndTime: "16:00", IsAvailable: true},
		{StartTime: "16:00", EndTime: "18:00", IsAvailable: true},
		{StartTime: "18:00", EndTime: "20:00", IsAvailable: true},
	}
	for _, slot := range slots {
		var existing model.TimeSlot
		err := db.Where("session = ? AND start_time = ? AND end_time = ?",
			slot.Session, slot.StartTime, slot.EndTime).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&slot).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedPlans(db *gorm.DB) error {
	plans := []model.Plan{
		{Name: "Monthly Package", DurationMonths: 1, Price: 50.00, Description: "Perfect for trying out our gym"},
		{Name: "Bi-Monthly Package", DurationMonths: 2, Price: 95.00, Description: "Great value for short-term commitment"},
		{Name: "Quarterly Package", DurationMonths: 3, Price: 135.00, Description: "Our most popular package"},
		{Name: "Annual Package", DurationMonths: 12, Price: 480.00, Description: "Best value for long-term commitment"},
	}
	for _, plan := range plans {
		var existing model.Plan
		err := db.Where("name = ?", plan.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&plan).Error; err != nil {
			return err
		}
	}
	return nil
}
