package repository

import (
	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
)

type TimeSlotRepository struct {
	db *gorm.DB
}

func NewTimeSlotRepository(db *gorm.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

func (r *TimeSlotRepository) Create(slot *model.TimeSlot) error {
	return r.db.Create(slot).Error
}

func (r *TimeSlotRepository) GetByID(id int64) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	err := r.db.Where("id = ?", id).First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *TimeSlotRepository) Update(slot *model.TimeSlot) error {
	return r.db.Save(slot).Error
}

// ListAvailable 按开始时刻排序列出可预约时段
func (r *TimeSlotRepository) ListAvailable() ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	err := r.db.Where("is_available = ?", true).Order("start_time ASC").Find(&slots).Error
	return slots, err
}

func (r *TimeSlotRepository) List() ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	err := r.db.Order("start_time ASC").Find(&slots).Error
	return slots, err
}
