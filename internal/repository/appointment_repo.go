package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(appt *model.Appointment) error {
	return r.db.Create(appt).Error
}

func (r *AppointmentRepository) GetByID(id int64) (*model.Appointment, error) {
	var appt model.Appointment
	err := r.db.Preload("TimeSlot").Where("id = ?", id).First(&appt).Error
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// ExistsByUserAndDate (user, date) 是否已有预约。唯一索引兜底，
// 这里先查一次是为了给出明确的业务错误而不是裸约束冲突。
func (r *AppointmentRepository) ExistsByUserAndDate(userID int64, date time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.Appointment{}).
		Where("user_id = ? AND date = ?", userID, date).
		Count(&count).Error
	return count > 0, err
}

func (r *AppointmentRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.Appointment{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *AppointmentRepository) ListByUser(userID int64, page, pageSize int) ([]model.Appointment, int64, error) {
	var appts []model.Appointment
	var total int64

	query := r.db.Model(&model.Appointment{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("TimeSlot").
		Order("date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&appts).Error
	return appts, total, err
}

func (r *AppointmentRepository) ListByDate(date time.Time) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := r.db.Preload("TimeSlot").Where("date = ?", date).Find(&appts).Error
	return appts, err
}
