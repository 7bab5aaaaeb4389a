package model

import (
	"time"
)

// 预约状态
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
)

// Appointment 单日到馆预约，(user_id, date) 全局唯一。
// 取消是软删除，记录保留做历史审计。
type Appointment struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64     `gorm:"not null;uniqueIndex:idx_user_date" json:"user_id"`
	SubscriptionID *int64    `gorm:"index" json:"subscription_id,omitempty"`
	Date           time.Time `gorm:"type:date;not null;uniqueIndex:idx_user_date" json:"date"`
	TimeSlotID     int64     `gorm:"not null" json:"time_slot_id"`
	Status         string    `gorm:"size:10;default:pending;index" json:"status"` // pending, confirmed, cancelled
	CreatedAt      time.Time `json:"created_at"`

	TimeSlot     *TimeSlot     `gorm:"foreignKey:TimeSlotID" json:"time_slot,omitempty"`
	Subscription *Subscription `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}
