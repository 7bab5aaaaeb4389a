package model

import (
	"time"
)

// Subscription 会员订阅。is_active 是 Payment 核验状态的派生投影：
// 只有关联 Payment 变为 verified 时才置 true，到期扫描只做 Active→Expired。
type Subscription struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"not null;index" json:"user_id"`
	PlanID     int64     `gorm:"not null;index" json:"plan_id"`
	TimeSlotID int64     `gorm:"not null" json:"time_slot_id"`
	PaymentID  *int64    `gorm:"index" json:"payment_id,omitempty"`
	StartDate  time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null;index" json:"end_date"`
	IsActive   bool      `gorm:"default:false;index" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Plan     *Plan     `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	TimeSlot *TimeSlot `gorm:"foreignKey:TimeSlotID" json:"time_slot,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
