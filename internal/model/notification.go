package model

import (
	"time"
)

// 站内通知类型
const (
	NotificationTypeHoliday = "holiday"
	NotificationTypeEvent   = "event"
	NotificationTypeUpdate  = "update"
	NotificationTypeGeneral = "general"
)

// Notification 员工发布的站内公告
type Notification struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:50;not null" json:"type"` // holiday, event, update, general
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// UserNotification 公告到用户的投递记录，(user_id, notification_id) 唯一
type UserNotification struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	UserID         int64     `gorm:"not null;uniqueIndex:idx_user_notification" json:"user_id"`
	NotificationID int64     `gorm:"not null;uniqueIndex:idx_user_notification" json:"notification_id"`
	IsRead         bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`

	Notification *Notification `gorm:"foreignKey:NotificationID" json:"notification,omitempty"`
}

func (UserNotification) TableName() string {
	return "user_notifications"
}
