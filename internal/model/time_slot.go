package model

import (
	"time"
)

// 固定场次
const (
	SessionMorning   = "morning"   // 06:00 - 10:00
	SessionAfternoon = "afternoon" // 12:00 - 16:00
	SessionEvening   = "evening"   // 17:00 - 21:00
)

// TimeSlot 可预约的每日训练时段。session 为空时是自由起止时段。
// 时刻统一用 "HH:MM" 存储。
type TimeSlot struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Session     string    `gorm:"size:20;index" json:"session,omitempty"` // morning, afternoon, evening 或空
	StartTime   string    `gorm:"size:5;not null" json:"start_time"`
	EndTime     string    `gorm:"size:5;not null" json:"end_time"`
	IsAvailable bool      `gorm:"default:true;index" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

// SessionWindow 返回场次允许的开始时刻区间（闭区间），未知场次返回 false
func SessionWindow(session string) (start, end string, ok bool) {
	switch session {
	case SessionMorning:
		return "06:00", "10:00", true
	case SessionAfternoon:
		return "12:00", "16:00", true
	case SessionEvening:
		return "17:00", "21:00", true
	}
	return "", "", false
}

// Label 人类可读的时段描述
func (t *TimeSlot) Label() string {
	switch t.Session {
	case SessionMorning:
		return "早场 06:00-10:00"
	case SessionAfternoon:
		return "午场 12:00-16:00"
	case SessionEvening:
		return "晚场 17:00-21:00"
	}
	return t.StartTime + " - " + t.EndTime
}
