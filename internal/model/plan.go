package model

import (
	"time"
)

// Plan 订阅套餐，静态参考数据（按整月计价）
type Plan struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	DurationMonths int       `gorm:"not null" json:"duration_months"` // 1, 2, 3, 12
	Price          float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Plan) TableName() string {
	return "plans"
}
