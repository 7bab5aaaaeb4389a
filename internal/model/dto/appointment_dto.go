package dto

// BookAppointmentRequest 预约请求
type BookAppointmentRequest struct {
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	TimeSlotID     int64  `json:"time_slot_id" binding:"required"`
	SubscriptionID *int64 `json:"subscription_id,omitempty"`
}

// TimeSlotRequest 时段维护请求（员工）
type TimeSlotRequest struct {
	Session     string `json:"session,omitempty" binding:"omitempty,oneof=morning afternoon evening"`
	StartTime   string `json:"start_time" binding:"required,len=5"`
	EndTime     string `json:"end_time" binding:"required,len=5"`
	IsAvailable *bool  `json:"is_available,omitempty"`
}
