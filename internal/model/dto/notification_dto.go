package dto

// BroadcastNotificationRequest 员工群发公告请求
type BroadcastNotificationRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Message string `json:"message" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=holiday event update general"`
}

// BroadcastNotificationResponse 群发结果
type BroadcastNotificationResponse struct {
	NotificationID int64 `json:"notification_id"`
	Recipients     int64 `json:"recipients"`
}
