package dto

// PurchaseSubscriptionRequest 购买订阅请求：选套餐 + 时段 + 开始日期，
// 连同付款凭证一起提交
type PurchaseSubscriptionRequest struct {
	PlanID          int64  `json:"plan_id" binding:"required"`
	TimeSlotID      int64  `json:"time_slot_id" binding:"required"`
	StartDate       string `json:"start_date" binding:"required"` // YYYY-MM-DD
	ScreenshotURL   string `json:"screenshot_url,omitempty"`
	TransactionCode string `json:"transaction_code,omitempty"`
}

// PurchaseSubscriptionResponse 购买订阅响应
type PurchaseSubscriptionResponse struct {
	SubscriptionID int64  `json:"subscription_id"`
	PaymentID      int64  `json:"payment_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

// RevenueReport 营收统计（只统计当前 Active 订阅）
type RevenueReport struct {
	Total  float64            `json:"total"`
	ByPlan []PlanRevenueEntry `json:"by_plan"`
}

// PlanRevenueEntry 按套餐分组的营收
type PlanRevenueEntry struct {
	PlanID   int64   `json:"plan_id"`
	PlanName string  `json:"plan_name"`
	Count    int64   `json:"count"`
	Total    float64 `json:"total"`
}
