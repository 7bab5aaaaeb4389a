package dto

// SubmitPaymentRequest 提交付款凭证请求。
// 截图和交易码至少填一个，服务层校验。
type SubmitPaymentRequest struct {
	PlanID          int64   `json:"plan_id" binding:"required"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	ScreenshotURL   string  `json:"screenshot_url,omitempty"`
	TransactionCode string  `json:"transaction_code,omitempty"`
}

// VerifyPaymentRequest 员工核验请求
type VerifyPaymentRequest struct {
	Notes string `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// BulkPaymentRequest 批量核验/驳回请求
type BulkPaymentRequest struct {
	PaymentIDs []int64 `json:"payment_ids" binding:"required,min=1"`
	Notes      string  `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// BulkPaymentResult 批量操作单条结果
type BulkPaymentResult struct {
	PaymentID int64  `json:"payment_id"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// QRCodeRequest 收款码维护请求
type QRCodeRequest struct {
	PaymentMethod  string `json:"payment_method" binding:"required,oneof=upi bank_transfer other"`
	QRCodeURL      string `json:"qr_code_url,omitempty"`
	AccountDetails string `json:"account_details" binding:"required"`
	IsActive       *bool  `json:"is_active,omitempty"`
}
