package model

import (
	"time"
)

// 支付状态
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusVerified  = "verified"
)

// Payment 会员提交的付款凭证。创建后只允许员工改状态（核验/驳回），
// 凭证本身是不可变证据。
type Payment struct {
	ID                int64     `gorm:"primaryKey" json:"id"`
	UserID            int64     `gorm:"not null;index" json:"user_id"`
	PlanID            int64     `gorm:"not null;index" json:"plan_id"`
	Amount            float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status            string    `gorm:"size:20;default:pending;index" json:"status"` // pending, completed, failed, verified
	ScreenshotURL     string    `gorm:"size:500" json:"screenshot_url,omitempty"`
	TransactionCode   string    `gorm:"size:100" json:"transaction_code,omitempty"`
	VerificationNotes string    `gorm:"type:text" json:"verification_notes,omitempty"`
	VerifiedBy        *int64    `gorm:"index" json:"verified_by,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// 收款方式
const (
	PaymentMethodUPI          = "upi"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodOther        = "other"
)

// PaymentQRCode 员工维护的收款码，会员对照付款后再提交凭证
type PaymentQRCode struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	PaymentMethod  string    `gorm:"size:20;not null" json:"payment_method"` // upi, bank_transfer, other
	QRCodeURL      string    `gorm:"size:500" json:"qr_code_url"`
	AccountDetails string    `gorm:"type:text" json:"account_details"`
	IsActive       bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (PaymentQRCode) TableName() string {
	return "payment_qr_codes"
}
