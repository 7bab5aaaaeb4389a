package repository

import (
	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) Update(payment *model.Payment) error {
	return r.db.Save(payment).Error
}

func (r *PaymentRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Payment{}).Where("id = ?", id).Updates(fields).Error
}

func (r *PaymentRepository) ListByUser(userID int64) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) ListByStatus(status string, page, pageSize int) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	query := r.db.Model(&model.Payment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&payments).Error
	return payments, total, err
}

// --- 收款码 ---

func (r *PaymentRepository) CreateQRCode(qr *model.PaymentQRCode) error {
	return r.db.Create(qr).Error
}

func (r *PaymentRepository) GetQRCodeByID(id int64) (*model.PaymentQRCode, error) {
	var qr model.PaymentQRCode
	err := r.db.Where("id = ?", id).First(&qr).Error
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

func (r *PaymentRepository) UpdateQRCode(qr *model.PaymentQRCode) error {
	return r.db.Save(qr).Error
}

func (r *PaymentRepository) ListActiveQRCodes() ([]model.PaymentQRCode, error) {
	var qrs []model.PaymentQRCode
	err := r.db.Where("is_active = ?", true).Order("created_at DESC").Find(&qrs).Error
	return qrs, err
}
