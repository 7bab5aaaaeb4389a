package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/model/dto"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *SubscriptionRepository) WithTx(tx *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: tx}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Preload("Plan").Preload("TimeSlot").Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Update(sub *model.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *SubscriptionRepository) ListByUser(userID int64) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.Preload("Plan").Preload("TimeSlot").
		Where("user_id = ?", userID).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

// ListByPaymentID 列出引用指定付款记录的全部订阅（带用户/套餐/时段，用于发通知）
func (r *SubscriptionRepository) ListByPaymentID(paymentID int64) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.Preload("User").Preload("Plan").Preload("TimeSlot").
		Where("payment_id = ?", paymentID).Find(&subs).Error
	return subs, err
}

// ActivateByPaymentID 激活引用指定付款记录的全部订阅，返回受影响行数
func (r *SubscriptionRepository) ActivateByPaymentID(paymentID int64) (int64, error) {
	result := r.db.Model(&model.Subscription{}).
		Where("payment_id = ?", paymentID).
		Update("is_active", true)
	return result.RowsAffected, result.Error
}

// Deactivate 停用单个订阅
func (r *SubscriptionRepository) Deactivate(id int64) error {
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).
		Update("is_active", false).Error
}

// ListActiveEndingBetween 列出 end_date 在 (after, until] 内的活跃订阅
func (r *SubscriptionRepository) ListActiveEndingBetween(after, until time.Time) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.Preload("User").Preload("Plan").Preload("TimeSlot").
		Where("is_active = ? AND end_date > ? AND end_date <= ?", true, after, until).
		Find(&subs).Error
	return subs, err
}

// ListActiveEndingOn 列出 end_date 恰为指定日期的活跃订阅
func (r *SubscriptionRepository) ListActiveEndingOn(date time.Time) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.Preload("User").Preload("Plan").Preload("TimeSlot").
		Where("is_active = ? AND end_date = ?", true, date).
		Find(&subs).Error
	return subs, err
}

// RevenueTotal 当前活跃订阅的套餐价格合计
func (r *SubscriptionRepository) RevenueTotal() (float64, error) {
	var total *float64
	err := r.db.Model(&model.Subscription{}).
		Joins("JOIN plans ON plans.id = subscriptions.plan_id").
		Where("subscriptions.is_active = ?", true).
		Select("SUM(plans.price)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

// RevenueByPlan 按套餐分组统计活跃订阅营收
func (r *SubscriptionRepository) RevenueByPlan() ([]dto.PlanRevenueEntry, error) {
	var entries []dto.PlanRevenueEntry
	err := r.db.Model(&model.Subscription{}).
		Joins("JOIN plans ON plans.id = subscriptions.plan_id").
		Where("subscriptions.is_active = ?", true).
		Select("plans.id AS plan_id, plans.name AS plan_name, COUNT(*) AS count, SUM(plans.price) AS total").
		Group("plans.id, plans.name").
		Order("total DESC").
		Scan(&entries).Error
	return entries, err
}
