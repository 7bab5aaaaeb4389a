package repository

import (
	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateBroadcast 创建公告并一次性投递给所有目标用户（单事务）
func (r *NotificationRepository) CreateBroadcast(n *model.Notification, userIDs []int64) (int64, error) {
	var recipients int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return err
		}

		if len(userIDs) == 0 {
			return nil
		}

		deliveries := make([]model.UserNotification, 0, len(userIDs))
		for _, uid := range userIDs {
			deliveries = append(deliveries, model.UserNotification{
				UserID:         uid,
				NotificationID: n.ID,
			})
		}
		if err := tx.CreateInBatches(deliveries, 200).Error; err != nil {
			return err
		}
		recipients = int64(len(deliveries))
		return nil
	})

	return recipients, err
}

func (r *NotificationRepository) ListByUser(userID int64, page, pageSize int) ([]model.UserNotification, int64, error) {
	var items []model.UserNotification
	var total int64

	query := r.db.Model(&model.UserNotification{}).
		Joins("JOIN notifications ON notifications.id = user_notifications.notification_id").
		Where("user_notifications.user_id = ? AND notifications.is_active = ?", userID, true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Notification").
		Order("user_notifications.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

// GetUserNotification 取指定用户的单条投递记录（归属校验用）
func (r *NotificationRepository) GetUserNotification(id, userID int64) (*model.UserNotification, error) {
	var item model.UserNotification
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *NotificationRepository) MarkRead(id int64) error {
	return r.db.Model(&model.UserNotification{}).Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *NotificationRepository) UnreadCount(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.UserNotification{}).
		Joins("JOIN notifications ON notifications.id = user_notifications.notification_id").
		Where("user_notifications.user_id = ? AND user_notifications.is_read = ? AND notifications.is_active = ?",
			userID, false, true).
		Count(&count).Error
	return count, err
}
