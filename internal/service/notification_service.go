package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/model/dto"
	"github.com/devisgym/gym_go_server/internal/pkg/pubsub"
	"github.com/devisgym/gym_go_server/internal/repository"
)

var ErrNotificationNotFound = errors.New("通知不存在")

type NotificationService struct {
	notifRepo *repository.NotificationRepository
	userRepo  *repository.UserRepository
	publisher NotifyPublisher
}

func NewNotificationService(
	notifRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	publisher NotifyPublisher,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Broadcast 员工群发公告：单事务投递给全部活跃用户，再推送在线端
func (s *NotificationService) Broadcast(ctx context.Context, req *dto.BroadcastNotificationRequest) (*dto.BroadcastNotificationResponse, error) {
	userIDs, err := s.userRepo.ListActiveIDs()
	if err != nil {
		return nil, err
	}

	n := &model.Notification{
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	}
	recipients, err := s.notifRepo.CreateBroadcast(n, userIDs)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		msg := &pubsub.NotifyMessage{
			Event:          pubsub.EventBroadcast,
			NotificationID: n.ID,
			Title:          n.Title,
			Message:        n.Message,
			Type:           n.Type,
		}
		if err := s.publisher.PublishNotify(ctx, msg); err != nil {
			log.Printf("Broadcast %d: push failed: %v", n.ID, err)
		}
	}

	return &dto.BroadcastNotificationResponse{
		NotificationID: n.ID,
		Recipients:     recipients,
	}, nil
}

// ListByUser 会员查看自己的通知
func (s *NotificationService) ListByUser(userID int64, page, pageSize int) ([]model.UserNotification, int64, error) {
	return s.notifRepo.ListByUser(userID, page, pageSize)
}

// MarkRead 标记已读，仅限本人的投递记录
func (s *NotificationService) MarkRead(id, userID int64) error {
	item, err := s.notifRepo.GetUserNotification(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if item.IsRead {
		return nil
	}
	return s.notifRepo.MarkRead(id)
}

// UnreadCount 未读数
func (s *NotificationService) UnreadCount(userID int64) (int64, error) {
	return s.notifRepo.UnreadCount(userID)
}
