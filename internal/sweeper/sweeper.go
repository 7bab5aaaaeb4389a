package sweeper

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/pkg/dateutil"
	"github.com/devisgym/gym_go_server/internal/pkg/pubsub"
	"github.com/devisgym/gym_go_server/internal/repository"
)

// EmailSender 到期提醒邮件发送
type EmailSender interface {
	SendSubscriptionExpiringSoon(to, username, planName, slotLabel, endDate string) error
	SendSubscriptionExpired(to, username, planName, slotLabel, endDate string) error
}

// NotifyPublisher 在线推送发布
type NotifyPublisher interface {
	PublishNotify(ctx context.Context, msg *pubsub.NotifyMessage) error
}

// Sweeper 订阅到期扫描。每日一跑：
// end_date 在 (today, today+N] 内的活跃订阅只发即将到期提醒，
// end_date 恰为 today 的发到期通知并停用。
type Sweeper struct {
	subRepo          *repository.SubscriptionRepository
	notifRepo        *repository.NotificationRepository
	email            EmailSender
	publisher        NotifyPublisher
	expiringSoonDays int
	now              func() time.Time
}

func New(
	subRepo *repository.SubscriptionRepository,
	notifRepo *repository.NotificationRepository,
	email EmailSender,
	publisher NotifyPublisher,
	expiringSoonDays int,
) *Sweeper {
	if expiringSoonDays <= 0 {
		expiringSoonDays = 3
	}
	return &Sweeper{
		subRepo:          subRepo,
		notifRepo:        notifRepo,
		email:            email,
		publisher:        publisher,
		expiringSoonDays: expiringSoonDays,
		now:              time.Now,
	}
}

// SetNow 覆盖时钟，测试和 -date 参数用
func (s *Sweeper) SetNow(now func() time.Time) {
	s.now = now
}

// Run 执行一次扫描。单条订阅处理失败只记日志，不影响其余订阅。
func (s *Sweeper) Run(ctx context.Context) error {
	today := dateutil.Normalize(s.now())
	log.Printf("Subscription sweep started for %s", dateutil.Format(today))

	notified := 0
	expiring, err := s.subRepo.ListActiveEndingBetween(today, today.AddDate(0, 0, s.expiringSoonDays))
	if err != nil {
		log.Printf("Sweep: failed to list expiring subscriptions: %v", err)
	} else {
		for i := range expiring {
			if err := s.handleExpiring(ctx, &expiring[i]); err != nil {
				log.Printf("Sweep: subscription %d expiring notice failed: %v", expiring[i].ID, err)
				continue
			}
			notified++
		}
	}

	deactivated := 0
	expired, err := s.subRepo.ListActiveEndingOn(today)
	if err != nil {
		log.Printf("Sweep: failed to list expired subscriptions: %v", err)
	} else {
		for i := range expired {
			if err := s.handleExpired(ctx, &expired[i]); err != nil {
				log.Printf("Sweep: subscription %d expiration failed: %v", expired[i].ID, err)
				continue
			}
			deactivated++
		}
	}

	log.Printf("Subscription sweep completed: expiring_notified=%d, deactivated=%d", notified, deactivated)
	return nil
}

func (s *Sweeper) handleExpiring(ctx context.Context, sub *model.Subscription) error {
	if sub.User == nil || sub.User.Email == nil || sub.Plan == nil {
		return fmt.Errorf("subscription %d missing user email or plan", sub.ID)
	}

	endDate := dateutil.Format(sub.EndDate)
	title := "订阅即将到期"
	message := fmt.Sprintf("您订阅的「%s」将于 %s 到期，如需继续训练请及时续订。", sub.Plan.Name, endDate)

	s.deliver(ctx, sub, pubsub.EventSubscriptionExpiring, title, message)

	return s.email.SendSubscriptionExpiringSoon(
		*sub.User.Email, sub.User.Username, sub.Plan.Name, s.slotLabel(sub), endDate)
}

func (s *Sweeper) handleExpired(ctx context.Context, sub *model.Subscription) error {
	if err := s.subRepo.Deactivate(sub.ID); err != nil {
		return fmt.Errorf("deactivate: %w", err)
	}

	if sub.User == nil || sub.User.Email == nil || sub.Plan == nil {
		return fmt.Errorf("subscription %d missing user email or plan", sub.ID)
	}

	endDate := dateutil.Format(sub.EndDate)
	title := "订阅已到期"
	message := fmt.Sprintf("您订阅的「%s」已于 %s 到期，欢迎续订。", sub.Plan.Name, endDate)

	s.deliver(ctx, sub, pubsub.EventSubscriptionExpired, title, message)

	if err := s.email.SendSubscriptionExpired(
		*sub.User.Email, sub.User.Username, sub.Plan.Name, s.slotLabel(sub), endDate); err != nil {
		// 停用已完成，邮件失败只记日志
		log.Printf("Sweep: subscription %d expired email failed: %v", sub.ID, err)
	}
	return nil
}

// deliver 写站内通知并推送在线端，均为尽力而为
func (s *Sweeper) deliver(ctx context.Context, sub *model.Subscription, event, title, message string) {
	n := &model.Notification{
		Title:   title,
		Message: message,
		Type:    model.NotificationTypeGeneral,
	}
	if _, err := s.notifRepo.CreateBroadcast(n, []int64{sub.UserID}); err != nil {
		log.Printf("Sweep: subscription %d in-app notification failed: %v", sub.ID, err)
	}

	if s.publisher == nil {
		return
	}
	msg := &pubsub.NotifyMessage{
		Event:          event,
		UserID:         sub.UserID,
		NotificationID: n.ID,
		Title:          title,
		Message:        message,
		Type:           model.NotificationTypeGeneral,
	}
	if err := s.publisher.PublishNotify(ctx, msg); err != nil {
		log.Printf("Sweep: subscription %d push failed: %v", sub.ID, err)
	}
}

func (s *Sweeper) slotLabel(sub *model.Subscription) string {
	if sub.TimeSlot == nil {
		return ""
	}
	return sub.TimeSlot.Label()
}
