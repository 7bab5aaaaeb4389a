package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelMemberNotify = "member_notify"
)

// 通知事件类型
const (
	EventBroadcast            = "broadcast"
	EventSubscriptionApproved = "subscription_approved"
	EventSubscriptionExpiring = "subscription_expiring"
	EventSubscriptionExpired  = "subscription_expired"
)

// NotifyMessage 站内通知消息。UserID 为 0 表示面向全体在线用户。
type NotifyMessage struct {
	Event          string `json:"event"`
	UserID         int64  `json:"user_id"`
	NotificationID int64  `json:"notification_id,omitempty"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Type           string `json:"type,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishNotify 发布站内通知消息
func (p *Publisher) PublishNotify(ctx context.Context, msg *NotifyMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notify message: %w", err)
	}

	return p.client.Publish(ctx, ChannelMemberNotify, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅通知消息，阻塞直到 ctx 取消
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*NotifyMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelMemberNotify)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var notifyMsg NotifyMessage
			if err := json.Unmarshal([]byte(msg.Payload), &notifyMsg); err != nil {
				continue // 忽略解析错误
			}

			handler(&notifyMsg)
		}
	}
}
