package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "otp:"

// 验证码用途
const (
	PurposeRegistration  = "registration"
	PurposePasswordReset = "password_reset"
)

var ErrInvalidCode = errors.New("验证码无效或已过期")

// Store 一次性验证码存取，带 TTL，校验成功即销毁防止重放
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Issue 为指定邮箱和用途生成 6 位数字验证码并存入 Redis。
// 同一 (email, purpose) 重复签发会覆盖旧码。
func (s *Store) Issue(ctx context.Context, email, purpose string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	key := storeKey(email, purpose)
	if err := s.rdb.Set(ctx, key, code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}

	return code, nil
}

// Verify 校验验证码，成功后立即删除（一次性）
func (s *Store) Verify(ctx context.Context, email, purpose, code string) error {
	key := storeKey(email, purpose)

	stored, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidCode
		}
		return fmt.Errorf("failed to read otp: %w", err)
	}

	if stored != code {
		return ErrInvalidCode
	}

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}

	return nil
}

func storeKey(email, purpose string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, purpose, email)
}

// generateCode 生成 6 位数字验证码
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
