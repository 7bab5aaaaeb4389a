package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}

func TestStore_Issue(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStore(rdb, 10*time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "member@example.com", PurposeRegistration)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestStore_Verify_Success(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStore(rdb, 10*time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "member@example.com", PurposeRegistration)
	require.NoError(t, err)

	err = store.Verify(ctx, "member@example.com", PurposeRegistration, code)
	assert.NoError(t, err)
}

func TestStore_Verify_Consumed(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStore(rdb, 10*time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "member@example.com", PurposeRegistration)
	require.NoError(t, err)

	// First verification should succeed
	require.NoError(t, store.Verify(ctx, "member@example.com", PurposeRegistration, code))

	// Second verification should fail (code consumed)
	err = store.Verify(ctx, "member@example.com", PurposeRegistration, code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestStore_Verify_WrongCode(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStore(rdb, 10*time.Minute)
	ctx := context.Background()

	_, err := store.Issue(ctx, "member@example.com", PurposeRegistration)
	require.NoError(t, err)

	err = store.Verify(ctx, "member@example.com", PurposeRegistration, "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestStore_Verify_PurposeIsolation(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStore(rdb, 10*time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "member@example.com", PurposeRegistration)
	require.NoError(t, err)

	// 注册验证码不能用于重置密码
	err = store.Verify(ctx, "member@example.com", PurposePasswordReset, code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestStore_Verify_Expired(t *testing.T) {
	rdb, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStore(rdb, 10*time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "member@example.com", PurposePasswordReset)
	require.NoError(t, err)

	mr.FastForward(11 * time.Minute)

	err = store.Verify(ctx, "member@example.com", PurposePasswordReset, code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}
