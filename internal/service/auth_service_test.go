package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/config"
	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/model/dto"
	"github.com/devisgym/gym_go_server/internal/pkg/otp"
	"github.com/devisgym/gym_go_server/internal/repository"
	"github.com/devisgym/gym_go_server/internal/testutil"
)

type recordingEmail struct {
	mu       sync.Mutex
	otpCodes map[string]string // email -> code
	welcomes []string
}

func newRecordingEmail() *recordingEmail {
	return &recordingEmail{otpCodes: make(map[string]string)}
}

func (r *recordingEmail) SendOTPCode(to, code, purpose string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.otpCodes[to] = code
	return nil
}

func (r *recordingEmail) SendWelcome(to, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.welcomes = append(r.welcomes, to)
	return nil
}

func (r *recordingEmail) lastCode(email string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.otpCodes[email]
}

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB, *recordingEmail) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "release"},
		JWT: config.JWTConfig{
			Secret:      "test-secret-key-for-testing",
			ExpireHours: 24,
		},
	}

	email := newRecordingEmail()
	userRepo := repository.NewUserRepository(db)
	otpStore := otp.NewStore(rdb, 10*time.Minute)

	return NewAuthService(userRepo, otpStore, email, cfg), db, email
}

func TestAuthService_Register_Success(t *testing.T) {
	service, db, email := setupAuthService(t)

	req := &dto.RegisterRequest{
		Email:    "newuser@example.com",
		Username: "newuser",
		Password: "password123",
	}

	resp, err := service.Register(req)
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)

	// 注册即发欢迎邮件
	assert.Equal(t, []string{"newuser@example.com"}, email.welcomes)

	var user model.User
	require.NoError(t, db.First(&user, resp.UserID).Error)
	assert.True(t, user.IsActive)
	assert.False(t, user.EmailVerified)
	// 密码不落明文
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "password123", *user.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service, _, _ := setupAuthService(t)

	req := &dto.RegisterRequest{
		Email:    "duplicate@example.com",
		Username: "user1",
		Password: "password123",
	}
	_, err := service.Register(req)
	require.NoError(t, err)

	req2 := &dto.RegisterRequest{
		Email:    "duplicate@example.com",
		Username: "user2",
		Password: "password123",
	}
	_, err = service.Register(req2)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	service, _, _ := setupAuthService(t)

	req := &dto.RegisterRequest{
		Email:    "user1@example.com",
		Username: "sameuser",
		Password: "password123",
	}
	_, err := service.Register(req)
	require.NoError(t, err)

	req2 := &dto.RegisterRequest{
		Email:    "user2@example.com",
		Username: "sameuser",
		Password: "password123",
	}
	_, err = service.Register(req2)
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func registerVerifiedUser(t *testing.T, service *AuthService, db *gorm.DB, email, password string) int64 {
	t.Helper()

	resp, err := service.Register(&dto.RegisterRequest{
		Email:    email,
		Username: "u_" + email[:3] + email[4:7],
		Password: password,
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&model.User{}).Where("id = ?", resp.UserID).
		Update("email_verified", true).Error)
	return resp.UserID
}

func TestAuthService_Login_Success(t *testing.T) {
	service, db, _ := setupAuthService(t)

	userID := registerVerifiedUser(t, service, db, "login@example.com", "password123")

	resp, err := service.Login(&dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, userID, resp.User.ID)

	// 登录时间被记录
	var user model.User
	require.NoError(t, db.First(&user, userID).Error)
	assert.NotNil(t, user.LastLoginAt)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, db, _ := setupAuthService(t)

	registerVerifiedUser(t, service, db, "wrong@example.com", "password123")

	_, err := service.Login(&dto.LoginRequest{
		Email:    "wrong@example.com",
		Password: "incorrect",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	service, _, _ := setupAuthService(t)

	_, err := service.Login(&dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnverifiedEmail(t *testing.T) {
	service, _, _ := setupAuthService(t)

	_, err := service.Register(&dto.RegisterRequest{
		Email:    "unverified@example.com",
		Username: "unverified",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "unverified@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestAuthService_Login_DisabledUser(t *testing.T) {
	service, db, _ := setupAuthService(t)

	userID := registerVerifiedUser(t, service, db, "disabled@example.com", "password123")
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", userID).
		Update("is_active", false).Error)

	_, err := service.Login(&dto.LoginRequest{
		Email:    "disabled@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestAuthService_VerifyRegistration(t *testing.T) {
	service, db, email := setupAuthService(t)

	_, err := service.Register(&dto.RegisterRequest{
		Email:    "verify@example.com",
		Username: "verifyme",
		Password: "password123",
	})
	require.NoError(t, err)

	ctx := context.Background()
	err = service.SendOTP(ctx, &dto.SendOTPRequest{
		Email:   "verify@example.com",
		Purpose: otp.PurposeRegistration,
	})
	require.NoError(t, err)

	code := email.lastCode("verify@example.com")
	require.NotEmpty(t, code)

	resp, err := service.VerifyRegistration(ctx, "verify@example.com", code)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.User.EmailVerified)

	var user model.User
	require.NoError(t, db.Where("email = ?", "verify@example.com").First(&user).Error)
	assert.True(t, user.EmailVerified)

	// 验证码一次性，重放失败
	_, err = service.VerifyRegistration(ctx, "verify@example.com", code)
	assert.ErrorIs(t, err, ErrInvalidOTPCode)
}

func TestAuthService_VerifyRegistration_WrongCode(t *testing.T) {
	service, _, _ := setupAuthService(t)

	_, err := service.Register(&dto.RegisterRequest{
		Email:    "badcode@example.com",
		Username: "badcode",
		Password: "password123",
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, service.SendOTP(ctx, &dto.SendOTPRequest{
		Email:   "badcode@example.com",
		Purpose: otp.PurposeRegistration,
	}))

	_, err = service.VerifyRegistration(ctx, "badcode@example.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidOTPCode)
}

func TestAuthService_SendOTP_UnknownEmail(t *testing.T) {
	service, _, _ := setupAuthService(t)

	err := service.SendOTP(context.Background(), &dto.SendOTPRequest{
		Email:   "nobody@example.com",
		Purpose: otp.PurposePasswordReset,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_ResetPassword(t *testing.T) {
	service, db, email := setupAuthService(t)

	userID := registerVerifiedUser(t, service, db, "reset@example.com", "oldpassword")

	ctx := context.Background()
	require.NoError(t, service.SendOTP(ctx, &dto.SendOTPRequest{
		Email:   "reset@example.com",
		Purpose: otp.PurposePasswordReset,
	}))

	code := email.lastCode("reset@example.com")
	require.NotEmpty(t, code)

	err := service.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Email:       "reset@example.com",
		Code:        code,
		NewPassword: "newpassword",
	})
	require.NoError(t, err)

	var user model.User
	require.NoError(t, db.First(&user, userID).Error)
	require.NotNil(t, user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte("newpassword")))

	// 旧密码失效
	_, err = service.Login(&dto.LoginRequest{
		Email:    "reset@example.com",
		Password: "oldpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "reset@example.com",
		Password: "newpassword",
	})
	assert.NoError(t, err)
}

func TestAuthService_ResetPassword_InvalidCode(t *testing.T) {
	service, db, _ := setupAuthService(t)

	registerVerifiedUser(t, service, db, "resetbad@example.com", "oldpassword")

	err := service.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       "resetbad@example.com",
		Code:        "123456",
		NewPassword: "newpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidOTPCode)
}
