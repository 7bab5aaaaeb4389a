package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/config"
	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/model/dto"
	"github.com/devisgym/gym_go_server/internal/pkg/jwt"
	"github.com/devisgym/gym_go_server/internal/pkg/otp"
	"github.com/devisgym/gym_go_server/internal/repository"
)

var (
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrUsernameExists     = errors.New("用户名已被使用")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailNotVerified   = errors.New("邮箱尚未验证")
	ErrInvalidOTPCode     = errors.New("验证码无效或已过期")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserDisabled       = errors.New("账号已被停用")
)

// OTPSender 验证码与欢迎邮件发送
type OTPSender interface {
	SendOTPCode(to, code, purpose string) error
	SendWelcome(to, username string) error
}

type AuthService struct {
	userRepo *repository.UserRepository
	otpStore *otp.Store
	email    OTPSender
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, otpStore *otp.Store, email OTPSender, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		otpStore: otpStore,
		email:    email,
		cfg:      cfg,
	}
}

// Register 用户注册。注册成功后邮箱未验证，需调用 VerifyRegistration 完成验证。
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	passwordStr := string(hashedPassword)
	user := &model.User{
		Username:     req.Username,
		Email:        &req.Email,
		PasswordHash: &passwordStr,
		Phone:        req.Phone,
		IsActive:     true,
	}

	// 开发环境跳过邮箱验证
	if s.cfg.Server.Mode == "debug" {
		user.EmailVerified = true
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// 欢迎邮件由注册流程显式发送，失败不影响注册结果
	if err := s.email.SendWelcome(req.Email, req.Username); err != nil {
		log.Printf("Failed to send welcome email to %s: %v", req.Email, err)
	}

	return &dto.RegisterResponse{
		UserID: user.ID,
	}, nil
}

// Login 用户登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	// 生产环境强制要求邮箱已验证
	if !user.EmailVerified && s.cfg.Server.Mode != "debug" {
		return nil, ErrEmailNotVerified
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastLogin(user.ID, time.Now()); err != nil {
		log.Printf("Failed to update last login for user %d: %v", user.ID, err)
	}

	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  s.buildUserInfo(user),
	}, nil
}

// SendOTP 签发并发送验证码。两种用途都要求邮箱已注册：
// 注册验证发给已注册未验证的账号，重置密码发给已注册账号。
func (s *AuthService) SendOTP(ctx context.Context, req *dto.SendOTPRequest) error {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	code, err := s.otpStore.Issue(ctx, req.Email, req.Purpose)
	if err != nil {
		return err
	}

	return s.email.SendOTPCode(req.Email, code, req.Purpose)
}

// VerifyRegistration 校验注册验证码并标记邮箱已验证，成功后直接登录
func (s *AuthService) VerifyRegistration(ctx context.Context, email, code string) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.otpStore.Verify(ctx, email, otp.PurposeRegistration, code); err != nil {
		if errors.Is(err, otp.ErrInvalidCode) {
			return nil, ErrInvalidOTPCode
		}
		return nil, err
	}

	if !user.EmailVerified {
		if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"email_verified": true}); err != nil {
			return nil, err
		}
		user.EmailVerified = true
	}

	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  s.buildUserInfo(user),
	}, nil
}

// ResetPassword 校验重置验证码并更新密码
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.otpStore.Verify(ctx, req.Email, otp.PurposePasswordReset, req.Code); err != nil {
		if errors.Is(err, otp.ErrInvalidCode) {
			return ErrInvalidOTPCode
		}
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"password_hash": string(hashedPassword),
	})
}

// GetUserByID 根据 ID 获取用户
func (s *AuthService) GetUserByID(id int64) (*model.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *AuthService) buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:            user.ID,
		Username:      user.Username,
		Phone:         user.Phone,
		AvatarURL:     user.AvatarURL,
		IsStaff:       user.IsStaff,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
	}

	if user.Email != nil {
		info.Email = *user.Email
	}

	return info
}
