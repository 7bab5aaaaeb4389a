package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/pkg/dateutil"
)

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := nextSeq()
	email := fmt.Sprintf("test_%d_%d@example.com", time.Now().UnixNano(), n)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:      fmt.Sprintf("testuser_%d_%d", time.Now().UnixNano()%100000, n),
		Email:         &email,
		PasswordHash:  &passwordHash,
		IsActive:      true,
		EmailVerified: true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithStaff 设置员工标记
func WithStaff() func(*model.User) {
	return func(u *model.User) {
		u.IsStaff = true
	}
}

// WithInactive 设置停用标记
func WithInactive() func(*model.User) {
	return func(u *model.User) {
		u.IsActive = false
	}
}

// TestPlan 创建测试套餐
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.Plan)) *model.Plan {
	t.Helper()

	plan := &model.Plan{
		Name:           fmt.Sprintf("Monthly Package %d", nextSeq()),
		DurationMonths: 1,
		Price:          50.00,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithDuration 设置套餐月数
func WithDuration(months int) func(*model.Plan) {
	return func(p *model.Plan) {
		p.DurationMonths = months
	}
}

// WithPrice 设置套餐价格
func WithPrice(price float64) func(*model.Plan) {
	return func(p *model.Plan) {
		p.Price = price
	}
}

// TestTimeSlot 创建测试时段
func TestTimeSlot(t *testing.T, db *gorm.DB, opts ...func(*model.TimeSlot)) *model.TimeSlot {
	t.Helper()

	slot := &model.TimeSlot{
		Session:     model.SessionMorning,
		StartTime:   "06:00",
		EndTime:     "10:00",
		IsAvailable: true,
	}

	for _, opt := range opts {
		opt(slot)
	}

	if err := db.Create(slot).Error; err != nil {
		t.Fatalf("Failed to create test time slot: %v", err)
	}

	return slot
}

// WithSession 设置场次与起止时刻
func WithSession(session, start, end string) func(*model.TimeSlot) {
	return func(s *model.TimeSlot) {
		s.Session = session
		s.StartTime = start
		s.EndTime = end
	}
}

// TestPayment 创建测试付款记录
func TestPayment(t *testing.T, db *gorm.DB, userID, planID int64, opts ...func(*model.Payment)) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		UserID:          userID,
		PlanID:          planID,
		Amount:          50.00,
		Status:          model.PaymentStatusPending,
		TransactionCode: fmt.Sprintf("TXN%d", nextSeq()),
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// WithPaymentStatus 设置付款状态
func WithPaymentStatus(status string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Status = status
	}
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, userID, planID, slotID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	start := dateutil.Normalize(time.Now().UTC())
	sub := &model.Subscription{
		UserID:     userID,
		PlanID:     planID,
		TimeSlotID: slotID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 30),
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithPayment 关联付款记录
func WithPayment(paymentID int64) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.PaymentID = &paymentID
	}
}

// WithWindow 设置订阅起止日期
func WithWindow(start, end time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.StartDate = dateutil.Normalize(start)
		s.EndDate = dateutil.Normalize(end)
	}
}

// WithActive 设置激活标记
func WithActive() func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.IsActive = true
	}
}

// TestAppointment 创建测试预约
func TestAppointment(t *testing.T, db *gorm.DB, userID, slotID int64, date time.Time, opts ...func(*model.Appointment)) *model.Appointment {
	t.Helper()

	appt := &model.Appointment{
		UserID:     userID,
		TimeSlotID: slotID,
		Date:       dateutil.Normalize(date),
		Status:     model.AppointmentStatusPending,
	}

	for _, opt := range opts {
		opt(appt)
	}

	if err := db.Create(appt).Error; err != nil {
		t.Fatalf("Failed to create test appointment: %v", err)
	}

	return appt
}

// WithSubscriptionID 关联订阅
func WithSubscriptionID(subID int64) func(*model.Appointment) {
	return func(a *model.Appointment) {
		a.SubscriptionID = &subID
	}
}

// WithAppointmentStatus 设置预约状态
func WithAppointmentStatus(status string) func(*model.Appointment) {
	return func(a *model.Appointment) {
		a.Status = status
	}
}
