package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/model/dto"
	"github.com/devisgym/gym_go_server/internal/pkg/dateutil"
	"github.com/devisgym/gym_go_server/internal/repository"
	"github.com/devisgym/gym_go_server/internal/testutil"
)

func setupSubscriptionService(t *testing.T) (*SubscriptionService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	service := NewSubscriptionService(
		db,
		repository.NewSubscriptionRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewPlanRepository(db),
		repository.NewTimeSlotRepository(db),
	)
	return service, db
}

func TestComputeEndDate(t *testing.T) {
	start := dateutil.Date(2026, 4, 1)

	assert.Equal(t, dateutil.Date(2026, 5, 1), ComputeEndDate(start, 1))
	assert.Equal(t, dateutil.Date(2026, 6, 30), ComputeEndDate(start, 3))
	assert.Equal(t, start.AddDate(0, 0, 180), ComputeEndDate(start, 6))
	assert.Equal(t, start.AddDate(0, 0, 360), ComputeEndDate(start, 12))

	// 纯函数，重复调用结果不变
	assert.Equal(t, ComputeEndDate(start, 1), ComputeEndDate(start, 1))

	// 非零点输入先归一到日期粒度
	noisy := time.Date(2026, 4, 1, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, dateutil.Date(2026, 5, 1), ComputeEndDate(noisy, 1))
}

func TestSubscriptionService_Purchase(t *testing.T) {
	service, db := setupSubscriptionService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, testutil.WithDuration(3), testutil.WithPrice(120))
	slot := testutil.TestTimeSlot(t, db)

	resp, err := service.Purchase(user.ID, &dto.PurchaseSubscriptionRequest{
		PlanID:        plan.ID,
		TimeSlotID:    slot.ID,
		StartDate:     "2026-04-01",
		ScreenshotURL: "https://cdn.example.com/proof.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", resp.StartDate)
	assert.Equal(t, "2026-06-30", resp.EndDate)

	// 订阅未激活，等员工核验
	var sub model.Subscription
	require.NoError(t, db.First(&sub, resp.SubscriptionID).Error)
	assert.False(t, sub.IsActive)
	require.NotNil(t, sub.PaymentID)
	assert.Equal(t, resp.PaymentID, *sub.PaymentID)

	// 付款金额取套餐价格，状态 pending
	var payment model.Payment
	require.NoError(t, db.First(&payment, resp.PaymentID).Error)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	assert.Equal(t, 120.0, payment.Amount)
}

func TestSubscriptionService_Purchase_NoProof(t *testing.T) {
	service, db := setupSubscriptionService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	slot := testutil.TestTimeSlot(t, db)

	_, err := service.Purchase(user.ID, &dto.PurchaseSubscriptionRequest{
		PlanID:     plan.ID,
		TimeSlotID: slot.ID,
		StartDate:  "2026-04-01",
	})
	assert.ErrorIs(t, err, ErrNoPaymentProof)
}

func TestSubscriptionService_Purchase_BadStartDate(t *testing.T) {
	service, db := setupSubscriptionService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	slot := testutil.TestTimeSlot(t, db)

	_, err := service.Purchase(user.ID, &dto.PurchaseSubscriptionRequest{
		PlanID:          plan.ID,
		TimeSlotID:      slot.ID,
		StartDate:       "04/01/2026",
		TransactionCode: "TXN1",
	})
	assert.ErrorIs(t, err, ErrInvalidStartDate)
}

func TestSubscriptionService_Purchase_UnavailableSlot(t *testing.T) {
	service, db := setupSubscriptionService(t)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	slot := testutil.TestTimeSlot(t, db)
	require.NoError(t, db.Model(&model.TimeSlot{}).Where("id = ?", slot.ID).
		Update("is_available", false).Error)

	_, err := service.Purchase(user.ID, &dto.PurchaseSubscriptionRequest{
		PlanID:          plan.ID,
		TimeSlotID:      slot.ID,
		StartDate:       "2026-04-01",
		TransactionCode: "TXN1",
	})
	assert.ErrorIs(t, err, ErrTimeSlotUnavailable)
}

func TestSubscriptionService_PurchaseThenVerify(t *testing.T) {
	service, db := setupSubscriptionService(t)

	user := testutil.TestUser(t, db)
	staff := testutil.TestUser(t, db, testutil.WithStaff())
	plan := testutil.TestPlan(t, db, testutil.WithDuration(1), testutil.WithPrice(50))
	slot := testutil.TestTimeSlot(t, db)

	resp, err := service.Purchase(user.ID, &dto.PurchaseSubscriptionRequest{
		PlanID:          plan.ID,
		TimeSlotID:      slot.ID,
		StartDate:       "2026-04-01",
		TransactionCode: "TXN1",
	})
	require.NoError(t, err)

	paymentService := NewPaymentService(
		db,
		repository.NewPaymentRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewPlanRepository(db),
		repository.NewNotificationRepository(db),
		&confirmationRecorder{},
		&publishRecorder{},
	)

	_, err = paymentService.Verify(context.Background(), resp.PaymentID, staff.ID, "")
	require.NoError(t, err)

	sub, err := service.GetByID(resp.SubscriptionID)
	require.NoError(t, err)
	assert.True(t, sub.IsActive)
	// 激活不改到期日
	assert.Equal(t, "2026-05-01", dateutil.Format(sub.EndDate))
}

func TestSubscriptionService_ListByUser(t *testing.T) {
	service, db := setupSubscriptionService(t)

	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	slot := testutil.TestTimeSlot(t, db)

	testutil.TestSubscription(t, db, user.ID, plan.ID, slot.ID)
	testutil.TestSubscription(t, db, user.ID, plan.ID, slot.ID)
	testutil.TestSubscription(t, db, other.ID, plan.ID, slot.ID)

	subs, err := service.ListByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestSubscriptionService_Revenue(t *testing.T) {
	service, db := setupSubscriptionService(t)

	user := testutil.TestUser(t, db)
	monthly := testutil.TestPlan(t, db, testutil.WithDuration(1), testutil.WithPrice(50))
	yearly := testutil.TestPlan(t, db, testutil.WithDuration(12), testutil.WithPrice(400))
	slot := testutil.TestTimeSlot(t, db)

	testutil.TestSubscription(t, db, user.ID, monthly.ID, slot.ID, testutil.WithActive())
	testutil.TestSubscription(t, db, user.ID, monthly.ID, slot.ID, testutil.WithActive())
	testutil.TestSubscription(t, db, user.ID, yearly.ID, slot.ID, testutil.WithActive())
	// 未激活的不计入营收
	testutil.TestSubscription(t, db, user.ID, yearly.ID, slot.ID)

	report, err := service.Revenue()
	require.NoError(t, err)
	assert.Equal(t, 500.0, report.Total)
	require.Len(t, report.ByPlan, 2)

	// 按金额降序
	assert.Equal(t, yearly.ID, report.ByPlan[0].PlanID)
	assert.Equal(t, int64(1), report.ByPlan[0].Count)
	assert.Equal(t, 400.0, report.ByPlan[0].Total)
	assert.Equal(t, monthly.ID, report.ByPlan[1].PlanID)
	assert.Equal(t, int64(2), report.ByPlan[1].Count)
	assert.Equal(t, 100.0, report.ByPlan[1].Total)
}

func TestSubscriptionService_Revenue_Empty(t *testing.T) {
	service, _ := setupSubscriptionService(t)

	report, err := service.Revenue()
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Total)
	assert.Empty(t, report.ByPlan)
}
