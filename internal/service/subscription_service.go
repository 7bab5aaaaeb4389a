package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/model/dto"
	"github.com/devisgym/gym_go_server/internal/pkg/dateutil"
	"github.com/devisgym/gym_go_server/internal/repository"
)

var (
	ErrSubscriptionNotFound = errors.New("订阅不存在")
	ErrTimeSlotNotFound     = errors.New("时段不存在")
	ErrTimeSlotUnavailable  = errors.New("该时段不可预约")
	ErrInvalidStartDate     = errors.New("开始日期格式不正确")
)

type SubscriptionService struct {
	db          *gorm.DB
	subRepo     *repository.SubscriptionRepository
	paymentRepo *repository.PaymentRepository
	planRepo    *repository.PlanRepository
	slotRepo    *repository.TimeSlotRepository
}

func NewSubscriptionService(
	db *gorm.DB,
	subRepo *repository.SubscriptionRepository,
	paymentRepo *repository.PaymentRepository,
	planRepo *repository.PlanRepository,
	slotRepo *repository.TimeSlotRepository,
) *SubscriptionService {
	return &SubscriptionService{
		db:          db,
		subRepo:     subRepo,
		paymentRepo: paymentRepo,
		planRepo:    planRepo,
		slotRepo:    slotRepo,
	}
}

// ComputeEndDate 到期日 = 开始日 + 30×月数 天。按 30 天近似月长，
// 纯函数，订阅创建时算一次后不再重算。
func ComputeEndDate(startDate time.Time, durationMonths int) time.Time {
	return dateutil.Normalize(startDate).AddDate(0, 0, 30*durationMonths)
}

// Purchase 购买订阅：付款凭证和未激活订阅在同一事务内落库。
// 订阅要等员工核验付款后才激活。
func (s *SubscriptionService) Purchase(userID int64, req *dto.PurchaseSubscriptionRequest) (*dto.PurchaseSubscriptionResponse, error) {
	if req.ScreenshotURL == "" && req.TransactionCode == "" {
		return nil, ErrNoPaymentProof
	}

	startDate, err := dateutil.Parse(req.StartDate)
	if err != nil {
		return nil, ErrInvalidStartDate
	}

	plan, err := s.planRepo.GetByID(req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	slot, err := s.slotRepo.GetByID(req.TimeSlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		return nil, err
	}
	if !slot.IsAvailable {
		return nil, ErrTimeSlotUnavailable
	}

	endDate := ComputeEndDate(startDate, plan.DurationMonths)

	var payment *model.Payment
	var sub *model.Subscription

	err = s.db.Transaction(func(tx *gorm.DB) error {
		payment = &model.Payment{
			UserID:          userID,
			PlanID:          plan.ID,
			Amount:          plan.Price,
			Status:          model.PaymentStatusPending,
			ScreenshotURL:   req.ScreenshotURL,
			TransactionCode: req.TransactionCode,
		}
		if err := s.paymentRepo.WithTx(tx).Create(payment); err != nil {
			return err
		}

		sub = &model.Subscription{
			UserID:     userID,
			PlanID:     plan.ID,
			TimeSlotID: slot.ID,
			PaymentID:  &payment.ID,
			StartDate:  startDate,
			EndDate:    endDate,
		}
		return s.subRepo.WithTx(tx).Create(sub)
	})
	if err != nil {
		return nil, err
	}

	return &dto.PurchaseSubscriptionResponse{
		SubscriptionID: sub.ID,
		PaymentID:      payment.ID,
		StartDate:      dateutil.Format(startDate),
		EndDate:        dateutil.Format(endDate),
	}, nil
}

// GetByID 获取订阅
func (s *SubscriptionService) GetByID(id int64) (*model.Subscription, error) {
	sub, err := s.subRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// ListByUser 会员查看自己的订阅
func (s *SubscriptionService) ListByUser(userID int64) ([]model.Subscription, error) {
	return s.subRepo.ListByUser(userID)
}

// Revenue 营收统计，只计当前激活订阅
func (s *SubscriptionService) Revenue() (*dto.RevenueReport, error) {
	total, err := s.subRepo.RevenueTotal()
	if err != nil {
		return nil, err
	}

	byPlan, err := s.subRepo.RevenueByPlan()
	if err != nil {
		return nil, err
	}

	return &dto.RevenueReport{
		Total:  total,
		ByPlan: byPlan,
	}, nil
}
