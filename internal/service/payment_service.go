package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/model/dto"
	"github.com/devisgym/gym_go_server/internal/pkg/dateutil"
	"github.com/devisgym/gym_go_server/internal/pkg/pubsub"
	"github.com/devisgym/gym_go_server/internal/repository"
)

var (
	ErrNoPaymentProof  = errors.New("请提供付款截图或交易码")
	ErrPaymentNotFound = errors.New("付款记录不存在")
	ErrPlanNotFound    = errors.New("套餐不存在")
	ErrQRCodeNotFound  = errors.New("收款码不存在")
)

// ConfirmationSender 订阅确认邮件发送
type ConfirmationSender interface {
	SendSubscriptionConfirmed(to, username, planName, slotLabel, startDate, endDate string) error
}

// NotifyPublisher 在线推送发布
type NotifyPublisher interface {
	PublishNotify(ctx context.Context, msg *pubsub.NotifyMessage) error
}

type PaymentService struct {
	db          *gorm.DB
	paymentRepo *repository.PaymentRepository
	subRepo     *repository.SubscriptionRepository
	planRepo    *repository.PlanRepository
	notifRepo   *repository.NotificationRepository
	email       ConfirmationSender
	publisher   NotifyPublisher
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo *repository.PaymentRepository,
	subRepo *repository.SubscriptionRepository,
	planRepo *repository.PlanRepository,
	notifRepo *repository.NotificationRepository,
	email ConfirmationSender,
	publisher NotifyPublisher,
) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		subRepo:     subRepo,
		planRepo:    planRepo,
		notifRepo:   notifRepo,
		email:       email,
		publisher:   publisher,
	}
}

// Submit 会员提交付款凭证，初始状态 pending。截图和交易码至少填一个。
func (s *PaymentService) Submit(userID int64, req *dto.SubmitPaymentRequest) (*model.Payment, error) {
	if req.ScreenshotURL == "" && req.TransactionCode == "" {
		return nil, ErrNoPaymentProof
	}

	if _, err := s.planRepo.GetByID(req.PlanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	payment := &model.Payment{
		UserID:          userID,
		PlanID:          req.PlanID,
		Amount:          req.Amount,
		Status:          model.PaymentStatusPending,
		ScreenshotURL:   req.ScreenshotURL,
		TransactionCode: req.TransactionCode,
	}

	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	return payment, nil
}

// Verify 员工核验付款。已是 verified 时为幂等空操作，激活和通知只在
// 非 verified → verified 这一次状态变迁上发生。状态更新和订阅激活在
// 同一事务内提交，通知在提交后尽力而为地发送。
func (s *PaymentService) Verify(ctx context.Context, paymentID, staffID int64, notes string) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.Status == model.PaymentStatusVerified {
		return payment, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{
			"status":      model.PaymentStatusVerified,
			"verified_by": staffID,
		}
		if notes != "" {
			fields["verification_notes"] = notes
		}
		if err := s.paymentRepo.WithTx(tx).UpdateFields(paymentID, fields); err != nil {
			return err
		}

		// 引用该付款的全部订阅一并激活，不止第一条
		if _, err := s.subRepo.WithTx(tx).ActivateByPaymentID(paymentID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	payment.Status = model.PaymentStatusVerified
	payment.VerifiedBy = &staffID
	if notes != "" {
		payment.VerificationNotes = notes
	}

	s.notifyActivated(ctx, paymentID)

	return payment, nil
}

// Reject 员工驳回付款，置为 failed。不触碰任何订阅：
// 付款记录是证据，驳回不会反向停用已激活的订阅。
func (s *PaymentService) Reject(paymentID, staffID int64, notes string) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{
		"status":      model.PaymentStatusFailed,
		"verified_by": staffID,
	}
	if notes != "" {
		fields["verification_notes"] = notes
	}
	if err := s.paymentRepo.UpdateFields(paymentID, fields); err != nil {
		return nil, err
	}

	payment.Status = model.PaymentStatusFailed
	payment.VerifiedBy = &staffID
	if notes != "" {
		payment.VerificationNotes = notes
	}
	return payment, nil
}

// BulkVerify 批量核验，逐条执行，单条失败不影响其余
func (s *PaymentService) BulkVerify(ctx context.Context, staffID int64, req *dto.BulkPaymentRequest) []dto.BulkPaymentResult {
	results := make([]dto.BulkPaymentResult, 0, len(req.PaymentIDs))
	for _, id := range req.PaymentIDs {
		result := dto.BulkPaymentResult{PaymentID: id, OK: true}
		if _, err := s.Verify(ctx, id, staffID, req.Notes); err != nil {
			result.OK = false
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// BulkReject 批量驳回
func (s *PaymentService) BulkReject(staffID int64, req *dto.BulkPaymentRequest) []dto.BulkPaymentResult {
	results := make([]dto.BulkPaymentResult, 0, len(req.PaymentIDs))
	for _, id := range req.PaymentIDs {
		result := dto.BulkPaymentResult{PaymentID: id, OK: true}
		if _, err := s.Reject(id, staffID, req.Notes); err != nil {
			result.OK = false
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// GetByID 获取付款记录
func (s *PaymentService) GetByID(paymentID int64) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// ListByUser 会员查看自己的付款记录
func (s *PaymentService) ListByUser(userID int64) ([]model.Payment, error) {
	return s.paymentRepo.ListByUser(userID)
}

// ListByStatus 员工按状态筛选付款记录
func (s *PaymentService) ListByStatus(status string, page, pageSize int) ([]model.Payment, int64, error) {
	return s.paymentRepo.ListByStatus(status, page, pageSize)
}

// notifyActivated 核验提交后给每条被激活的订阅发确认通知，失败只记日志
func (s *PaymentService) notifyActivated(ctx context.Context, paymentID int64) {
	subs, err := s.subRepo.ListByPaymentID(paymentID)
	if err != nil {
		log.Printf("Payment %d: failed to list subscriptions for notification: %v", paymentID, err)
		return
	}

	for i := range subs {
		sub := &subs[i]
		if sub.User == nil || sub.User.Email == nil || sub.Plan == nil {
			log.Printf("Payment %d: subscription %d missing user email or plan, skip notification", paymentID, sub.ID)
			continue
		}

		slotLabel := ""
		if sub.TimeSlot != nil {
			slotLabel = sub.TimeSlot.Label()
		}
		startDate := dateutil.Format(sub.StartDate)
		endDate := dateutil.Format(sub.EndDate)

		if err := s.email.SendSubscriptionConfirmed(
			*sub.User.Email, sub.User.Username, sub.Plan.Name, slotLabel, startDate, endDate); err != nil {
			log.Printf("Payment %d: confirmation email for subscription %d failed: %v", paymentID, sub.ID, err)
		}

		n := &model.Notification{
			Title:   "订阅已生效",
			Message: "您订阅的「" + sub.Plan.Name + "」已核验通过，有效期 " + startDate + " 至 " + endDate + "。",
			Type:    model.NotificationTypeGeneral,
		}
		if _, err := s.notifRepo.CreateBroadcast(n, []int64{sub.UserID}); err != nil {
			log.Printf("Payment %d: in-app notification for subscription %d failed: %v", paymentID, sub.ID, err)
		}

		if s.publisher != nil {
			msg := &pubsub.NotifyMessage{
				Event:          pubsub.EventSubscriptionApproved,
				UserID:         sub.UserID,
				NotificationID: n.ID,
				Title:          n.Title,
				Message:        n.Message,
				Type:           n.Type,
			}
			if err := s.publisher.PublishNotify(ctx, msg); err != nil {
				log.Printf("Payment %d: push for subscription %d failed: %v", paymentID, sub.ID, err)
			}
		}
	}
}

// --- 收款码维护 ---

// CreateQRCode 新建收款码
func (s *PaymentService) CreateQRCode(req *dto.QRCodeRequest) (*model.PaymentQRCode, error) {
	qr := &model.PaymentQRCode{
		PaymentMethod:  req.PaymentMethod,
		QRCodeURL:      req.QRCodeURL,
		AccountDetails: req.AccountDetails,
		IsActive:       true,
	}
	if req.IsActive != nil {
		qr.IsActive = *req.IsActive
	}

	if err := s.paymentRepo.CreateQRCode(qr); err != nil {
		return nil, err
	}
	return qr, nil
}

// UpdateQRCode 更新收款码
func (s *PaymentService) UpdateQRCode(id int64, req *dto.QRCodeRequest) (*model.PaymentQRCode, error) {
	qr, err := s.paymentRepo.GetQRCodeByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQRCodeNotFound
		}
		return nil, err
	}

	qr.PaymentMethod = req.PaymentMethod
	if req.QRCodeURL != "" {
		qr.QRCodeURL = req.QRCodeURL
	}
	qr.AccountDetails = req.AccountDetails
	if req.IsActive != nil {
		qr.IsActive = *req.IsActive
	}

	if err := s.paymentRepo.UpdateQRCode(qr); err != nil {
		return nil, err
	}
	return qr, nil
}

// ListActiveQRCodes 会员查看可用收款码
func (s *PaymentService) ListActiveQRCodes() ([]model.PaymentQRCode, error) {
	return s.paymentRepo.ListActiveQRCodes()
}
