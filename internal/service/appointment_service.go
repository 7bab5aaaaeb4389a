package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/model/dto"
	"github.com/devisgym/gym_go_server/internal/pkg/dateutil"
	"github.com/devisgym/gym_go_server/internal/repository"
)

var (
	ErrClosedDay           = errors.New("当日闭馆")
	ErrOutOfWindow         = errors.New("不在订阅有效期内")
	ErrDuplicateBooking    = errors.New("当日已有预约")
	ErrAppointmentNotFound = errors.New("预约不存在")
	ErrNotAppointmentOwner = errors.New("只能操作自己的预约")
	ErrInvalidDate         = errors.New("日期格式不正确")
)

// AppointmentMailer 预约确认邮件发送
type AppointmentMailer interface {
	SendAppointmentConfirmed(to, username, date, slotLabel string) error
}

type AppointmentService struct {
	apptRepo      *repository.AppointmentRepository
	subRepo       *repository.SubscriptionRepository
	slotRepo      *repository.TimeSlotRepository
	userRepo      *repository.UserRepository
	email         AppointmentMailer
	closedWeekday time.Weekday
}

func NewAppointmentService(
	apptRepo *repository.AppointmentRepository,
	subRepo *repository.SubscriptionRepository,
	slotRepo *repository.TimeSlotRepository,
	userRepo *repository.UserRepository,
	email AppointmentMailer,
	closedWeekday int,
) *AppointmentService {
	return &AppointmentService{
		apptRepo:      apptRepo,
		subRepo:       subRepo,
		slotRepo:      slotRepo,
		userRepo:      userRepo,
		email:         email,
		closedWeekday: time.Weekday(closedWeekday),
	}
}

// Book 预约到馆训练。校验顺序：闭馆日 → 订阅有效期 → 当日重复。
// 闭馆日和有效期检查只在带订阅预约时生效。
// 预约时段和订阅时段不做交叉校验，二者有意解耦。
func (s *AppointmentService) Book(userID int64, req *dto.BookAppointmentRequest) (*model.Appointment, error) {
	date, err := dateutil.Parse(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
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

	if req.SubscriptionID != nil {
		sub, err := s.subRepo.GetByID(*req.SubscriptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSubscriptionNotFound
			}
			return nil, err
		}
		if sub.UserID != userID {
			return nil, ErrSubscriptionNotFound
		}

		if date.Weekday() == s.closedWeekday {
			return nil, ErrClosedDay
		}

		start := dateutil.Normalize(sub.StartDate)
		end := dateutil.Normalize(sub.EndDate)
		if date.Before(start) || date.After(end) {
			return nil, ErrOutOfWindow
		}
	}

	exists, err := s.apptRepo.ExistsByUserAndDate(userID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateBooking
	}

	appt := &model.Appointment{
		UserID:         userID,
		SubscriptionID: req.SubscriptionID,
		Date:           date,
		TimeSlotID:     slot.ID,
		Status:         model.AppointmentStatusPending,
	}
	if err := s.apptRepo.Create(appt); err != nil {
		return nil, err
	}

	s.sendConfirmation(userID, date, slot)

	appt.TimeSlot = slot
	return appt, nil
}

// Cancel 取消预约，仅限本人。软删除，记录保留。
func (s *AppointmentService) Cancel(appointmentID, requesterID int64) error {
	appt, err := s.apptRepo.GetByID(appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}

	if appt.UserID != requesterID {
		return ErrNotAppointmentOwner
	}

	return s.apptRepo.UpdateStatus(appointmentID, model.AppointmentStatusCancelled)
}

// Confirm 员工确认预约
func (s *AppointmentService) Confirm(appointmentID int64) error {
	if _, err := s.apptRepo.GetByID(appointmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}
	return s.apptRepo.UpdateStatus(appointmentID, model.AppointmentStatusConfirmed)
}

// ListByUser 会员查看自己的预约
func (s *AppointmentService) ListByUser(userID int64, page, pageSize int) ([]model.Appointment, int64, error) {
	return s.apptRepo.ListByUser(userID, page, pageSize)
}

// ListByDate 员工查看某日全部预约
func (s *AppointmentService) ListByDate(date string) ([]model.Appointment, error) {
	d, err := dateutil.Parse(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return s.apptRepo.ListByDate(d)
}

// sendConfirmation 预约确认邮件，失败只记日志
func (s *AppointmentService) sendConfirmation(userID int64, date time.Time, slot *model.TimeSlot) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		log.Printf("Appointment: failed to load user %d for confirmation email: %v", userID, err)
		return
	}
	if user.Email == nil {
		return
	}

	if err := s.email.SendAppointmentConfirmed(
		*user.Email, user.Username, dateutil.Format(date), slot.Label()); err != nil {
		log.Printf("Appointment: confirmation email to user %d failed: %v", userID, err)
	}
}
