package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/model/dto"
	"github.com/devisgym/gym_go_server/internal/repository"
)

var ErrInvalidSessionTime = errors.New("开始时刻不在场次时间带内")

// CatalogService 套餐与时段目录维护
type CatalogService struct {
	planRepo *repository.PlanRepository
	slotRepo *repository.TimeSlotRepository
}

func NewCatalogService(planRepo *repository.PlanRepository, slotRepo *repository.TimeSlotRepository) *CatalogService {
	return &CatalogService{
		planRepo: planRepo,
		slotRepo: slotRepo,
	}
}

// ListPlans 列出全部套餐
func (s *CatalogService) ListPlans() ([]model.Plan, error) {
	return s.planRepo.List()
}

// GetPlan 获取套餐
func (s *CatalogService) GetPlan(id int64) (*model.Plan, error) {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// ListAvailableSlots 列出可预约时段
func (s *CatalogService) ListAvailableSlots() ([]model.TimeSlot, error) {
	return s.slotRepo.ListAvailable()
}

// ListAllSlots 员工查看全部时段
func (s *CatalogService) ListAllSlots() ([]model.TimeSlot, error) {
	return s.slotRepo.List()
}

// CreateSlot 新建时段。声明了场次的时段，开始时刻必须落在场次的
// 固定时间带内，越界直接报错而不是静默修正。
func (s *CatalogService) CreateSlot(req *dto.TimeSlotRequest) (*model.TimeSlot, error) {
	if err := validateSessionTime(req.Session, req.StartTime); err != nil {
		return nil, err
	}

	slot := &model.TimeSlot{
		Session:     req.Session,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}

	if err := s.slotRepo.Create(slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// UpdateSlot 更新时段
func (s *CatalogService) UpdateSlot(id int64, req *dto.TimeSlotRequest) (*model.TimeSlot, error) {
	slot, err := s.slotRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		return nil, err
	}

	if err := validateSessionTime(req.Session, req.StartTime); err != nil {
		return nil, err
	}

	slot.Session = req.Session
	slot.StartTime = req.StartTime
	slot.EndTime = req.EndTime
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}

	if err := s.slotRepo.Update(slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// validateSessionTime "HH:MM" 字符串按字典序比较即按时刻比较
func validateSessionTime(session, startTime string) error {
	if session == "" {
		return nil
	}

	windowStart, windowEnd, ok := model.SessionWindow(session)
	if !ok {
		return ErrInvalidSessionTime
	}
	if startTime < windowStart || startTime > windowEnd {
		return ErrInvalidSessionTime
	}
	return nil
}
