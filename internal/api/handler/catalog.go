package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devisgym/gym_go_server/internal/model/dto"
	"github.com/devisgym/gym_go_server/internal/pkg/response"
	"github.com/devisgym/gym_go_server/internal/service"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListPlans 套餐列表
// GET /api/v1/plans
func (h *CatalogHandler) ListPlans(c *gin.Context) {
	plans, err := h.catalogService.ListPlans()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, plans)
}

// GetPlan 套餐详情
// GET /api/v1/plans/:id
func (h *CatalogHandler) GetPlan(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的套餐 ID")
		return
	}

	plan, err := h.catalogService.GetPlan(id)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.Success(c, plan)
}

// ListTimeSlots 可预约时段列表
// GET /api/v1/time-slots
func (h *CatalogHandler) ListTimeSlots(c *gin.Context) {
	slots, err := h.catalogService.ListAvailableSlots()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, slots)
}

// ListAllTimeSlots 全部时段（员工）
// GET /api/v1/admin/time-slots
func (h *CatalogHandler) ListAllTimeSlots(c *gin.Context) {
	slots, err := h.catalogService.ListAllSlots()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, slots)
}

// CreateTimeSlot 新建时段（员工）
// POST /api/v1/admin/time-slots
func (h *CatalogHandler) CreateTimeSlot(c *gin.Context) {
	var req dto.TimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	slot, err := h.catalogService.CreateSlot(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSessionTime) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.Success(c, slot)
}

// UpdateTimeSlot 更新时段（员工）
// PUT /api/v1/admin/time-slots/:id
func (h *CatalogHandler) UpdateTimeSlot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的时段 ID")
		return
	}

	var req dto.TimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	slot, err := h.catalogService.UpdateSlot(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTimeSlotNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidSessionTime):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, slot)
}
