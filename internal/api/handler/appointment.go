package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devisgym/gym_go_server/internal/api/middleware"
	"github.com/devisgym/gym_go_server/internal/model/dto"
	"github.com/devisgym/gym_go_server/internal/pkg/response"
	"github.com/devisgym/gym_go_server/internal/service"
)

type AppointmentHandler struct {
	apptService *service.AppointmentService
}

func NewAppointmentHandler(apptService *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		apptService: apptService,
	}
}

// Book 预约到馆
// POST /api/v1/appointments
func (h *AppointmentHandler) Book(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "请先登录")
		return
	}

	var req dto.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	appt, err := h.apptService.Book(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClosedDay):
			response.ClosedDayError(c, err.Error())
		case errors.Is(err, service.ErrOutOfWindow):
			response.OutOfWindowError(c, err.Error())
		case errors.Is(err, service.ErrDuplicateBooking):
			response.DuplicateBookingError(c, err.Error())
		case errors.Is(err, service.ErrInvalidDate):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrTimeSlotNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrTimeSlotUnavailable):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "预约成功", appt)
}

// ListMine 查看自己的预约
// GET /api/v1/appointments?page=1&page_size=20
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "请先登录")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	appts, total, err := h.apptService.ListByUser(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, page, pageSize, appts)
}

// Cancel 取消预约
// POST /api/v1/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "请先登录")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的预约 ID")
		return
	}

	if err := h.apptService.Cancel(id, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrAppointmentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrNotAppointmentOwner):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "已取消", nil)
}

// ListByDate 某日全部预约（员工）
// GET /api/v1/admin/appointments?date=2026-04-08
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.ParamError(c, "缺少 date 参数")
		return
	}

	appts, err := h.apptService.ListByDate(date)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.Success(c, appts)
}

// Confirm 确认预约（员工）
// POST /api/v1/admin/appointments/:id/confirm
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的预约 ID")
		return
	}

	if err := h.apptService.Confirm(id); err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "已确认", nil)
}
