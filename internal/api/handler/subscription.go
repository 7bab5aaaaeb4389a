package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/devisgym/gym_go_server/internal/api/middleware"
	"github.com/devisgym/gym_go_server/internal/model/dto"
	"github.com/devisgym/gym_go_server/internal/pkg/response"
	"github.com/devisgym/gym_go_server/internal/service"
)

type SubscriptionHandler struct {
	subService *service.SubscriptionService
}

func NewSubscriptionHandler(subService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subService: subService,
	}
}

// Purchase 购买订阅
// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "请先登录")
		return
	}

	var req dto.PurchaseSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.subService.Purchase(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoPaymentProof):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrInvalidStartDate):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrTimeSlotNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrTimeSlotUnavailable):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "订阅已提交，付款核验通过后生效", resp)
}

// ListMine 查看自己的订阅
// GET /api/v1/subscriptions
func (h *SubscriptionHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "请先登录")
		return
	}

	subs, err := h.subService.ListByUser(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, subs)
}

// Revenue 营收报表（员工）
// GET /api/v1/admin/reports/revenue
func (h *SubscriptionHandler) Revenue(c *gin.Context) {
	report, err := h.subService.Revenue()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, report)
}
