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

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Submit 提交付款凭证
// POST /api/v1/payments
func (h *PaymentHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "请先登录")
		return
	}

	var req dto.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	payment, err := h.paymentService.Submit(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoPaymentProof):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "付款凭证已提交，等待核验", payment)
}

// ListMine 查看自己的付款记录
// GET /api/v1/payments
func (h *PaymentHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "请先登录")
		return
	}

	payments, err := h.paymentService.ListByUser(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, payments)
}

// ListQRCodes 可用收款码
// GET /api/v1/payments/qr-codes
func (h *PaymentHandler) ListQRCodes(c *gin.Context) {
	qrs, err := h.paymentService.ListActiveQRCodes()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, qrs)
}

// --- 员工操作 ---

// ListByStatus 按状态筛选付款记录（员工）
// GET /api/v1/admin/payments?status=pending&page=1&page_size=20
func (h *PaymentHandler) ListByStatus(c *gin.Context) {
	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	payments, total, err := h.paymentService.ListByStatus(status, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, page, pageSize, payments)
}

// Verify 核验付款（员工）
// POST /api/v1/admin/payments/:id/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	staffID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "请先登录")
		return
	}

	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的付款 ID")
		return
	}

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	payment, err := h.paymentService.Verify(c.Request.Context(), paymentID, staffID, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "核验通过", payment)
}

// Reject 驳回付款（员工）
// POST /api/v1/admin/payments/:id/reject
func (h *PaymentHandler) Reject(c *gin.Context) {
	staffID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "请先登录")
		return
	}

	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的付款 ID")
		return
	}

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	payment, err := h.paymentService.Reject(paymentID, staffID, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "已驳回", payment)
}

// BulkVerify 批量核验（员工）
// POST /api/v1/admin/payments/bulk-verify
func (h *PaymentHandler) BulkVerify(c *gin.Context) {
	staffID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "请先登录")
		return
	}

	var req dto.BulkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	results := h.paymentService.BulkVerify(c.Request.Context(), staffID, &req)
	response.Success(c, results)
}

// BulkReject 批量驳回（员工）
// POST /api/v1/admin/payments/bulk-reject
func (h *PaymentHandler) BulkReject(c *gin.Context) {
	staffID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "请先登录")
		return
	}

	var req dto.BulkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	results := h.paymentService.BulkReject(staffID, &req)
	response.Success(c, results)
}

// CreateQRCode 新建收款码（员工）
// POST /api/v1/admin/qr-codes
func (h *PaymentHandler) CreateQRCode(c *gin.Context) {
	var req dto.QRCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	qr, err := h.paymentService.CreateQRCode(&req)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, qr)
}

// UpdateQRCode 更新收款码（员工）
// PUT /api/v1/admin/qr-codes/:id
func (h *PaymentHandler) UpdateQRCode(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的收款码 ID")
		return
	}

	var req dto.QRCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	qr, err := h.paymentService.UpdateQRCode(id, &req)
	if err != nil {
		if errors.Is(err, service.ErrQRCodeNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.Success(c, qr)
}
