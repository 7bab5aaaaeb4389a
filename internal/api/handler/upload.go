package handler

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devisgym/gym_go_server/config"
	"github.com/devisgym/gym_go_server/internal/api/middleware"
	"github.com/devisgym/gym_go_server/internal/pkg/oss"
	"github.com/devisgym/gym_go_server/internal/pkg/response"
)

type UploadHandler struct {
	ossClient *oss.Client
	cfg       *config.Config
}

// NewUploadHandler ossClient 未配置时可传 nil，上传接口返回不可用错误
func NewUploadHandler(ossClient *oss.Client, cfg *config.Config) *UploadHandler {
	return &UploadHandler{
		ossClient: ossClient,
		cfg:       cfg,
	}
}

// UploadScreenshot 上传付款截图
// POST /api/v1/upload/screenshot
func (h *UploadHandler) UploadScreenshot(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "请先登录")
		return
	}

	data, ext, ok := h.readImage(c)
	if !ok {
		return
	}

	url, err := h.ossClient.UploadPaymentScreenshot(userID, data, ext)
	if err != nil {
		response.ServerError(c, "上传失败")
		return
	}

	response.Success(c, gin.H{"url": url})
}

// UploadQRCode 上传收款码图片（员工）
// POST /api/v1/admin/upload/qr-code
func (h *UploadHandler) UploadQRCode(c *gin.Context) {
	data, ext, ok := h.readImage(c)
	if !ok {
		return
	}

	url, err := h.ossClient.UploadQRCode(data, ext)
	if err != nil {
		response.ServerError(c, "上传失败")
		return
	}

	response.Success(c, gin.H{"url": url})
}

// readImage 读取并校验 multipart 图片文件
func (h *UploadHandler) readImage(c *gin.Context) ([]byte, string, bool) {
	if h.ossClient == nil {
		response.ServerError(c, "文件存储未配置")
		return nil, "", false
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.ParamError(c, "请上传文件")
		return nil, "", false
	}
	defer file.Close()

	if header.Size > h.cfg.Upload.MaxSize {
		response.ParamError(c, "文件过大")
		return nil, "", false
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, allowedExt := range h.cfg.Upload.AllowedExtensions {
		if ext == allowedExt {
			allowed = true
			break
		}
	}
	if !allowed {
		response.ParamError(c, "仅支持图片格式")
		return nil, "", false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "文件读取失败")
		return nil, "", false
	}

	return data, ext, true
}
