package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SWESH1K/TimeTableGenerator/internal/projector"
	"github.com/SWESH1K/TimeTableGenerator/internal/service"
	"github.com/SWESH1K/TimeTableGenerator/internal/solver"
	"github.com/SWESH1K/TimeTableGenerator/pkg/response"
)

// GenerateHandler 排课生成 HTTP 处理器
type GenerateHandler struct {
	generateSvc service.GenerateService
}

// NewGenerateHandler 创建 GenerateHandler
func NewGenerateHandler(generateSvc service.GenerateService) *GenerateHandler {
	return &GenerateHandler{generateSvc: generateSvc}
}

// Generate 提交表单到求解服务
// POST /api/v1/generate
func (h *GenerateHandler) Generate(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	result, err := h.generateSvc.Generate(c.Request.Context(), sessionID)
	if err != nil {
		h.handleGenerateError(c, err)
		return
	}
	response.OK(c, result)
}

// GetResult 最近一次生成的课表与汇总
// GET /api/v1/result
func (h *GenerateHandler) GetResult(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	result, err := h.generateSvc.Result(c.Request.Context(), sessionID)
	if err != nil {
		h.handleGenerateError(c, err)
		return
	}
	response.OK(c, result)
}

// handleGenerateError 统一处理排课生成错误；表单类错误交给 handleFormError
func (h *GenerateHandler) handleGenerateError(c *gin.Context, err error) {
	var se *solver.Error
	switch {
	case errors.As(err, &se):
		// 求解服务的原因直接展示给用户；4xx 说明请求内容不可解（如课时不足），其余视为上游故障
		if se.Status >= 400 && se.Status < 500 {
			response.UnprocessableEntity(c, 30001, se.Message, "")
		} else {
			response.BadGateway(c, 30001, se.Message)
		}
	case errors.Is(err, solver.ErrUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 30002, "排课求解服务不可用，请稍后重试")
	case errors.Is(err, service.ErrStaleResponse):
		response.Conflict(c, 30003, "已有更新的排课请求，本次结果已丢弃")
	case errors.Is(err, service.ErrNoResult):
		response.NotFound(c, 30004, "尚未生成课表")
	case errors.Is(err, projector.ErrMalformedResponse):
		response.BadGateway(c, 30005, "求解结果格式无效")
	default:
		handleFormError(c, err)
	}
}
