package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/SWESH1K/TimeTableGenerator/internal/service"
	"github.com/SWESH1K/TimeTableGenerator/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportExcel 导出课表为 Excel
// GET /api/v1/export/excel
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	buf, filename, err := h.exportSvc.ExportExcel(c.Request.Context(), sessionID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	attachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportICS 导出课表为 iCalendar
// GET /api/v1/export/ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	buf, filename, err := h.exportSvc.ExportICS(c.Request.Context(), sessionID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	attachment(c, filename, contentTypeICS, buf.Bytes())
}

// attachment 设置下载响应头并写入文件内容
func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoResult):
		response.NotFound(c, 40001, "尚未生成课表，无法导出")
	case errors.Is(err, service.ErrExportInvalidTime):
		response.ErrorWithDetails(c, http.StatusInternalServerError, 40002, "导出时间配置无效", err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 20001, "编辑会话不存在或已过期")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 40003, "生成导出文件失败")
	default:
		response.InternalError(c)
	}
}
