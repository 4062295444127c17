package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SWESH1K/TimeTableGenerator/internal/service"
	"github.com/SWESH1K/TimeTableGenerator/pkg/response"
)

// CatalogHandler 课程目录 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListCourses 课程目录
// GET /api/v1/catalog/courses
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalogSvc.ListCourses(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": courses})
}

// ListProfessors 教师名单
// GET /api/v1/catalog/professors
func (h *CatalogHandler) ListProfessors(c *gin.Context) {
	profs, err := h.catalogSvc.ListProfessors(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": profs})
}
