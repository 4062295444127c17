package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SWESH1K/TimeTableGenerator/internal/assignment"
	"github.com/SWESH1K/TimeTableGenerator/internal/dto"
	"github.com/SWESH1K/TimeTableGenerator/internal/service"
	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
	"github.com/SWESH1K/TimeTableGenerator/pkg/response"
)

// FormHandler 排课表单 HTTP 处理器
type FormHandler struct {
	formSvc service.FormService
}

// NewFormHandler 创建 FormHandler
func NewFormHandler(formSvc service.FormService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

// ── 会话 ──

// CreateSession 创建编辑会话并签发会话令牌
// POST /api/v1/sessions
func (h *FormHandler) CreateSession(c *gin.Context) {
	result, err := h.formSvc.CreateSession(c.Request.Context())
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.Created(c, result)
}

// GetSession 当前表单状态
// GET /api/v1/sessions/current
func (h *FormHandler) GetSession(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	st, err := h.formSvc.State(c.Request.Context(), sessionID)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, st)
}

// DeleteSession 结束会话并吊销令牌
// DELETE /api/v1/sessions/current
func (h *FormHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	jti, remaining := tokenInfo(c)
	if err := h.formSvc.DeleteSession(c.Request.Context(), sessionID, jti, remaining); err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── 班级 ──

// AddSection 追加班级
// POST /api/v1/sections
func (h *FormHandler) AddSection(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	st, err := h.formSvc.AddSection(c.Request.Context(), sessionID)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.Created(c, st)
}

// RenameSection 重命名班级
// PUT /api/v1/sections/:index
func (h *FormHandler) RenameSection(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	index, ok := mustParseIndex(c, "index")
	if !ok {
		return
	}
	var req dto.RenameSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	st, err := h.formSvc.RenameSection(c.Request.Context(), sessionID, index, req.ID)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, st)
}

// RemoveSection 删除班级
// DELETE /api/v1/sections/:index
func (h *FormHandler) RemoveSection(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	index, ok := mustParseIndex(c, "index")
	if !ok {
		return
	}
	st, err := h.formSvc.RemoveSection(c.Request.Context(), sessionID, index)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, st)
}

// ── 课程行 ──

// AddCourse 追加空课程行
// POST /api/v1/courses
func (h *FormHandler) AddCourse(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	st, err := h.formSvc.AddCourseSlot(c.Request.Context(), sessionID)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.Created(c, st)
}

// SetCourse 设置课程行的课程
// PUT /api/v1/courses/:index
func (h *FormHandler) SetCourse(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	index, ok := mustParseIndex(c, "index")
	if !ok {
		return
	}
	var req dto.SetCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	st, err := h.formSvc.SetCourseSlot(c.Request.Context(), sessionID, index, req.CourseID)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, st)
}

// RemoveCourse 删除课程行
// DELETE /api/v1/courses/:index
func (h *FormHandler) RemoveCourse(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	index, ok := mustParseIndex(c, "index")
	if !ok {
		return
	}
	st, err := h.formSvc.RemoveCourseSlot(c.Request.Context(), sessionID, index)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, st)
}

// ToggleAssignment 切换课程行与班级的分配
// POST /api/v1/courses/:index/sections/:section/toggle
func (h *FormHandler) ToggleAssignment(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	index, ok := mustParseIndex(c, "index")
	if !ok {
		return
	}
	result, err := h.formSvc.ToggleSectionAssignment(c.Request.Context(), sessionID, index, c.Param("section"))
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, result)
}

// ── 教师与学时 ──

// SetProfessor 设置课程教师
// PUT /api/v1/professors/:course
func (h *FormHandler) SetProfessor(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	var req dto.SetProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	st, err := h.formSvc.SetProfessor(c.Request.Context(), sessionID, c.Param("course"), req.Name)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, st)
}

// SetLoadHours 设置课程某一学时字段（L/T/P/S）
// PUT /api/v1/ltps/:course/:field
func (h *FormHandler) SetLoadHours(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	var req dto.SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	field := strings.ToUpper(c.Param("field"))
	result, err := h.formSvc.SetLoadHours(c.Request.Context(), sessionID, c.Param("course"), field, string(req.Value))
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, result)
}

// ── 星期、时间段、连续课时 ──

// ToggleDay 切换星期
// POST /api/v1/days/:day/toggle
func (h *FormHandler) ToggleDay(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	result, err := h.formSvc.ToggleDay(c.Request.Context(), sessionID, c.Param("day"))
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, result)
}

// SetTimeSlots 设置时间段
// PUT /api/v1/time-slots
func (h *FormHandler) SetTimeSlots(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	var req dto.SetTimeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	st, err := h.formSvc.SetTimeSlots(c.Request.Context(), sessionID, req.TimeSlots)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, st)
}

// SetMaxContinuousHours 设置最大连续课时
// PUT /api/v1/max-continuous-hours
func (h *FormHandler) SetMaxContinuousHours(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	var req dto.SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	result, err := h.formSvc.SetMaxContinuousHours(c.Request.Context(), sessionID, string(req.Value))
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, result)
}

// Preview 预览求解请求
// GET /api/v1/payload
func (h *FormHandler) Preview(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	req, err := h.formSvc.Preview(c.Request.Context(), sessionID)
	if err != nil {
		h.handleFormError(c, err)
		return
	}
	response.OK(c, req)
}

// handleFormError 统一处理表单模块业务错误
func (h *FormHandler) handleFormError(c *gin.Context, err error) {
	handleFormError(c, err)
}

func handleFormError(c *gin.Context, err error) {
	var ve *timetable.ValidationError
	switch {
	case errors.As(err, &ve):
		response.UnprocessableEntity(c, 20010, "表单未填写完整", strings.Join(ve.Fields, ","))
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 20001, "编辑会话不存在或已过期")
	case errors.Is(err, assignment.ErrIndexOutOfRange):
		response.NotFound(c, 20002, "索引超出范围")
	case errors.Is(err, assignment.ErrInvalidSectionID):
		response.BadRequest(c, 20003, "班级标识无效：仅限字母、数字、- 和 _")
	case errors.Is(err, assignment.ErrSectionExists):
		response.Conflict(c, 20004, "班级标识已存在")
	case errors.Is(err, assignment.ErrSectionNotFound):
		response.NotFound(c, 20005, "班级不存在")
	case errors.Is(err, assignment.ErrInvalidCourseID):
		response.BadRequest(c, 20006, "课程标识不能为空")
	case errors.Is(err, assignment.ErrDuplicateCourse):
		response.Conflict(c, 20007, "该课程已在其他课程行中选择")
	case errors.Is(err, assignment.ErrInvalidDay):
		response.BadRequest(c, 20008, "无效的星期")
	case errors.Is(err, timetable.ErrInvalidLoadField):
		response.BadRequest(c, 20009, "学时字段只能为 L、T、P、S")
	case errors.Is(err, assignment.ErrUnassignedSlot):
		response.UnprocessableEntity(c, 20011, "存在未分配班级的课程行", err.Error())
	case errors.Is(err, assignment.ErrNoSections):
		response.UnprocessableEntity(c, 20012, "没有可用的班级", "")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/form_handler.go
