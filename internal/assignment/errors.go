package assignment

import "errors"

// ── 排课表单业务错误 ──

var (
	ErrIndexOutOfRange  = errors.New("索引超出范围")
	ErrInvalidSectionID = errors.New("班级标识无效：仅限字母、数字、- 和 _")
	ErrSectionExists    = errors.New("班级标识已存在")
	ErrSectionNotFound  = errors.New("班级不存在")
	ErrInvalidCourseID  = errors.New("课程标识不能为空")
	ErrDuplicateCourse  = errors.New("该课程已在其他课程行中选择")
	ErrInvalidDay       = errors.New("无效的星期")
	ErrNoSections       = errors.New("没有可用的班级")
	ErrUnassignedSlot   = errors.New("课程行未分配班级")
)
