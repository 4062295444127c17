package timetable

import (
	"errors"
	"strings"
)

// ErrInvalidLoadField 学时字段不是 L/T/P/S 之一
var ErrInvalidLoadField = errors.New("无效的学时字段")

// 提交前必填项
const (
	FieldSections  = "sections"
	FieldDays      = "days"
	FieldCourses   = "courses"
	FieldTimeSlots = "time_slots"
)

// ValidationError 提交前校验失败，列出缺失的必填项
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "缺少必填项: " + strings.Join(e.Fields, ", ")
}

// Has 判断是否包含指定缺失项
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}
