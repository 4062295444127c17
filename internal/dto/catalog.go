package dto

import "github.com/SWESH1K/TimeTableGenerator/internal/timetable"

// ── 目录模块 DTO ──

// CourseResponse 课程目录项
type CourseResponse struct {
	Code string              `json:"code"`
	Name string              `json:"name"`
	LTPS timetable.LoadHours `json:"ltps"`
}

// ProfessorResponse 教师名单项
type ProfessorResponse struct {
	Name string `json:"name"`
}
