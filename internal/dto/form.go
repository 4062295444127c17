package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/SWESH1K/TimeTableGenerator/internal/assignment"
	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
)

// ── 编辑会话 DTO ──

// CreateSessionResponse 创建会话响应
type CreateSessionResponse struct {
	SessionID string       `json:"session_id"`
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	State     SessionState `json:"state"`
}

// SlotStateResponse 课程行
type SlotStateResponse struct {
	Index    int      `json:"index"`
	CourseID string   `json:"course_id"`
	Sections []string `json:"sections"`
}

// SessionState 表单状态
type SessionState struct {
	Sections           []string                       `json:"sections"`
	Courses            []SlotStateResponse            `json:"courses"`
	Professors         map[string]string              `json:"professors"`
	LTPS               map[string]timetable.LoadHours `json:"ltps"`
	Days               []string                       `json:"days"`
	TimeSlots          []string                       `json:"time_slots"`
	MaxContinuousHours int                            `json:"max_continuous_hours"`
	FallbackPolicy     string                         `json:"fallback_policy"`
	HasResult          bool                           `json:"has_result"`
}

// NewSessionState 由快照构建响应，空集合统一输出 []
func NewSessionState(st assignment.State, hasResult bool) SessionState {
	out := SessionState{
		Sections:           nonNil(st.Sections),
		Courses:            make([]SlotStateResponse, 0, len(st.Slots)),
		Professors:         st.Professors,
		LTPS:               st.LoadHours,
		Days:               nonNil(st.Days),
		TimeSlots:          nonNil(st.TimeSlots),
		MaxContinuousHours: st.MaxContinuousHours,
		FallbackPolicy:     st.FallbackPolicy,
		HasResult:          hasResult,
	}
	for _, s := range st.Slots {
		out.Courses = append(out.Courses, SlotStateResponse{
			Index:    s.Index,
			CourseID: s.CourseID,
			Sections: nonNil(s.Sections),
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ── 表单修改请求 ──

// RenameSectionRequest 重命名班级
type RenameSectionRequest struct {
	ID string `json:"id" binding:"required,max=20,excludesall=/?#%"`
}

// SetCourseRequest 设置课程行；course_id 为空表示清空该行
type SetCourseRequest struct {
	CourseID string `json:"course_id" binding:"max=20"`
}

// SetProfessorRequest 设置课程教师；name 为空表示删除
type SetProfessorRequest struct {
	Name string `json:"name" binding:"max=100"`
}

// SetValueRequest 数值字段（课时、最大连续课时），接受数字或字符串
type SetValueRequest struct {
	Value LooseString `json:"value"`
}

// SetTimeSlotsRequest 设置时间段，逗号分隔
type SetTimeSlotsRequest struct {
	TimeSlots string `json:"time_slots"`
}

// ToggleResponse 切换类操作结果
type ToggleResponse struct {
	Selected bool         `json:"selected"`
	State    SessionState `json:"state"`
}

// ValueResponse 数值字段写入后的实际值
type ValueResponse struct {
	Value int          `json:"value"`
	State SessionState `json:"state"`
}

// LooseString 同时接受 JSON 字符串、数字与 null 的原始文本
// 表单输入框的值由服务端统一做宽松整数解析
type LooseString string

// UnmarshalJSON 字符串取其内容，其余字面量保留原文
func (s *LooseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = LooseString(v)
		return nil
	}
	if string(b) == "null" {
		*s = ""
		return nil
	}
	*s = LooseString(strings.TrimSpace(string(b)))
	return nil
}
