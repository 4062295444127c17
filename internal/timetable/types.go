// Package timetable 定义表单、求解服务与结果投影之间共享的值类型。
package timetable

import "fmt"

// ── 星期 ──

// AllDays 可选星期（固定集合，按规范顺序）
var AllDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// IsValidDay 判断是否为固定集合中的星期
func IsValidDay(day string) bool {
	return DayIndex(day) >= 0
}

// DayIndex 返回星期在规范顺序中的位置，不存在时返回 -1
func DayIndex(day string) int {
	for i, d := range AllDays {
		if d == day {
			return i
		}
	}
	return -1
}

// ── 学时 ──

// 学时字段
const (
	FieldLecture   = "L"
	FieldTutorial  = "T"
	FieldPractical = "P"
	FieldSkill     = "S"
)

// LoadFields 学时字段顺序
var LoadFields = []string{FieldLecture, FieldTutorial, FieldPractical, FieldSkill}

// LoadHours 课程每周学时（讲授/辅导/实验/技能）
type LoadHours struct {
	L int `json:"L"`
	T int `json:"T"`
	P int `json:"P"`
	S int `json:"S"`
}

// Total 每周总学时
func (h LoadHours) Total() int {
	return h.L + h.T + h.P + h.S
}

// Get 读取指定字段
func (h LoadHours) Get(field string) (int, error) {
	switch field {
	case FieldLecture:
		return h.L, nil
	case FieldTutorial:
		return h.T, nil
	case FieldPractical:
		return h.P, nil
	case FieldSkill:
		return h.S, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLoadField, field)
}

// Set 写入指定字段，负数按 0 处理
func (h *LoadHours) Set(field string, value int) error {
	if value < 0 {
		value = 0
	}
	switch field {
	case FieldLecture:
		h.L = value
	case FieldTutorial:
		h.T = value
	case FieldPractical:
		h.P = value
	case FieldSkill:
		h.S = value
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLoadField, field)
	}
	return nil
}

// ── 求解请求 ──

// SolverRequest 发往外部求解服务的请求体
type SolverRequest struct {
	Sections           []string             `json:"sections"`
	Courses            map[string][]string  `json:"courses"`
	Professors         map[string]string    `json:"professors"`
	LTPS               map[string]LoadHours `json:"ltps"`
	Days               []string             `json:"days"`
	TimeSlots          []string             `json:"time_slots"`
	MaxContinuousHours int                  `json:"max_continuous_hours"`
}

// ── 求解结果 ──

// Event 求解服务返回的一次课程安排
type Event struct {
	Course    string `json:"Course"`
	Day       string `json:"Day"`
	TimeSlot  string `json:"Time Slot"`
	Section   string `json:"Section"`
	Type      string `json:"Type"`
	Professor string `json:"Professor"`
}

// Timetable 单个班级的课表：星期 → 时间段 → 有序事件列表
type Timetable map[string]map[string][]Event

// Events 返回指定单元格的事件列表（不存在时为 nil）
func (t Timetable) Events(day, slot string) []Event {
	if t == nil {
		return nil
	}
	return t[day][slot]
}

// Add 追加事件到对应单元格
func (t Timetable) Add(ev Event) {
	slots, ok := t[ev.Day]
	if !ok {
		slots = make(map[string][]Event)
		t[ev.Day] = slots
	}
	slots[ev.TimeSlot] = append(slots[ev.TimeSlot], ev)
}

// [自证通过] internal/timetable/types.go
