// Package assignment 实现排课表单背后的内存关系模型：
// 班级、有序课程行、课程 → 教师、课程 → 学时，以及课程行 → 班级的多对多分配。
//
// 设计说明：
//   - 课程行按位置寻址；分配关系挂在课程行自身上，删除课程行时后续行的分配随位置整体前移
//   - 教师与学时以课程标识为唯一键，同一课程只允许出现在一个课程行中（ErrDuplicateCourse）
//   - 未分配班级的课程行交由 FallbackPolicy 决定去向
//   - Graph 非并发安全，由会话层串行化访问
package assignment

import (
	"strings"

	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
)

// DefaultMaxContinuousHours 最大连续课时默认值
const DefaultMaxContinuousHours = 2

// Catalog 静态课程目录：课程标识 → 默认学时
type Catalog map[string]timetable.LoadHours

// Options Graph 构造参数
type Options struct {
	Catalog            Catalog
	Fallback           FallbackPolicy
	MaxContinuousHours int
}

// courseSlot 课程表单中的一行
type courseSlot struct {
	courseID string              // 空字符串表示尚未选择
	sections map[string]struct{} // 分配到的班级
}

// Graph 一次编辑会话的表单状态
type Graph struct {
	sections      []string
	slots         []*courseSlot
	professors    map[string]string
	loads         map[string]timetable.LoadHours
	days          map[string]bool
	timeSlots     []string
	maxContinuous int

	catalog  Catalog
	fallback FallbackPolicy
}

// New 创建空表单
func New(opts Options) *Graph {
	fallback := opts.Fallback
	if fallback == nil {
		fallback = FirstSectionFallback{}
	}
	maxContinuous := opts.MaxContinuousHours
	if maxContinuous < 1 {
		maxContinuous = DefaultMaxContinuousHours
	}
	return &Graph{
		professors:    make(map[string]string),
		loads:         make(map[string]timetable.LoadHours),
		days:          make(map[string]bool),
		maxContinuous: maxContinuous,
		catalog:       opts.Catalog,
		fallback:      fallback,
	}
}

// ────────────────────── 班级 ──────────────────────

// AddSection 追加班级，标识取序列中第一个未被占用的值
func (g *Graph) AddSection() string {
	for n := 0; ; n++ {
		id := sectionLabel(n)
		if g.sectionIndex(id) < 0 {
			g.sections = append(g.sections, id)
			return id
		}
	}
}

// RenameSection 重命名班级，并改写所有引用旧标识的分配
func (g *Graph) RenameSection(index int, newID string) error {
	if index < 0 || index >= len(g.sections) {
		return ErrIndexOutOfRange
	}
	newID = strings.TrimSpace(newID)
	if !validSectionID(newID) {
		return ErrInvalidSectionID
	}
	oldID := g.sections[index]
	if newID == oldID {
		return nil
	}
	if g.sectionIndex(newID) >= 0 {
		return ErrSectionExists
	}

	g.sections[index] = newID
	for _, s := range g.slots {
		if _, ok := s.sections[oldID]; ok {
			delete(s.sections, oldID)
			s.sections[newID] = struct{}{}
		}
	}
	return nil
}

// RemoveSection 删除班级，并从所有课程行的分配中移除；课程行本身保留
func (g *Graph) RemoveSection(index int) error {
	if index < 0 || index >= len(g.sections) {
		return ErrIndexOutOfRange
	}
	id := g.sections[index]
	g.sections = append(g.sections[:index], g.sections[index+1:]...)
	for _, s := range g.slots {
		delete(s.sections, id)
	}
	return nil
}

// Sections 当前班级（按顺序）
func (g *Graph) Sections() []string {
	return append([]string(nil), g.sections...)
}

func (g *Graph) sectionIndex(id string) int {
	for i, s := range g.sections {
		if s == id {
			return i
		}
	}
	return -1
}

// ────────────────────── 课程行 ──────────────────────

// AddCourseSlot 追加空课程行，返回其索引
func (g *Graph) AddCourseSlot() int {
	g.slots = append(g.slots, &courseSlot{sections: make(map[string]struct{})})
	return len(g.slots) - 1
}

// RemoveCourseSlot 删除课程行；其后课程行（连同分配）索引整体减一
// 被删课程的教师与学时记录一并清理
func (g *Graph) RemoveCourseSlot(index int) error {
	if index < 0 || index >= len(g.slots) {
		return ErrIndexOutOfRange
	}
	removed := g.slots[index]
	g.slots = append(g.slots[:index], g.slots[index+1:]...)

	if removed.courseID != "" && g.slotOfCourse(removed.courseID) < 0 {
		delete(g.professors, removed.courseID)
		delete(g.loads, removed.courseID)
	}
	return nil
}

// SetCourseSlot 设置课程行的课程；空字符串表示清空
// 首次选择目录中的课程且尚无学时记录时，自动填充目录默认学时
func (g *Graph) SetCourseSlot(index int, courseID string) error {
	if index < 0 || index >= len(g.slots) {
		return ErrIndexOutOfRange
	}
	courseID = strings.TrimSpace(courseID)
	if courseID != "" {
		if other := g.slotOfCourse(courseID); other >= 0 && other != index {
			return ErrDuplicateCourse
		}
	}

	g.slots[index].courseID = courseID
	if courseID == "" {
		return nil
	}
	if _, ok := g.loads[courseID]; !ok {
		if defaults, found := g.catalog[courseID]; found {
			g.loads[courseID] = defaults
		}
	}
	return nil
}

// SlotCount 课程行数量
func (g *Graph) SlotCount() int {
	return len(g.slots)
}

func (g *Graph) slotOfCourse(courseID string) int {
	for i, s := range g.slots {
		if s.courseID == courseID {
			return i
		}
	}
	return -1
}

// ────────────────────── 分配 ──────────────────────

// ToggleSectionAssignment 切换课程行与班级的分配关系，返回切换后的状态
func (g *Graph) ToggleSectionAssignment(slotIndex int, sectionID string) (bool, error) {
	if slotIndex < 0 || slotIndex >= len(g.slots) {
		return false, ErrIndexOutOfRange
	}
	if g.sectionIndex(sectionID) < 0 {
		return false, ErrSectionNotFound
	}
	s := g.slots[slotIndex]
	if _, ok := s.sections[sectionID]; ok {
		delete(s.sections, sectionID)
		return false, nil
	}
	s.sections[sectionID] = struct{}{}
	return true, nil
}

// Assignments 课程行索引 → 已分配班级（按班级顺序）；无分配的课程行不出现
func (g *Graph) Assignments() map[int][]string {
	out := make(map[int][]string)
	for i, s := range g.slots {
		if assigned := g.assignedSections(s); len(assigned) > 0 {
			out[i] = assigned
		}
	}
	return out
}

func (g *Graph) assignedSections(s *courseSlot) []string {
	var out []string
	for _, id := range g.sections {
		if _, ok := s.sections[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// ────────────────────── 教师与学时 ──────────────────────

// SetProfessor 设置课程教师；姓名为空时删除映射
func (g *Graph) SetProfessor(courseID, name string) error {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return ErrInvalidCourseID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		delete(g.professors, courseID)
		return nil
	}
	g.professors[courseID] = name
	return nil
}

// SetLoadHours 设置课程某一学时字段，输入宽松解析为非负整数，返回实际写入值
func (g *Graph) SetLoadHours(courseID, field, raw string) (int, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return 0, ErrInvalidCourseID
	}
	value := timetable.CoerceHours(raw)
	h := g.loads[courseID]
	if err := h.Set(field, value); err != nil {
		return 0, err
	}
	g.loads[courseID] = h
	return value, nil
}

// LoadHours 课程学时，不存在时返回零值
func (g *Graph) LoadHours(courseID string) timetable.LoadHours {
	return g.loads[courseID]
}

// ────────────────────── 星期、时间段、连续课时 ──────────────────────

// ToggleDay 切换星期的选中状态，返回切换后的状态
func (g *Graph) ToggleDay(day string) (bool, error) {
	if !timetable.IsValidDay(day) {
		return false, ErrInvalidDay
	}
	if g.days[day] {
		delete(g.days, day)
		return false, nil
	}
	g.days[day] = true
	return true, nil
}

// Days 已选星期（按规范顺序）
func (g *Graph) Days() []string {
	out := make([]string, 0, len(g.days))
	for _, d := range timetable.AllDays {
		if g.days[d] {
			out = append(out, d)
		}
	}
	return out
}

// SetTimeSlots 以逗号分隔文本设置时间段
func (g *Graph) SetTimeSlots(raw string) []string {
	g.timeSlots = timetable.ParseTimeSlots(raw)
	return g.TimeSlots()
}

// TimeSlots 时间段（按用户输入顺序）
func (g *Graph) TimeSlots() []string {
	return append([]string(nil), g.timeSlots...)
}

// SetMaxContinuousHours 设置最大连续课时，无效输入保留原值
func (g *Graph) SetMaxContinuousHours(raw string) int {
	g.maxContinuous = timetable.CoerceMaxContinuous(raw, g.maxContinuous)
	return g.maxContinuous
}

// MaxContinuousHours 最大连续课时
func (g *Graph) MaxContinuousHours() int {
	return g.maxContinuous
}

// FallbackPolicy 当前使用的未分配回退策略
func (g *Graph) FallbackPolicy() FallbackPolicy {
	return g.fallback
}

// [自证通过] internal/assignment/graph.go
