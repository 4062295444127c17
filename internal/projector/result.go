package projector

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
)

// ErrMalformedResponse 求解结果无法解析
var ErrMalformedResponse = errors.New("求解结果格式无效")

// Result 一次求解响应的全部班级视图
type Result struct {
	sections   []string
	projectors map[string]*Projector
}

// Decode 解析求解响应中的 time_table 字段
//
// 支持两种形状：
//   - 多班级：{班级: {星期: {时间段: [事件]}}}，仅在请求包含多个班级时采用
//   - 单班级：{星期: {时间段: [事件]}}；若请求包含多个班级，按事件的 Section 字段重新分组
func Decode(raw json.RawMessage, sections, days, slots []string) (*Result, error) {
	var top map[string]json.RawMessage
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &top); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	var bySection map[string]timetable.Timetable
	if len(sections) > 1 && !isDayKeyed(top, sections, days) {
		bySection = make(map[string]timetable.Timetable, len(top))
		for sec, body := range top {
			var tt timetable.Timetable
			if err := json.Unmarshal(body, &tt); err != nil {
				return nil, fmt.Errorf("%w: 班级 %s: %v", ErrMalformedResponse, sec, err)
			}
			bySection[sec] = tt
		}
	} else {
		tt := make(timetable.Timetable, len(top))
		for day, body := range top {
			var cells map[string][]timetable.Event
			if err := json.Unmarshal(body, &cells); err != nil {
				return nil, fmt.Errorf("%w: 星期 %s: %v", ErrMalformedResponse, day, err)
			}
			tt[day] = cells
		}
		bySection = splitBySection(tt, sections)
	}

	return NewResult(bySection, sections, days, slots), nil
}

// NewResult 由已分组的课表构建结果；请求中的班级按原顺序在前，响应中额外出现的班级按名称附加
func NewResult(bySection map[string]timetable.Timetable, sections, days, slots []string) *Result {
	r := &Result{projectors: make(map[string]*Projector, len(bySection))}
	for _, sec := range sections {
		r.sections = append(r.sections, sec)
		r.projectors[sec] = New(bySection[sec], days, slots)
	}
	extra := make(Set)
	for sec := range bySection {
		if _, ok := r.projectors[sec]; !ok {
			extra.Add(sec)
		}
	}
	for _, sec := range extra.Sorted() {
		r.sections = append(r.sections, sec)
		r.projectors[sec] = New(bySection[sec], days, slots)
	}
	return r
}

// Sections 结果中的班级（有序）
func (r *Result) Sections() []string {
	return append([]string(nil), r.sections...)
}

// Section 返回指定班级的视图
func (r *Result) Section(id string) (*Projector, bool) {
	p, ok := r.projectors[id]
	return p, ok
}

// ProfessorIndex 所有班级合并的教师 → 课程索引
func (r *Result) ProfessorIndex() Index {
	ix := make(Index)
	for _, p := range r.projectors {
		p.collect(func(ev timetable.Event) { ix.add(ev.Professor, ev.Course) })
	}
	return ix
}

// CourseIndex 所有班级合并的课程 → 教师索引
func (r *Result) CourseIndex() Index {
	ix := make(Index)
	for _, p := range r.projectors {
		p.collect(func(ev timetable.Event) { ix.add(ev.Course, ev.Professor) })
	}
	return ix
}

// isDayKeyed 判断顶层键是否为星期而非班级
func isDayKeyed(top map[string]json.RawMessage, sections, days []string) bool {
	if len(top) == 0 {
		return false
	}
	isSection := make(Set, len(sections))
	for _, s := range sections {
		isSection.Add(s)
	}
	isDay := make(Set, len(days))
	for _, d := range days {
		isDay.Add(d)
	}
	for key := range top {
		if isSection.Has(key) {
			return false
		}
		if !isDay.Has(key) && !timetable.IsValidDay(key) {
			return false
		}
	}
	return true
}

// splitBySection 将单班级形状的课表按事件所属班级拆分
// 单班级请求或事件未标注班级时归入第一个班级
func splitBySection(tt timetable.Timetable, sections []string) map[string]timetable.Timetable {
	first := ""
	if len(sections) > 0 {
		first = sections[0]
	}
	if len(sections) <= 1 {
		return map[string]timetable.Timetable{first: tt}
	}

	out := make(map[string]timetable.Timetable, len(sections))
	for day, cells := range tt {
		for slot, events := range cells {
			for _, ev := range events {
				sec := ev.Section
				if sec == "" {
					sec = first
				}
				part, ok := out[sec]
				if !ok {
					part = make(timetable.Timetable)
					out[sec] = part
				}
				// 以响应中的键为准，避免事件自身字段与位置不一致
				ev.Day, ev.TimeSlot = day, slot
				part.Add(ev)
			}
		}
	}
	return out
}
