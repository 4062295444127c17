package assignment

import (
	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
)

// Validate 提交前校验必填项：班级、星期、课程、时间段
func (g *Graph) Validate() error {
	var missing []string
	if len(g.sections) == 0 {
		missing = append(missing, timetable.FieldSections)
	}
	if len(g.days) == 0 {
		missing = append(missing, timetable.FieldDays)
	}
	if !g.hasCourse() {
		missing = append(missing, timetable.FieldCourses)
	}
	if len(g.timeSlots) == 0 {
		missing = append(missing, timetable.FieldTimeSlots)
	}
	if len(missing) > 0 {
		return &timetable.ValidationError{Fields: missing}
	}
	return nil
}

func (g *Graph) hasCourse() bool {
	for _, s := range g.slots {
		if s.courseID != "" {
			return true
		}
	}
	return false
}

// ToPayload 将表单投影为求解请求
//
// 每个非空课程行按分配的班级（按班级顺序）追加到对应班级的课程列表；
// 未分配的课程行交给回退策略。professors / ltps 只包含出现在请求中的课程，
// 缺少学时记录的课程以全零补齐，缺少教师的课程不出现在 professors 中。
func (g *Graph) ToPayload() (timetable.SolverRequest, error) {
	req := timetable.SolverRequest{
		Sections:           g.Sections(),
		Courses:            make(map[string][]string, len(g.sections)),
		Professors:         make(map[string]string),
		LTPS:               make(map[string]timetable.LoadHours),
		Days:               g.Days(),
		TimeSlots:          g.TimeSlots(),
		MaxContinuousHours: g.maxContinuous,
	}
	for _, id := range g.sections {
		req.Courses[id] = make([]string, 0)
	}

	for i, s := range g.slots {
		if s.courseID == "" {
			continue
		}
		targets := g.assignedSections(s)
		if len(targets) == 0 {
			resolved, err := g.fallback.Resolve(i, s.courseID, g.sections)
			if err != nil {
				return timetable.SolverRequest{}, err
			}
			targets = resolved
		}
		for _, sec := range targets {
			if _, ok := req.Courses[sec]; !ok {
				// 回退策略只能返回当前班级
				return timetable.SolverRequest{}, ErrSectionNotFound
			}
			req.Courses[sec] = append(req.Courses[sec], s.courseID)
		}

		if name, ok := g.professors[s.courseID]; ok {
			req.Professors[s.courseID] = name
		}
		req.LTPS[s.courseID] = g.loads[s.courseID]
	}

	return req, nil
}

// ── 只读快照 ──

// SlotState 课程行快照
type SlotState struct {
	Index    int
	CourseID string
	Sections []string
}

// State 表单只读快照
type State struct {
	Sections           []string
	Slots              []SlotState
	Professors         map[string]string
	LoadHours          map[string]timetable.LoadHours
	Days               []string
	TimeSlots          []string
	MaxContinuousHours int
	FallbackPolicy     string
}

// Snapshot 复制当前状态，调用方可自由读取
func (g *Graph) Snapshot() State {
	st := State{
		Sections:           g.Sections(),
		Slots:              make([]SlotState, 0, len(g.slots)),
		Professors:         make(map[string]string, len(g.professors)),
		LoadHours:          make(map[string]timetable.LoadHours, len(g.loads)),
		Days:               g.Days(),
		TimeSlots:          g.TimeSlots(),
		MaxContinuousHours: g.maxContinuous,
		FallbackPolicy:     g.fallback.Name(),
	}
	for i, s := range g.slots {
		assigned := g.assignedSections(s)
		if assigned == nil {
			assigned = []string{}
		}
		st.Slots = append(st.Slots, SlotState{Index: i, CourseID: s.courseID, Sections: assigned})
	}
	for k, v := range g.professors {
		st.Professors[k] = v
	}
	for k, v := range g.loads {
		st.LoadHours[k] = v
	}
	return st
}
