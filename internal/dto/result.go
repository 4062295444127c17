package dto

import "github.com/SWESH1K/TimeTableGenerator/internal/projector"

// ── 求解结果 DTO ──

// GridCell 课表单元格
type GridCell struct {
	TimeSlot  string `json:"time_slot"`
	Text      string `json:"text"`
	Course    string `json:"course,omitempty"`
	Type      string `json:"type,omitempty"`
	Professor string `json:"professor,omitempty"`
	Hidden    int    `json:"hidden,omitempty"` // 同一单元格未展示的重叠事件数
}

// GridRow 课表行（一个星期）
type GridRow struct {
	Day   string     `json:"day"`
	Cells []GridCell `json:"cells"`
}

// SectionGrid 单个班级的课表
type SectionGrid struct {
	Section   string    `json:"section"`
	Days      []string  `json:"days"`
	TimeSlots []string  `json:"time_slots"`
	Rows      []GridRow `json:"rows"`
}

// SummaryRow 汇总表行
type SummaryRow struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// ResultResponse 求解结果
type ResultResponse struct {
	Sections         []SectionGrid `json:"sections"`
	ProfessorSummary []SummaryRow  `json:"professor_summary"` // 教师 → 课程
	CourseSummary    []SummaryRow  `json:"course_summary"`    // 课程 → 教师
}

// NewResultResponse 由投影结果构建响应
func NewResultResponse(r *projector.Result) *ResultResponse {
	out := &ResultResponse{
		Sections:         make([]SectionGrid, 0, len(r.Sections())),
		ProfessorSummary: summaryRows(r.ProfessorIndex()),
		CourseSummary:    summaryRows(r.CourseIndex()),
	}
	for _, sec := range r.Sections() {
		p, _ := r.Section(sec)
		grid := SectionGrid{
			Section:   sec,
			Days:      nonNil(p.Days()),
			TimeSlots: nonNil(p.TimeSlots()),
			Rows:      []GridRow{},
		}
		for row := range p.Rows() {
			gr := GridRow{Day: row.Day, Cells: make([]GridCell, 0, len(row.Cells))}
			for _, c := range row.Cells {
				gc := GridCell{TimeSlot: c.TimeSlot, Text: c.Text(true), Hidden: c.Hidden}
				if c.Event != nil {
					gc.Course = c.Event.Course
					gc.Type = c.Event.Type
					gc.Professor = c.Event.Professor
				}
				gr.Cells = append(gr.Cells, gc)
			}
			grid.Rows = append(grid.Rows, gr)
		}
		out.Sections = append(out.Sections, grid)
	}
	return out
}

func summaryRows(ix projector.Index) []SummaryRow {
	rows := make([]SummaryRow, 0, len(ix))
	for _, k := range ix.Keys() {
		rows = append(rows, SummaryRow{Key: k, Values: ix[k].Sorted()})
	}
	return rows
}
