package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/SWESH1K/TimeTableGenerator/config"
	"github.com/SWESH1K/TimeTableGenerator/internal/projector"
	"github.com/SWESH1K/TimeTableGenerator/internal/session"
	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
	ErrExportInvalidTime  = errors.New("导出时间配置无效")
)

const (
	defaultDayStart    = "09:00"
	defaultSlotMinutes = 60
	icsProductID       = "-//TimeTableGenerator//Timetable Export//EN"
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出内容来自会话中最近一次成功的求解结果，未生成时返回 ErrNoResult
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - Excel：每个班级一个 Sheet（星期 × 排序后的时间段），另附教师、课程汇总 Sheet
//   - ICS：每个有课的单元格（仅第一个事件）生成一个按周重复的 VEVENT
type ExportService interface {
	ExportExcel(ctx context.Context, sessionID string) (*bytes.Buffer, string, error)
	ExportICS(ctx context.Context, sessionID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.ExportConfig
	store  *session.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.ExportConfig, store *session.Store, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, store: store, logger: logger, now: time.Now}
}

// result 取出会话结果；Result 构建后只读，可在锁外使用
func (s *exportService) result(sessionID string) (*projector.Result, error) {
	var r *projector.Result
	err := s.store.With(sessionID, func(sess *session.Session) error {
		if sess.Result == nil {
			return ErrNoResult
		}
		r = sess.Result
		return nil
	})
	return r, err
}

// ═══════════════════════════════════════════════════════════
// ExportExcel — 导出课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Section A" / "Section B" ...
//   - 表头：Day/Time | T1 | T2 | ...（时间段按数字后缀排序）
//   - 单元格："课程 (类型)" 换行 教师；空单元格为 "-"
//   - Sheet "Professors"：教师 → 课程；Sheet "Courses"：课程 → 教师

func (s *exportService) ExportExcel(_ context.Context, sessionID string) (*bytes.Buffer, string, error) {
	r, err := s.result(sessionID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})

	// 汇总 Sheet 名预先占用，班级 Sheet 与之冲突时追加序号
	used := map[string]bool{"professors": true, "courses": true}
	first := true
	for _, sec := range r.Sections() {
		p, _ := r.Section(sec)
		sheet := uniqueSheetName("Section "+sec, used)
		if err := s.newSheet(f, sheet, first); err != nil {
			return nil, "", err
		}
		first = false

		slots := p.TimeSlots()
		f.SetColWidth(sheet, "A", "A", 14)
		if len(slots) > 0 {
			f.SetColWidth(sheet, colName(1), colName(len(slots)), 22)
		}

		// 表头
		f.SetCellValue(sheet, cell("A", 1), "Day/Time")
		for i, slot := range slots {
			f.SetCellValue(sheet, cell(colName(i+1), 1), slot)
		}
		f.SetCellStyle(sheet, "A1", cell(colName(len(slots)), 1), headerStyle)

		// 数据行
		row := 2
		for gridRow := range p.Rows() {
			f.SetCellValue(sheet, cell("A", row), gridRow.Day)
			for i, c := range gridRow.Cells {
				f.SetCellValue(sheet, cell(colName(i+1), row), c.Text(true))
			}
			if len(slots) > 0 {
				f.SetCellStyle(sheet, cell(colName(1), row), cell(colName(len(slots)), row), cellStyle)
			}
			f.SetRowHeight(sheet, row, 32)
			row++
		}
	}

	if err := s.writeSummary(f, "Professors", "Professor", "Courses", r.ProfessorIndex(), first, headerStyle); err != nil {
		return nil, "", err
	}
	if err := s.writeSummary(f, "Courses", "Course", "Professors", r.CourseIndex(), false, headerStyle); err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, "timetable.xlsx", nil
}

// newSheet 创建 Sheet；第一个 Sheet 替换默认的 Sheet1
func (s *exportService) newSheet(f *excelize.File, name string, first bool) error {
	idx, err := f.NewSheet(name)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.String("sheet", name), zap.Error(err))
		return ErrExportGenerateFail
	}
	if first {
		f.SetActiveSheet(idx)
		f.DeleteSheet("Sheet1")
	}
	return nil
}

func (s *exportService) writeSummary(f *excelize.File, sheet, keyHeader, valueHeader string, ix projector.Index, first bool, headerStyle int) error {
	if err := s.newSheet(f, sheet, first); err != nil {
		return err
	}
	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetCellValue(sheet, "A1", keyHeader)
	f.SetCellValue(sheet, "B1", valueHeader)
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)

	row := 2
	for _, key := range ix.Keys() {
		f.SetCellValue(sheet, cell("A", row), key)
		f.SetCellValue(sheet, cell("B", row), strings.Join(ix[key].Sorted(), ", "))
		row++
	}
	return nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS — 导出课表为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 时间推算：
//   - 首周周一取 export.week_start，未配置时取当前周的周一
//   - 时间段开始时间优先取 export.slot_times，否则从 export.day_start 起按列顺序每段 slot_minutes 分钟

func (s *exportService) ExportICS(_ context.Context, sessionID string) (*bytes.Buffer, string, error) {
	r, err := s.result(sessionID)
	if err != nil {
		return nil, "", err
	}

	loc := time.Local
	if s.cfg.Timezone != "" {
		l, err := time.LoadLocation(s.cfg.Timezone)
		if err != nil {
			return nil, "", fmt.Errorf("%w: 时区 %q", ErrExportInvalidTime, s.cfg.Timezone)
		}
		loc = l
	}
	weekStart, err := s.weekStart(loc)
	if err != nil {
		return nil, "", err
	}
	slotMinutes := s.cfg.SlotMinutes
	if slotMinutes <= 0 {
		slotMinutes = defaultSlotMinutes
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName("Timetable")
	cal.SetXWRTimezone(loc.String())

	stamp := s.now().UTC()
	for _, sec := range r.Sections() {
		p, _ := r.Section(sec)
		for gridRow := range p.Rows() {
			dayIdx := timetable.DayIndex(gridRow.Day)
			if dayIdx < 0 {
				continue
			}
			date := weekStart.AddDate(0, 0, dayIdx)
			for col, c := range gridRow.Cells {
				if c.Event == nil {
					continue
				}
				offset, err := s.slotOffset(c.TimeSlot, col, slotMinutes)
				if err != nil {
					return nil, "", err
				}
				start := date.Add(offset)
				end := start.Add(time.Duration(slotMinutes) * time.Minute)

				uid := fmt.Sprintf("%s-%s-%s-%s@timetable-generator", sec, gridRow.Day, c.TimeSlot, c.Event.Course)
				event := cal.AddEvent(uid)
				event.SetDtStampTime(stamp)
				event.SetStartAt(start)
				event.SetEndAt(end)
				event.SetSummary(c.Text(false))
				desc := "Section " + sec
				if c.Event.Professor != "" {
					desc += "\n" + c.Event.Professor
				}
				event.SetDescription(desc)
				event.AddProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY")
			}
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "timetable.ics", nil
}

// weekStart 首周周一零点
func (s *exportService) weekStart(loc *time.Location) (time.Time, error) {
	if s.cfg.WeekStart != "" {
		t, err := time.ParseInLocation("2006-01-02", s.cfg.WeekStart, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: week_start %q", ErrExportInvalidTime, s.cfg.WeekStart)
		}
		return t, nil
	}
	now := s.now().In(loc)
	offset := (int(now.Weekday()) + 6) % 7 // 周一为 0
	y, m, d := now.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

// slotOffset 时间段相对当天零点的偏移
func (s *exportService) slotOffset(slot string, col, slotMinutes int) (time.Duration, error) {
	if hm, ok := s.cfg.SlotTimes[slot]; ok {
		return parseClock(hm)
	}
	// viper 读取 map 键时统一转为小写
	if hm, ok := s.cfg.SlotTimes[strings.ToLower(slot)]; ok {
		return parseClock(hm)
	}
	dayStart := s.cfg.DayStart
	if dayStart == "" {
		dayStart = defaultDayStart
	}
	base, err := parseClock(dayStart)
	if err != nil {
		return 0, err
	}
	return base + time.Duration(col*slotMinutes)*time.Minute, nil
}

// parseClock 解析 HH:MM
func parseClock(hm string) (time.Duration, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hm), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrExportInvalidTime, hm)
	}
	hour, err1 := strconv.Atoi(h)
	minute, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrExportInvalidTime, hm)
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, nil
}

// ── 辅助函数 ──

// sheetName Sheet 名称最长 31 字符，且不能包含 : \ / ? * [ ]
// maxSheetName Excel 对 Sheet 名的长度上限（字符数）
const maxSheetName = 31

func sheetName(name string) string {
	name = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")").Replace(name)
	return truncateRunes(name, maxSheetName)
}

// uniqueSheetName 清洗后的 Sheet 名在 used 中（忽略大小写）已存在时追加 " (2)"、" (3)" ...
// Excel 的 Sheet 名不区分大小写，且非法字符替换后不同班级可能得到同一个名字
func uniqueSheetName(name string, used map[string]bool) string {
	base := sheetName(name)
	candidate := base
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
