package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/SWESH1K/TimeTableGenerator/internal/projector"
	"github.com/SWESH1K/TimeTableGenerator/internal/session"
	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
)

func generatedSession(t *testing.T, env *testEnv) string {
	t.Helper()
	env.solver.response = json.RawMessage(multiSectionResponse)
	id := createSession(t, env)
	fillForm(t, env, id)
	if _, err := env.svc.Generate.Generate(context.Background(), id); err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}
	return id
}

// ── ExportExcel 测试 ──

func TestExportService_ExportExcel_NoResult(t *testing.T) {
	env := setupTestEnv()
	id := createSession(t, env)

	if _, _, err := env.svc.Export.ExportExcel(context.Background(), id); !errors.Is(err, ErrNoResult) {
		t.Errorf("期望 ErrNoResult，实际: %v", err)
	}
}

func TestExportService_ExportExcel_Success(t *testing.T) {
	env := setupTestEnv()
	id := generatedSession(t, env)

	buf, filename, err := env.svc.Export.ExportExcel(context.Background(), id)
	if err != nil {
		t.Fatalf("ExportExcel 失败: %v", err)
	}
	if filename != "timetable.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}
	// xlsx 为 zip 格式
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Fatal("输出不是合法的 xlsx 文件")
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("读取导出文件失败: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{"Section A", "Section B", "Professors", "Courses"}
	if strings.Join(sheets, ",") != strings.Join(want, ",") {
		t.Errorf("Sheet 列表不符: %v", sheets)
	}

	checks := map[string]string{
		"A1": "Day/Time",
		"B1": "T1",
		"C1": "T2",
		"A2": "Monday",
		"B2": "DMW (L)\nDr Purushotam",
		"C2": "-",
		"A3": "Wednesday",
		"C3": "DL (P)\nDr Hitesh",
	}
	for axis, expect := range checks {
		got, _ := f.GetCellValue("Section A", axis)
		if got != expect {
			t.Errorf("Section A!%s 期望 %q，实际 %q", axis, expect, got)
		}
	}

	prof, _ := f.GetCellValue("Professors", "A2")
	courses, _ := f.GetCellValue("Professors", "B2")
	if prof != "Dr Hitesh" || courses != "DL" {
		t.Errorf("教师汇总首行不符: %s / %s", prof, courses)
	}
}

// ── ExportICS 测试 ──

func TestExportService_ExportICS_Success(t *testing.T) {
	env := setupTestEnv()
	env.cfg.Export.SlotTimes = map[string]string{"t2": "14:30"}
	id := generatedSession(t, env)

	buf, filename, err := env.svc.Export.ExportICS(context.Background(), id)
	if err != nil {
		t.Fatalf("ExportICS 失败: %v", err)
	}
	if filename != "timetable.ics" {
		t.Errorf("文件名不符: %s", filename)
	}
	out := buf.String()

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"SUMMARY:DMW (L)",
		"SUMMARY:DL (P)",
		"RRULE:FREQ=WEEKLY",
		// 2026-01-05 为周一；T1 为当天第一列，从 09:00 开始
		"DTSTART:20260105T090000Z",
		// T2 配置为 14:30，周三为 01-07
		"DTSTART:20260107T143000Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ICS 缺少 %q", want)
		}
	}
	if n := strings.Count(out, "BEGIN:VEVENT"); n != 2 {
		t.Errorf("期望 2 个事件，实际 %d", n)
	}
}

func TestExportService_ExportICS_InvalidConfig(t *testing.T) {
	env := setupTestEnv()
	id := generatedSession(t, env)

	env.cfg.Export.WeekStart = "next monday"
	if _, _, err := env.svc.Export.ExportICS(context.Background(), id); !errors.Is(err, ErrExportInvalidTime) {
		t.Errorf("期望 ErrExportInvalidTime，实际: %v", err)
	}

	env.cfg.Export.WeekStart = "2026-01-05"
	env.cfg.Export.DayStart = "9am"
	if _, _, err := env.svc.Export.ExportICS(context.Background(), id); !errors.Is(err, ErrExportInvalidTime) {
		t.Errorf("期望 ErrExportInvalidTime，实际: %v", err)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
		wantErr bool
	}{
		{"09:00", 540, false},
		{" 14:30 ", 870, false},
		{"24:00", 0, true},
		{"9", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		d, err := parseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseClock(%q) err=%v", tt.in, err)
			continue
		}
		if !tt.wantErr && int(d.Minutes()) != tt.minutes {
			t.Errorf("parseClock(%q) 期望 %d 分钟，实际 %v", tt.in, tt.minutes, d)
		}
	}
}

func TestSheetName(t *testing.T) {
	if got := sheetName("Section A/B"); got != "Section A_B" {
		t.Errorf("非法字符应替换，实际 %q", got)
	}
	if got := sheetName("Section " + strings.Repeat("X", 40)); len([]rune(got)) != 31 {
		t.Errorf("应截断到 31 字符，实际 %d", len([]rune(got)))
	}
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]bool{"professors": true}
	got := []string{
		uniqueSheetName("Section A", used),
		uniqueSheetName("Section a", used),
		uniqueSheetName("Section A/B", used),
		uniqueSheetName("Section A:B", used),
		uniqueSheetName("Professors", used),
		uniqueSheetName("Section "+strings.Repeat("X", 40), used),
		uniqueSheetName("Section "+strings.Repeat("X", 41), used),
	}
	want := []string{
		"Section A",
		"Section a (2)",
		"Section A_B",
		"Section A_B (2)",
		"Professors (2)",
		"Section " + strings.Repeat("X", 23),
		"Section " + strings.Repeat("X", 19) + " (2)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sheet 名不符 (-want +got):\n%s", diff)
	}
}

// 大小写不同或清洗后同名的班级各自保留独立 Sheet，互不覆盖
func TestExportService_ExportExcel_CollidingSectionNames(t *testing.T) {
	env := setupTestEnv()
	id := createSession(t, env)

	sections := []string{"a", "A", "A/B", "A:B"}
	bySection := map[string]timetable.Timetable{}
	for i, sec := range sections {
		tt := timetable.Timetable{}
		tt.Add(timetable.Event{Course: "C" + sec, Day: "Monday", TimeSlot: "T1", Section: sec, Type: "L", Professor: "P" + string(rune('1'+i))})
		bySection[sec] = tt
	}
	err := env.store.With(id, func(sess *session.Session) error {
		sess.Result = projector.NewResult(bySection, sections, []string{"Monday"}, []string{"T1"})
		return nil
	})
	if err != nil {
		t.Fatalf("写入结果失败: %v", err)
	}

	buf, _, err := env.svc.Export.ExportExcel(context.Background(), id)
	if err != nil {
		t.Fatalf("ExportExcel 失败: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("读取导出文件失败: %v", err)
	}
	defer f.Close()

	wantSheets := []string{"Section a", "Section A (2)", "Section A_B", "Section A_B (2)", "Professors", "Courses"}
	if diff := cmp.Diff(wantSheets, f.GetSheetList()); diff != "" {
		t.Fatalf("Sheet 列表不符 (-want +got):\n%s", diff)
	}
	for i, sec := range sections {
		got, _ := f.GetCellValue(wantSheets[i], "B2")
		want := "C" + sec + " (L)\nP" + string(rune('1'+i))
		if got != want {
			t.Errorf("%s!B2 期望 %q，实际 %q", wantSheets[i], want, got)
		}
	}
}
