package timetable

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ── 时间段排序 ──

func TestSortTimeSlots_NumericSuffix(t *testing.T) {
	got := SortTimeSlots([]string{"T10", "T2", "T1"})
	want := []string{"T1", "T2", "T10"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("排序结果不符 (-want +got):\n%s", diff)
	}
}

func TestSortTimeSlots_DoesNotMutateInput(t *testing.T) {
	in := []string{"T3", "T1"}
	_ = SortTimeSlots(in)
	if in[0] != "T3" || in[1] != "T1" {
		t.Errorf("入参被修改: %v", in)
	}
}

func TestSortTimeSlots_MixedPrefixes(t *testing.T) {
	got := SortTimeSlots([]string{"T2", "Lab", "L10", "T11", "L9", "T"})
	want := []string{"L9", "L10", "Lab", "T", "T2", "T11"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("排序结果不符 (-want +got):\n%s", diff)
	}
}

// ── 输入强制转换 ──

func TestCoerceHours(t *testing.T) {
	cases := map[string]int{
		"4":    4,
		" 7 ":  7,
		"3.9":  3,
		"12h":  12,
		"":     0,
		"abc":  0,
		"-2":   0,
		"+5":   5,
		"NaN":  0,
		"0009": 9,
	}
	for raw, want := range cases {
		if got := CoerceHours(raw); got != want {
			t.Errorf("CoerceHours(%q) 期望 %d，实际 %d", raw, want, got)
		}
	}
}

func TestCoerceMaxContinuous_KeepsPrevious(t *testing.T) {
	if got := CoerceMaxContinuous("3", 2); got != 3 {
		t.Errorf("期望 3，实际 %d", got)
	}
	if got := CoerceMaxContinuous("", 2); got != 2 {
		t.Errorf("空输入应保留原值 2，实际 %d", got)
	}
	if got := CoerceMaxContinuous("0", 2); got != 2 {
		t.Errorf("0 应保留原值 2，实际 %d", got)
	}
	if got := CoerceMaxContinuous("x", 4); got != 4 {
		t.Errorf("非数字应保留原值 4，实际 %d", got)
	}
}

func TestParseTimeSlots(t *testing.T) {
	got := ParseTimeSlots(" T1, T2,,T1 ,T3 , ")
	want := []string{"T1", "T2", "T3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("解析结果不符 (-want +got):\n%s", diff)
	}
	if got := ParseTimeSlots(""); len(got) != 0 {
		t.Errorf("空字符串应解析为空列表，实际 %v", got)
	}
}

// ── 学时 ──

func TestLoadHours_SetAndGet(t *testing.T) {
	var h LoadHours
	for i, f := range LoadFields {
		if err := h.Set(f, i+1); err != nil {
			t.Fatalf("Set(%s) 失败: %v", f, err)
		}
	}
	if h.Total() != 10 {
		t.Errorf("期望总学时 10，实际 %d", h.Total())
	}
	if v, _ := h.Get(FieldPractical); v != 3 {
		t.Errorf("期望 P=3，实际 %d", v)
	}
	if err := h.Set(FieldSkill, -4); err != nil || h.S != 0 {
		t.Errorf("负数应按 0 处理，实际 S=%d err=%v", h.S, err)
	}
	if err := h.Set("X", 1); !errors.Is(err, ErrInvalidLoadField) {
		t.Errorf("期望 ErrInvalidLoadField，实际 %v", err)
	}
}

// ── JSON 结构 ──

func TestEvent_JSONKeys(t *testing.T) {
	raw := `{"Course":"DMW","Day":"Monday","Time Slot":"T1","Section":"A","Type":"L","Professor":"Dr Hitesh"}`
	var ev Event
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if ev.TimeSlot != "T1" || ev.Professor != "Dr Hitesh" {
		t.Errorf("字段解析不符: %+v", ev)
	}
}

func TestSolverRequest_EmptyCourseListIsArray(t *testing.T) {
	req := SolverRequest{
		Sections: []string{"A"},
		Courses:  map[string][]string{"A": {}},
	}
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	if !strings.Contains(string(b), `"courses":{"A":[]}`) {
		t.Errorf("空课程列表应序列化为 []，实际 %s", b)
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: []string{FieldSections, FieldDays}}
	if !err.Has(FieldDays) || err.Has(FieldCourses) {
		t.Errorf("Has 判断不符: %v", err.Fields)
	}
	if !strings.Contains(err.Error(), "sections, days") {
		t.Errorf("错误信息不符: %s", err.Error())
	}
}

func TestDayIndex(t *testing.T) {
	if DayIndex("Monday") != 0 || DayIndex("Saturday") != 5 {
		t.Error("星期顺序不符")
	}
	if IsValidDay("Sunday") {
		t.Error("Sunday 不在固定集合中")
	}
}
