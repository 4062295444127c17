package timetable

import (
	"strconv"
	"strings"
)

// CoerceHours 将表单输入宽松解析为非负整数
// 仅取前导整数部分（"3.5" → 3，"12h" → 12），无法解析或为负时返回 0
func CoerceHours(raw string) int {
	n, ok := leadingInt(raw)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// CoerceMaxContinuous 解析最大连续课时，无效或小于 1 时保留原值
func CoerceMaxContinuous(raw string, prev int) int {
	n, ok := leadingInt(raw)
	if !ok || n < 1 {
		return prev
	}
	return n
}

// ParseTimeSlots 解析逗号分隔的时间段标签，去空白、去空项、去重（保留首次出现的位置）
func ParseTimeSlots(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]bool, len(parts))
	slots := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		slots = append(slots, p)
	}
	return slots
}

func leadingInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
