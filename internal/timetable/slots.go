package timetable

import (
	"sort"
	"strconv"
)

// SortTimeSlots 按数字后缀排序时间段标签（"T1" < "T2" < "T10"），不修改入参
//
// 比较顺序：非数字前缀 → 数字后缀（无后缀者在前）→ 原始字符串
func SortTimeSlots(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		return lessSlot(out[i], out[j])
	})
	return out
}

func lessSlot(a, b string) bool {
	pa, na := splitSlot(a)
	pb, nb := splitSlot(b)
	if pa != pb {
		return pa < pb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

// splitSlot 拆分为前缀与数字后缀，无数字后缀时返回 -1
func splitSlot(id string) (string, int) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == len(id) {
		return id, -1
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return id, -1
	}
	return id[:i], n
}
