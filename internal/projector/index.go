package projector

import "sort"

// Set 无序字符串集合
type Set map[string]struct{}

// Add 加入元素
func (s Set) Add(v string) {
	s[v] = struct{}{}
}

// Has 判断元素是否存在
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted 按字典序返回元素
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Index 反向索引：键 → 集合
type Index map[string]Set

func (ix Index) add(key, value string) {
	set, ok := ix[key]
	if !ok {
		set = make(Set)
		ix[key] = set
	}
	set.Add(value)
}

// Keys 按字典序返回所有键
func (ix Index) Keys() []string {
	out := make([]string, 0, len(ix))
	for k := range ix {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lists 转换为确定顺序的列表形式，便于序列化
func (ix Index) Lists() map[string][]string {
	out := make(map[string][]string, len(ix))
	for k, set := range ix {
		out[k] = set.Sorted()
	}
	return out
}
