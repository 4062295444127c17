package assignment

import "fmt"

// FallbackPolicy 课程行未分配任何班级时的目标班级决策
type FallbackPolicy interface {
	// Resolve 返回未分配课程行的目标班级；sections 为当前班级（按顺序）
	Resolve(slotIndex int, courseID string, sections []string) ([]string, error)
	Name() string
}

// 策略名称（与配置 form.fallback_policy 对应）
const (
	PolicyFirstSection = "first_section"
	PolicyReject       = "reject"
)

// FirstSectionFallback 未分配的课程行归入第一个班级
type FirstSectionFallback struct{}

func (FirstSectionFallback) Resolve(_ int, _ string, sections []string) ([]string, error) {
	if len(sections) == 0 {
		return nil, ErrNoSections
	}
	return []string{sections[0]}, nil
}

func (FirstSectionFallback) Name() string { return PolicyFirstSection }

// RejectUnassignedFallback 未分配的课程行直接判定为校验失败
type RejectUnassignedFallback struct{}

func (RejectUnassignedFallback) Resolve(slotIndex int, courseID string, _ []string) ([]string, error) {
	return nil, fmt.Errorf("%w: 第 %d 行 (%s)", ErrUnassignedSlot, slotIndex+1, courseID)
}

func (RejectUnassignedFallback) Name() string { return PolicyReject }

// PolicyByName 根据配置名称创建策略
func PolicyByName(name string) (FallbackPolicy, error) {
	switch name {
	case "", PolicyFirstSection:
		return FirstSectionFallback{}, nil
	case PolicyReject:
		return RejectUnassignedFallback{}, nil
	}
	return nil, fmt.Errorf("未知的分配回退策略: %q", name)
}
