package solver

import "sync/atomic"

// Sequencer 为同一会话的求解请求分配单调递增序号
// 只有最新序号对应的响应可以写回结果，较早发出的响应一律丢弃
type Sequencer struct {
	latest atomic.Uint64
}

// Next 分配新的请求序号
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// IsLatest 判断序号是否仍是最新一次请求
func (s *Sequencer) IsLatest(id uint64) bool {
	return s.latest.Load() == id
}
