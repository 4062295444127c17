package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/SWESH1K/TimeTableGenerator/internal/assignment"
)

// fakeClock 可手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	s := NewStore(ttl, zap.NewNop())
	s.now = clock.Now
	return s, clock
}

func newGraph() *assignment.Graph {
	return assignment.New(assignment.Options{})
}

func TestStore_CreateAndGet(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	sess := s.Create(newGraph())

	if sess.ID == "" {
		t.Fatal("会话 ID 不应为空")
	}
	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if got != sess {
		t.Error("应返回同一会话")
	}
	if sess.Sequencer == nil {
		t.Error("会话应带有请求序号器")
	}
}

func TestStore_GetUnknown(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
}

func TestStore_IsolatedSessions(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	a := s.Create(newGraph())
	b := s.Create(newGraph())

	_ = s.With(a.ID, func(sess *Session) error {
		sess.Graph.AddSection()
		return nil
	})

	_ = s.With(b.ID, func(sess *Session) error {
		if n := len(sess.Graph.Sections()); n != 0 {
			t.Errorf("会话之间不应共享状态，实际 B 有 %d 个班级", n)
		}
		return nil
	})
}

func TestStore_WithPropagatesError(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	sess := s.Create(newGraph())
	boom := errors.New("boom")

	if err := s.With(sess.ID, func(*Session) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("期望回调错误原样返回，实际: %v", err)
	}
}

func TestStore_IdleExpiry(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	sess := s.Create(newGraph())

	clock.Advance(50 * time.Minute)
	if err := s.With(sess.ID, func(*Session) error { return nil }); err != nil {
		t.Fatalf("未超时的会话应可访问: %v", err)
	}

	// 访问刷新了空闲计时
	clock.Advance(50 * time.Minute)
	if _, err := s.Get(sess.ID); err != nil {
		t.Fatalf("访问后应重新计时: %v", err)
	}

	clock.Advance(61 * time.Minute)
	if _, err := s.Get(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("超时会话应视为不存在，实际: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("超时会话应被回收，实际剩余 %d", s.Len())
	}
}

func TestStore_Sweep(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	old := s.Create(newGraph())
	clock.Advance(45 * time.Minute)
	fresh := s.Create(newGraph())
	clock.Advance(30 * time.Minute)

	if n := s.Sweep(); n != 1 {
		t.Errorf("期望回收 1 个会话，实际 %d", n)
	}
	if _, err := s.Get(old.ID); !errors.Is(err, ErrNotFound) {
		t.Error("空闲会话应已回收")
	}
	if _, err := s.Get(fresh.ID); err != nil {
		t.Errorf("活跃会话不应回收: %v", err)
	}
}

func TestStore_NoTTL(t *testing.T) {
	s, clock := newTestStore(0)
	sess := s.Create(newGraph())
	clock.Advance(1000 * time.Hour)
	if s.Sweep() != 0 {
		t.Error("未配置 TTL 时不应回收")
	}
	if _, err := s.Get(sess.ID); err != nil {
		t.Errorf("未配置 TTL 时会话应一直有效: %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	sess := s.Create(newGraph())

	if err := s.Delete(sess.ID); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if err := s.Delete(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("重复删除期望 ErrNotFound，实际: %v", err)
	}
	if err := s.With(sess.ID, func(*Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("删除后访问期望 ErrNotFound，实际: %v", err)
	}
}

func TestStore_WithSerializesAccess(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	sess := s.Create(newGraph())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.With(sess.ID, func(se *Session) error {
				se.Graph.AddCourseSlot()
				return nil
			})
		}()
	}
	wg.Wait()

	_ = s.With(sess.ID, func(se *Session) error {
		if n := se.Graph.SlotCount(); n != 50 {
			t.Errorf("期望 50 个课程槽，实际 %d", n)
		}
		return nil
	})
}

func TestStore_RunSweeperStopsOnCancel(t *testing.T) {
	s := NewStore(time.Millisecond, zap.NewNop())
	s.Create(newGraph())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for s.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("后台回收未生效")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("取消后回收协程应退出")
	}
}
