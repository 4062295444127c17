package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/SWESH1K/TimeTableGenerator/internal/dto"
	"github.com/SWESH1K/TimeTableGenerator/internal/projector"
	"github.com/SWESH1K/TimeTableGenerator/internal/session"
	"github.com/SWESH1K/TimeTableGenerator/internal/solver"
	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
)

// ── 排课生成模块业务错误 ──

var (
	ErrStaleResponse = errors.New("已有更新的排课请求，本次结果已丢弃")
	ErrNoResult      = errors.New("尚未生成课表")
)

// GenerateService 排课生成业务接口
//
// 设计说明：
//   - 构建请求在会话锁内完成，调用求解服务时不持锁，期间表单仍可编辑
//   - 每次请求分配递增序号，只有最新请求的响应会写回会话；较早的响应返回 ErrStaleResponse
//   - 求解失败不修改表单，也不清除上一次的结果
type GenerateService interface {
	Generate(ctx context.Context, sessionID string) (*dto.ResultResponse, error)
	Result(ctx context.Context, sessionID string) (*dto.ResultResponse, error)
}

type generateService struct {
	store  *session.Store
	client solver.Client
	logger *zap.Logger
}

// NewGenerateService 创建 GenerateService 实例
func NewGenerateService(store *session.Store, client solver.Client, logger *zap.Logger) GenerateService {
	return &generateService{store: store, client: client, logger: logger}
}

// ────────────────────── Generate ──────────────────────

func (s *generateService) Generate(ctx context.Context, sessionID string) (*dto.ResultResponse, error) {
	// 1. 锁内校验并构建请求，记录本次请求序号
	var (
		seq       uint64
		sequencer *solver.Sequencer
		payload   timetable.SolverRequest
	)
	err := s.store.With(sessionID, func(sess *session.Session) error {
		if err := sess.Graph.Validate(); err != nil {
			return err
		}
		p, err := sess.Graph.ToPayload()
		if err != nil {
			return err
		}
		payload = p
		sequencer = sess.Sequencer
		seq = sequencer.Next()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 2. 锁外调用求解服务
	raw, err := s.client.Generate(ctx, &payload)
	if err != nil {
		s.logger.Warn("排课求解失败",
			zap.String("session_id", sessionID),
			zap.Uint64("seq", seq),
			zap.Error(err),
		)
		return nil, err
	}

	// 3. 解析响应；旧请求的响应直接丢弃
	result, err := projector.Decode(raw, payload.Sections, payload.Days, payload.TimeSlots)
	if err != nil {
		s.logger.Error("解析求解结果失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	err = s.store.With(sessionID, func(sess *session.Session) error {
		if sess.Sequencer != sequencer || !sequencer.IsLatest(seq) {
			return ErrStaleResponse
		}
		sess.Result = result
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStaleResponse) {
			s.logger.Info("丢弃过期的求解结果", zap.String("session_id", sessionID), zap.Uint64("seq", seq))
		}
		return nil, err
	}

	s.logger.Info("课表生成成功",
		zap.String("session_id", sessionID),
		zap.Uint64("seq", seq),
		zap.Int("sections", len(result.Sections())),
	)
	return dto.NewResultResponse(result), nil
}

// ────────────────────── Result ──────────────────────

func (s *generateService) Result(_ context.Context, sessionID string) (*dto.ResultResponse, error) {
	var resp *dto.ResultResponse
	err := s.store.With(sessionID, func(sess *session.Session) error {
		if sess.Result == nil {
			return ErrNoResult
		}
		resp = dto.NewResultResponse(sess.Result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
