package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/SWESH1K/TimeTableGenerator/config"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"", "json", "console"} {
		l, err := NewLogger(&config.LogConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("format=%q 期望成功，实际: %v", format, err)
		}
		if !l.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("format=%q 期望启用 debug 级别", format)
		}
	}
}

func TestNewLogger_Level(t *testing.T) {
	l, err := NewLogger(&config.LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("期望成功，实际: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("warn 级别不应输出 info 日志")
	}
}

func TestNewLogger_Invalid(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Error("无效级别期望报错")
	}
	if _, err := NewLogger(&config.LogConfig{Level: "info", Format: "xml"}); err == nil {
		t.Error("无效格式期望报错")
	}
}
