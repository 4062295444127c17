package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SWESH1K/TimeTableGenerator/pkg/response"
)

// 与 middleware.SessionAuth 注入的键保持一致
const (
	ctxSessionID = "session_id"
	ctxTokenJTI  = "token_jti"
	ctxTokenExp  = "token_exp"
)

// MustGetSessionID 从 Gin 上下文中安全提取 session_id。
// 如果认证中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxSessionID)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// tokenInfo 当前令牌的 ID 与剩余有效期，缺失时返回零值
func tokenInfo(c *gin.Context) (string, time.Duration) {
	jti := c.GetString(ctxTokenJTI)
	var remaining time.Duration
	if exp, ok := c.Get(ctxTokenExp); ok {
		if t, ok := exp.(time.Time); ok {
			remaining = time.Until(t)
		}
	}
	return jti, remaining
}

// mustParseIndex 解析路径中的非负整数索引
func mustParseIndex(c *gin.Context, name string) (int, bool) {
	idx, err := strconv.Atoi(c.Param(name))
	if err != nil || idx < 0 {
		response.BadRequest(c, 10001, name+" 必须为非负整数")
		return 0, false
	}
	return idx, true
}
