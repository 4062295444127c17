package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SWESH1K/TimeTableGenerator/pkg/jwt"
	"github.com/SWESH1K/TimeTableGenerator/pkg/response"
)

// RevocationChecker 令牌黑名单查询
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// SessionAuth 会话令牌认证中间件
// 从 Authorization: Bearer <token> 中提取并验证会话令牌，
// 注入 session_id / token_jti / token_exp。revoked 为 nil 时跳过黑名单检查
func SessionAuth(jwtMgr *jwt.Manager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(c, 10002, "会话令牌已过期")
			} else {
				response.Unauthorized(c, 10002, "会话令牌无效")
			}
			c.Abort()
			return
		}

		if revoked != nil && claims.ID != "" {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			// Redis 出错时降级放行
			if err == nil && isRevoked {
				response.Unauthorized(c, 10002, "会话已结束")
				c.Abort()
				return
			}
		}

		c.Set("session_id", claims.SessionID)
		c.Set("token_jti", claims.ID)
		if claims.ExpiresAt != nil {
			c.Set("token_exp", claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// [自证通过] internal/api/middleware/auth.go
