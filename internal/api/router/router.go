package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SWESH1K/TimeTableGenerator/config"
	"github.com/SWESH1K/TimeTableGenerator/internal/api/handler"
	"github.com/SWESH1K/TimeTableGenerator/internal/api/middleware"
	"github.com/SWESH1K/TimeTableGenerator/pkg/jwt"
	"github.com/SWESH1K/TimeTableGenerator/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：此时不做令牌黑名单检查与限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// 避免 nil *redis.Client 装箱成非 nil 接口
	var (
		revoked middleware.RevocationChecker
		limiter middleware.RateLimiter
	)
	if rdb != nil {
		revoked = rdb
		limiter = rdb
	}

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 课程目录（无需会话）
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/courses", h.Catalog.ListCourses)
			catalog.GET("/professors", h.Catalog.ListProfessors)
		}

		// 创建编辑会话（签发会话令牌）
		v1.POST("/sessions", h.Form.CreateSession)

		// 需要会话令牌的路由
		authorized := v1.Group("")
		authorized.Use(middleware.SessionAuth(jwtMgr, revoked))
		{
			authorized.GET("/sessions/current", h.Form.GetSession)
			authorized.DELETE("/sessions/current", h.Form.DeleteSession)

			// 班级
			sections := authorized.Group("/sections")
			{
				sections.POST("", h.Form.AddSection)
				sections.PUT("/:index", h.Form.RenameSection)
				sections.DELETE("/:index", h.Form.RemoveSection)
			}

			// 课程行
			courses := authorized.Group("/courses")
			{
				courses.POST("", h.Form.AddCourse)
				courses.PUT("/:index", h.Form.SetCourse)
				courses.DELETE("/:index", h.Form.RemoveCourse)
				courses.POST("/:index/sections/:section/toggle", h.Form.ToggleAssignment)
			}

			// 教师、学时、星期、时间段
			authorized.PUT("/professors/:course", h.Form.SetProfessor)
			authorized.PUT("/ltps/:course/:field", h.Form.SetLoadHours)
			authorized.POST("/days/:day/toggle", h.Form.ToggleDay)
			authorized.PUT("/time-slots", h.Form.SetTimeSlots)
			authorized.PUT("/max-continuous-hours", h.Form.SetMaxContinuousHours)

			// 生成
			authorized.GET("/payload", h.Form.Preview)
			authorized.POST("/generate",
				middleware.RateLimit(limiter, cfg.Server.RateLimit.GenerateLimit, cfg.Server.RateLimit.GenerateWindow, logger),
				h.Generate.Generate,
			)
			authorized.GET("/result", h.Generate.GetResult)

			// 导出
			export := authorized.Group("/export")
			{
				export.GET("/excel", h.Export.ExportExcel)
				export.GET("/ics", h.Export.ExportICS)
			}
		}
	}

	return r
}
