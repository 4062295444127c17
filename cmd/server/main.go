package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/SWESH1K/TimeTableGenerator/config"
	"github.com/SWESH1K/TimeTableGenerator/internal/api/handler"
	"github.com/SWESH1K/TimeTableGenerator/internal/api/router"
	"github.com/SWESH1K/TimeTableGenerator/internal/repository"
	"github.com/SWESH1K/TimeTableGenerator/internal/service"
	"github.com/SWESH1K/TimeTableGenerator/internal/session"
	"github.com/SWESH1K/TimeTableGenerator/internal/solver"
	"github.com/SWESH1K/TimeTableGenerator/pkg/database"
	"github.com/SWESH1K/TimeTableGenerator/pkg/jwt"
	applogger "github.com/SWESH1K/TimeTableGenerator/pkg/logger"
	"github.com/SWESH1K/TimeTableGenerator/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("TTG_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("solver", cfg.Solver.BaseURL+cfg.Solver.Path),
	)

	// 3. 连接数据库（课程目录、教师名单）
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，令牌吊销与限流将不可用", zap.Error(err))
		rdb = nil
	}
	var revoker service.TokenRevoker
	if rdb != nil {
		revoker = rdb
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 编辑会话存储与过期清理
	store := session.NewStore(cfg.Session.IdleTTL, logger)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go store.RunSweeper(sweepCtx, cfg.Session.SweepInterval)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	client := solver.NewClient(&cfg.Solver, logger)
	svc := service.NewService(cfg, repo, store, client, jwtMgr, revoker, logger)
	h := handler.NewHandler(svc)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	// 写超时需覆盖求解服务的等待时间
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Solver.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}
	stopSweep()

	// 关闭数据库连接
	if sqlDB != nil {
		sqlDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭", zap.Int("open_sessions", store.Len()))
}
