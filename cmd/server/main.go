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

	"academic-calendar/backend/config"
	"academic-calendar/backend/internal/api/handler"
	"academic-calendar/backend/internal/api/router"
	"academic-calendar/backend/internal/repository"
	"academic-calendar/backend/internal/service"
	"academic-calendar/backend/internal/worker"
	"academic-calendar/backend/pkg/clipboard"
	"academic-calendar/backend/pkg/database"
	"academic-calendar/backend/pkg/jwt"
	applogger "academic-calendar/backend/pkg/logger"
	"academic-calendar/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfgPath := os.Getenv("CALENDAR_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log, "server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
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

	// 3.2 重新认证：重新读取配置拿到轮换后的凭据
	dial := database.Dialer(func() (*config.DatabaseConfig, error) {
		fresh, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		return &fresh.Database, nil
	}, cfg.Log.Level, logger)

	// 4. 连接 Redis（可选：失败时 Token 黑名单、限流与本地兜底保存不可用）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，降级运行", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 后台保存队列
	pool := worker.NewPool(cfg.Worker.Count, logger)
	poolCtx, stopPool := context.WithCancel(context.Background())
	pool.Start(poolCtx)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(
		repository.NewBatchRepo(db, dial),
		repository.NewFallbackRepo(rdb),
	)

	deps := service.Deps{Pool: pool, Sink: clipboard.Discard{}}
	if cfg.Clipboard.Enabled {
		deps.Sink = clipboard.Fallback{Primary: clipboard.System{}, Secondary: clipboard.OSC52{W: os.Stderr}}
	}
	if rdb != nil {
		deps.Revoker = rdb
	}
	svc := service.NewService(cfg, repo, jwtMgr, deps, logger)

	if cfg.Calendar.LoadOnStart {
		loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if n, err := svc.Calendar.Load(loadCtx); err != nil {
			logger.Warn("加载已保存批次失败，使用默认批次", zap.Error(err))
		} else {
			logger.Info("已加载保存的批次", zap.Int("count", n))
		}
		cancel()
	}

	h := handler.NewHandler(svc)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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

	// 排空保存队列
	pool.Stop()
	stopPool()

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
