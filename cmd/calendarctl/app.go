package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"academic-calendar/backend/config"
	"academic-calendar/backend/internal/dto"
	"academic-calendar/backend/internal/model"
	"academic-calendar/backend/internal/repository"
	"academic-calendar/backend/internal/service"
	"academic-calendar/backend/pkg/clipboard"
	"academic-calendar/backend/pkg/database"
	"academic-calendar/backend/pkg/jwt"
	applogger "academic-calendar/backend/pkg/logger"
	"academic-calendar/backend/pkg/redis"
)

type rootOptions struct {
	configPath string
	username   string
	password   string
}

// app 单次命令的运行环境；批次状态只在本进程内存中，修改后需保存
type app struct {
	cfg    *config.Config
	svc    *service.Service
	logger *zap.Logger
	close  func()
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log, "calendarctl")
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		// 远端不可用时仍可使用默认批次与本地兜底保存
		logger.Warn("数据库连接失败，仅使用本地兜底存储", zap.Error(err))
		db = nil
	}
	dial := database.Dialer(func() (*config.DatabaseConfig, error) {
		fresh, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		return &fresh.Database, nil
	}, cfg.Log.Level, logger)

	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，本地兜底存储不可用", zap.Error(err))
		rdb = nil
	}

	var batchRepo repository.BatchRepository = unavailableRepo{}
	if db != nil {
		batchRepo = repository.NewBatchRepo(db, dial)
	}
	repo := repository.NewRepository(batchRepo, repository.NewFallbackRepo(rdb))

	deps := service.Deps{
		Sink: clipboard.Fallback{Primary: clipboard.System{}, Secondary: clipboard.OSC52{W: os.Stderr}},
	}
	svc := service.NewService(cfg, repo, jwt.NewManager(&cfg.Auth), deps, logger)

	if n, err := svc.Calendar.Load(ctx); err != nil {
		logger.Warn("加载已保存批次失败，使用默认批次", zap.Error(err))
	} else {
		logger.Debug("已加载保存的批次", zap.Int("count", n))
	}

	return &app{
		cfg:    cfg,
		svc:    svc,
		logger: logger,
		close: func() {
			if db != nil {
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				}
			}
			if rdb != nil {
				rdb.Close()
			}
			logger.Sync()
		},
	}, nil
}

// unlock 修改类命令先通过管理员凭据校验
func (a *app) unlock(ctx context.Context, opts *rootOptions) (string, error) {
	if opts.username == "" {
		return "", errors.New("修改类命令需要 --user 与 --password")
	}
	if _, err := a.svc.Auth.Unlock(ctx, &dto.UnlockRequest{Username: opts.username, Password: opts.password}); err != nil {
		return "", err
	}
	return opts.username, nil
}

// save 同步保存批次并输出分级结果；全部失败时返回错误
func (a *app) save(ctx context.Context, batchID int, operator string) error {
	result, err := a.svc.Persistence.Save(ctx, batchID, operator)
	if result != nil {
		fmt.Fprintln(os.Stderr, result.Message)
	}
	return err
}

// withApp 构造运行环境、执行命令并释放资源
func withApp(opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// unavailableRepo 数据库不可达时的远端存储占位，保存直接落到本地兜底
type unavailableRepo struct{}

var errRemoteUnavailable = errors.New("远端存储不可用")

func (unavailableRepo) List(context.Context) ([]model.Batch, error) { return nil, errRemoteUnavailable }
func (unavailableRepo) Upsert(context.Context, *model.Batch) error  { return errRemoteUnavailable }
func (unavailableRepo) Reauthenticate(context.Context) error        { return errRemoteUnavailable }
