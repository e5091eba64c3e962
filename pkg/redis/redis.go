package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"academic-calendar/backend/config"
)

// Client Redis 客户端封装
// 用于本地兜底存储、Token 黑名单与接口限流
type Client struct {
	rdb         *goredis.Client
	fallbackKey string
	logger      *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return NewWithClient(rdb, cfg.FallbackKey, logger), nil
}

// NewWithClient 包装已有的 go-redis 客户端
func NewWithClient(rdb *goredis.Client, fallbackKey string, logger *zap.Logger) *Client {
	if fallbackKey == "" {
		fallbackKey = "savedBatches"
	}
	return &Client{rdb: rdb, fallbackKey: fallbackKey, logger: logger}
}

// ── 本地兜底存储 ──
//
// 整个映射以一个 JSON 对象保存在 fallbackKey 下，读写均以整体为单位：
// {"batch-1": {...}, "batch-2": {...}}

// LoadFallback 读取整个兜底映射，键不存在时返回空映射
func (c *Client) LoadFallback(ctx context.Context) (map[string]json.RawMessage, error) {
	raw, err := c.rdb.Get(ctx, c.fallbackKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeFallback(raw)
}

// PutFallback 以读-改-写方式更新兜底映射中的一项，WATCH 保证整体写入不丢失并发修改
func (c *Client) PutFallback(ctx context.Context, key string, payload json.RawMessage) error {
	txf := func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, c.fallbackKey).Bytes()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		saved := map[string]json.RawMessage{}
		if len(raw) > 0 {
			if saved, err = decodeFallback(raw); err != nil {
				return err
			}
		}
		saved[key] = payload

		encoded, err := json.Marshal(saved)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, c.fallbackKey, encoded, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		err := c.rdb.Watch(ctx, txf, c.fallbackKey)
		if !errors.Is(err, goredis.TxFailedErr) {
			return err
		}
		c.logger.Debug("兜底映射并发修改，重试写入", zap.Int("attempt", attempt+1))
	}
	return fmt.Errorf("写入兜底映射失败: %w", goredis.TxFailedErr)
}

func decodeFallback(raw []byte) (map[string]json.RawMessage, error) {
	saved := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &saved); err != nil {
		return nil, fmt.Errorf("兜底映射格式错误: %w", err)
	}
	return saved, nil
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 限流 ──

// CheckRateLimit 固定窗口计数：窗口内第一次请求设置过期时间，超过 limit 返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
