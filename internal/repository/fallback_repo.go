package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"academic-calendar/backend/internal/model"
	"academic-calendar/backend/pkg/redis"
)

// ErrFallbackUnavailable 未配置本地兜底存储（Redis 不可用时降级）
var ErrFallbackUnavailable = errors.New("本地兜底存储不可用")

// FallbackStore 本地兜底存储：batch-{id} → 批次文档的单一映射，整体读写
type FallbackStore interface {
	Put(ctx context.Context, doc model.BatchDocument) error
	All(ctx context.Context) (map[string]model.BatchDocument, error)
}

type fallbackRepo struct {
	rdb *redis.Client
}

// NewFallbackRepo 创建基于 Redis 的兜底存储；rdb 为 nil 时所有操作返回 ErrFallbackUnavailable
func NewFallbackRepo(rdb *redis.Client) FallbackStore {
	return &fallbackRepo{rdb: rdb}
}

func (r *fallbackRepo) Put(ctx context.Context, doc model.BatchDocument) error {
	if r.rdb == nil {
		return ErrFallbackUnavailable
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("序列化批次文档失败: %w", err)
	}
	return r.rdb.PutFallback(ctx, doc.Key(), payload)
}

func (r *fallbackRepo) All(ctx context.Context) (map[string]model.BatchDocument, error) {
	if r.rdb == nil {
		return nil, ErrFallbackUnavailable
	}
	raw, err := r.rdb.LoadFallback(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.BatchDocument, len(raw))
	for key, payload := range raw {
		var doc model.BatchDocument
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, fmt.Errorf("解析兜底文档 %s 失败: %w", key, err)
		}
		out[key] = doc
	}
	return out, nil
}
