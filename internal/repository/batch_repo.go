package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"academic-calendar/backend/internal/model"
	pkgerrors "academic-calendar/backend/pkg/errors"
)

// BatchRepository 批次远端存储接口
type BatchRepository interface {
	List(ctx context.Context) ([]model.Batch, error)
	// Upsert 以 batch-{id} 为键合并写入；未提供的列保持远端原值
	Upsert(ctx context.Context, batch *model.Batch) error
	// Reauthenticate 重新建立连接（拿到轮换后的凭据），用于 ErrPersistenceDenied 后的一次重试
	Reauthenticate(ctx context.Context) error
}

type batchRepo struct {
	mu   sync.RWMutex
	db   *gorm.DB
	dial func() (*gorm.DB, error)
}

// NewBatchRepo 创建 BatchRepository 实例；dial 为 nil 时重新认证直接失败
func NewBatchRepo(db *gorm.DB, dial func() (*gorm.DB, error)) BatchRepository {
	return &batchRepo{db: db, dial: dial}
}

func (r *batchRepo) conn() *gorm.DB {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.db
}

func (r *batchRepo) List(ctx context.Context) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.conn().WithContext(ctx).
		Order("batch_id ASC").
		Find(&batches).Error
	return batches, classify(err)
}

// mergeColumns 合并写入时覆盖的列，created_at / created_by 保留首次写入值
var mergeColumns = []string{"doc_key", "batch_name", "type", "semesters", "assignments", "updated_at", "updated_by"}

func (r *batchRepo) Upsert(ctx context.Context, batch *model.Batch) error {
	err := r.conn().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "batch_id"}},
			DoUpdates: clause.AssignmentColumns(mergeColumns),
		}).
		Create(batch).Error
	return classify(err)
}

func (r *batchRepo) Reauthenticate(ctx context.Context) error {
	if r.dial == nil {
		return errors.New("未配置重新认证方式")
	}
	fresh, err := r.dial()
	if err != nil {
		return err
	}

	r.mu.Lock()
	old := r.db
	r.db = fresh
	r.mu.Unlock()

	if old != nil {
		if sqlDB, err := old.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return nil
}

// classify 将 PostgreSQL 鉴权/权限类错误归为 ErrPersistenceDenied
//   - 42501 insufficient_privilege
//   - 28000 invalid_authorization_specification
//   - 28P01 invalid_password
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42501", "28000", "28P01":
			return fmt.Errorf("%w: %v", pkgerrors.ErrPersistenceDenied, err)
		}
	}
	return err
}
