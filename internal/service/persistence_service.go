package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"academic-calendar/backend/internal/dto"
	"academic-calendar/backend/internal/model"
	"academic-calendar/backend/internal/repository"
	"academic-calendar/backend/internal/worker"
	pkgerrors "academic-calendar/backend/pkg/errors"
)

// ── 保存模块业务错误 ──

var (
	ErrSaveFailed   = errors.New("远端与本地保存均失败")
	ErrNoSaveRecord = errors.New("该批次暂无保存记录")
)

// SaveTier 保存结果分级
type SaveTier string

const (
	TierRemote  SaveTier = "remote"  // 远端直接成功
	TierRetried SaveTier = "retried" // 重新认证后成功
	TierLocal   SaveTier = "local"   // 仅保存到本地兜底存储
	TierFailed  SaveTier = "failed"  // 全部失败
	TierPending SaveTier = "pending" // 异步保存排队中
)

const (
	msgSavedRemote      = "批次日期已保存"
	msgSavedRetried     = "批次日期已保存（重新认证后）"
	msgSavedLocalDenied = "远端存储拒绝写入（权限不足），已保存到本地兜底存储"
	msgSavedLocal       = "无法保存到远端存储，已保存到本地兜底存储"
	msgSaveFailed       = "保存失败，本地兜底存储同样失败"
	msgSavePending      = "保存任务已提交"
)

// Submitter 后台任务提交者
type Submitter interface {
	Submit(job worker.Job) error
}

// SubmitterFunc 函数适配器
type SubmitterFunc func(job worker.Job) error

func (f SubmitterFunc) Submit(job worker.Job) error { return f(job) }

// PersistenceService 批次保存业务接口
type PersistenceService interface {
	// Save 同步保存：远端 → 重新认证重试一次 → 本地兜底
	Save(ctx context.Context, batchID int, operator string) (*dto.SaveResultResponse, error)
	// SaveAsync 快照当前批次后提交后台保存，结果通过 SaveStatus 查询
	SaveAsync(ctx context.Context, batchID int, operator string) (*dto.SaveResultResponse, error)
	SaveStatus(ctx context.Context, batchID int) (*dto.SaveResultResponse, error)
	// LocalSaved 本地兜底存储中的全部文档
	LocalSaved(ctx context.Context) (map[string]model.BatchDocument, error)
}

type persistenceService struct {
	repo   *repository.Repository
	book   *Book
	pool   Submitter
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	status map[int]dto.SaveResultResponse
}

// NewPersistenceService 创建 PersistenceService 实例；pool 为 nil 时异步保存退化为同步
func NewPersistenceService(repo *repository.Repository, book *Book, pool Submitter, logger *zap.Logger) PersistenceService {
	return &persistenceService{
		repo:   repo,
		book:   book,
		pool:   pool,
		logger: logger,
		now:    time.Now,
		status: make(map[int]dto.SaveResultResponse),
	}
}

// ────── Save ──────

func (s *persistenceService) Save(ctx context.Context, batchID int, operator string) (*dto.SaveResultResponse, error) {
	b, err := s.book.Get(batchID)
	if err != nil {
		return nil, err
	}
	result := s.persist(ctx, toDocument(b), operator)
	if result.Tier == string(TierFailed) {
		return &result, ErrSaveFailed
	}
	return &result, nil
}

func (s *persistenceService) SaveAsync(ctx context.Context, batchID int, operator string) (*dto.SaveResultResponse, error) {
	if s.pool == nil {
		return s.Save(ctx, batchID, operator)
	}
	b, err := s.book.Get(batchID)
	if err != nil {
		return nil, err
	}
	doc := toDocument(b)

	pending := dto.SaveResultResponse{
		BatchID: doc.ID,
		Key:     doc.Key(),
		Tier:    string(TierPending),
		Message: msgSavePending,
	}
	// 先记录 pending，避免任务先于记录完成而被覆盖
	s.mu.Lock()
	prev, hadPrev := s.status[doc.ID]
	s.status[doc.ID] = pending
	s.mu.Unlock()

	if err := s.pool.Submit(func(jobCtx context.Context) error {
		result := s.persist(jobCtx, doc, operator)
		if result.Tier == string(TierFailed) {
			return ErrSaveFailed
		}
		return nil
	}); err != nil {
		s.mu.Lock()
		if hadPrev {
			s.status[doc.ID] = prev
		} else {
			delete(s.status, doc.ID)
		}
		s.mu.Unlock()
		return nil, err
	}
	return &pending, nil
}

func (s *persistenceService) SaveStatus(_ context.Context, batchID int) (*dto.SaveResultResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.status[batchID]
	if !ok {
		return nil, ErrNoSaveRecord
	}
	return &result, nil
}

func (s *persistenceService) LocalSaved(ctx context.Context) (map[string]model.BatchDocument, error) {
	return s.repo.Fallback.All(ctx)
}

// persist 执行分级保存并记录结果；只写存储，不修改内存中的批次
func (s *persistenceService) persist(ctx context.Context, doc model.BatchDocument, operator string) dto.SaveResultResponse {
	log := s.logger.With(zap.Int("batch_id", doc.ID), zap.String("key", doc.Key()))
	result := dto.SaveResultResponse{BatchID: doc.ID, Key: doc.Key()}

	// 1. 远端合并写入
	remoteErr := s.repo.Batch.Upsert(ctx, s.row(doc, operator))
	if remoteErr == nil {
		return s.finish(result, TierRemote, msgSavedRemote, nil)
	}
	log.Warn("远端保存失败", zap.Error(remoteErr))

	// 2. 权限类错误：重新认证后以完整载荷重试一次
	denied := errors.Is(remoteErr, pkgerrors.ErrPersistenceDenied)
	if denied {
		if err := s.repo.Batch.Reauthenticate(ctx); err != nil {
			log.Warn("重新认证失败", zap.Error(err))
			remoteErr = err
		} else if err := s.repo.Batch.Upsert(ctx, s.row(doc, operator)); err != nil {
			log.Warn("重新认证后保存仍失败", zap.Error(err))
			remoteErr = err
		} else {
			return s.finish(result, TierRetried, msgSavedRetried, nil)
		}
	}

	// 3. 本地兜底
	if err := s.repo.Fallback.Put(ctx, doc); err != nil {
		log.Error("本地兜底保存失败", zap.Error(err))
		return s.finish(result, TierFailed, msgSaveFailed, errors.Join(remoteErr, err))
	}
	msg := msgSavedLocal
	if denied {
		msg = msgSavedLocalDenied
	}
	return s.finish(result, TierLocal, msg, remoteErr)
}

func (s *persistenceService) row(doc model.BatchDocument, operator string) *model.Batch {
	row := model.NewBatchRow(doc)
	if operator != "" {
		op := operator
		row.CreatedBy = &op
		row.UpdatedBy = &op
	}
	return row
}

func (s *persistenceService) finish(result dto.SaveResultResponse, tier SaveTier, msg string, err error) dto.SaveResultResponse {
	result.Tier = string(tier)
	result.Message = msg
	if err != nil {
		result.Error = err.Error()
	}
	result.SavedAt = s.now().UTC().Format(time.RFC3339)
	s.record(result)

	s.logger.Info("批次保存完成",
		zap.Int("batch_id", result.BatchID),
		zap.String("tier", result.Tier),
	)
	return result
}

func (s *persistenceService) record(result dto.SaveResultResponse) {
	s.mu.Lock()
	s.status[result.BatchID] = result
	s.mu.Unlock()
}
