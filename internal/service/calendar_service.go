package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"academic-calendar/backend/config"
	"academic-calendar/backend/internal/calendar"
	"academic-calendar/backend/internal/dto"
	"academic-calendar/backend/internal/repository"
)

// ── 批次模块业务错误 ──

var (
	ErrSemesterLocked = errors.New("仅允许修改第一个学期的开始日期")
	ErrBatchNameEmpty = errors.New("批次名称不能为空")
)

// CalendarService 批次与学期级联业务接口
type CalendarService interface {
	// Load 启动时从远端加载全部批次；失败或为空时保留默认批次，不重试
	Load(ctx context.Context) (int, error)
	List(ctx context.Context, query string) []dto.BatchResponse
	Get(ctx context.Context, id int) (*dto.BatchResponse, error)
	AddBatch(ctx context.Context, req *dto.CreateBatchRequest) (*dto.BatchResponse, error)
	Rename(ctx context.Context, id int, req *dto.RenameBatchRequest) (*dto.BatchResponse, error)
	Remove(ctx context.Context, id int) error
	Reset(ctx context.Context) []dto.BatchResponse
	// SetStart 设置学期开始日期并向后级联
	SetStart(ctx context.Context, id, index int, req *dto.SetStartRequest) (*dto.BatchResponse, error)
}

type calendarService struct {
	cfg    *config.CalendarConfig
	repo   *repository.Repository
	book   *Book
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(cfg *config.CalendarConfig, repo *repository.Repository, book *Book, logger *zap.Logger) CalendarService {
	return &calendarService{
		cfg:    cfg,
		repo:   repo,
		book:   book,
		logger: logger,
	}
}

// ────── Load ──────

func (s *calendarService) Load(ctx context.Context) (int, error) {
	rows, err := s.repo.Batch.List(ctx)
	if err != nil {
		s.logger.Warn("加载远端批次失败，保留默认批次", zap.Error(err))
		return 0, err
	}
	if len(rows) == 0 {
		s.logger.Info("远端无批次数据，使用默认批次")
		return 0, nil
	}

	batches := make([]*calendar.Batch, 0, len(rows))
	for i := range rows {
		b := fromDocument(rows[i].DocKey, rows[i].Document())
		if b.ID <= 0 {
			s.logger.Warn("跳过无法识别 id 的批次", zap.String("doc_key", rows[i].DocKey))
			continue
		}
		batches = append(batches, b)
	}
	if len(batches) == 0 {
		return 0, nil
	}
	s.book.Replace(batches)
	s.logger.Info("已加载远端批次", zap.Int("count", len(batches)))
	return len(batches), nil
}

// ────── Query ──────

func (s *calendarService) List(_ context.Context, query string) []dto.BatchResponse {
	return toBatchResponses(s.book.List(query))
}

func (s *calendarService) Get(_ context.Context, id int) (*dto.BatchResponse, error) {
	b, err := s.book.Get(id)
	if err != nil {
		return nil, err
	}
	resp := toBatchResponse(b)
	return &resp, nil
}

// ────── Create / Rename / Remove / Reset ──────

func (s *calendarService) AddBatch(_ context.Context, req *dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	t, err := calendar.ParseBatchType(req.Type)
	if err != nil {
		return nil, err
	}
	b := s.book.Add(t)
	s.logger.Info("新增批次", zap.Int("batch_id", b.ID), zap.String("type", string(t)))
	resp := toBatchResponse(b)
	return &resp, nil
}

func (s *calendarService) Rename(_ context.Context, id int, req *dto.RenameBatchRequest) (*dto.BatchResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrBatchNameEmpty
	}
	b, err := s.book.Mutate(id, func(b *calendar.Batch) error {
		b.Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toBatchResponse(b)
	return &resp, nil
}

func (s *calendarService) Remove(_ context.Context, id int) error {
	if err := s.book.Remove(id); err != nil {
		return err
	}
	s.logger.Info("删除批次（仅内存）", zap.Int("batch_id", id))
	return nil
}

func (s *calendarService) Reset(_ context.Context) []dto.BatchResponse {
	s.book.Reset()
	s.logger.Info("已重置为默认批次")
	return toBatchResponses(s.book.List(""))
}

// ────── Cascade ──────

func (s *calendarService) SetStart(_ context.Context, id, index int, req *dto.SetStartRequest) (*dto.BatchResponse, error) {
	if index != 0 && !s.cfg.AllowAnySemesterEdit {
		return nil, ErrSemesterLocked
	}
	start, err := calendar.ParseDate(strings.TrimSpace(req.Start))
	if err != nil {
		return nil, err
	}

	b, err := s.book.Mutate(id, func(b *calendar.Batch) error {
		return b.SetStart(index, start)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("学期开始日期已更新",
		zap.Int("batch_id", id),
		zap.Int("semester_index", index),
		zap.String("start", start.String()),
	)
	resp := toBatchResponse(b)
	return &resp, nil
}
