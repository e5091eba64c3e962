package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"academic-calendar/backend/internal/calendar"
	"academic-calendar/backend/internal/repository"
	"academic-calendar/backend/internal/worker"
	pkgerrors "academic-calendar/backend/pkg/errors"
)

var errDenied = fmt.Errorf("%w: %v", pkgerrors.ErrPersistenceDenied, &pgconn.PgError{Code: "42501"})

func setupTestPersistenceService(pool Submitter) (PersistenceService, *mockBatchRepo, *mockFallbackStore, *Book) {
	repo, batchRepo, fallback := newMockRepository()
	book := NewBook()
	_, _ = book.Mutate(1, func(b *calendar.Batch) error {
		return b.SetStart(0, calendar.MustParseDate("2024-01-01"))
	})
	svc := NewPersistenceService(repo, book, pool, zap.NewNop())
	return svc, batchRepo, fallback, book
}

func TestPersistenceService_Save_Remote(t *testing.T) {
	svc, batchRepo, fallback, _ := setupTestPersistenceService(nil)

	res, err := svc.Save(context.Background(), 1, "Admin")
	if err != nil {
		t.Fatalf("Save 失败: %v", err)
	}
	if res.Tier != string(TierRemote) || res.Message != msgSavedRemote {
		t.Errorf("期望 remote，实际=%s %s", res.Tier, res.Message)
	}
	row, ok := batchRepo.rows[1]
	if !ok {
		t.Fatal("期望远端写入 batch 1")
	}
	if row.DocKey != "batch-1" || row.Semesters[0].End != "2024-04-30" {
		t.Errorf("远端载荷不符: %+v", row)
	}
	if row.UpdatedBy == nil || *row.UpdatedBy != "Admin" {
		t.Error("期望记录操作人")
	}
	if len(fallback.saved) != 0 {
		t.Error("远端成功时不应写本地兜底")
	}
}

func TestPersistenceService_Save_RetriedAfterReauth(t *testing.T) {
	svc, batchRepo, _, _ := setupTestPersistenceService(nil)
	batchRepo.upsertErr = []error{errDenied}

	res, err := svc.Save(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("Save 失败: %v", err)
	}
	if res.Tier != string(TierRetried) {
		t.Errorf("期望 retried，实际=%s", res.Tier)
	}
	upserts, reauths := batchRepo.counts()
	if upserts != 2 || reauths != 1 {
		t.Errorf("期望 2 次写入、1 次重新认证，实际 %d / %d", upserts, reauths)
	}
	// 重试使用完整载荷
	if row := batchRepo.rows[1]; row.Type != "weekday" || row.Assignments == nil {
		t.Errorf("重试载荷应完整，实际=%+v", row)
	}
}

// 远端拒绝 → 重试一次 → 再次失败 → 载荷原样写入本地 batch-{id}
func TestPersistenceService_Save_DeniedTwiceFallsBackLocal(t *testing.T) {
	svc, batchRepo, fallback, book := setupTestPersistenceService(nil)
	batchRepo.upsertErr = []error{errDenied, errDenied}

	res, err := svc.Save(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("本地兜底成功时不应返回错误: %v", err)
	}
	if res.Tier != string(TierLocal) || res.Message != msgSavedLocalDenied {
		t.Errorf("期望 local（权限），实际=%s %s", res.Tier, res.Message)
	}
	if _, reauths := batchRepo.counts(); reauths != 1 {
		t.Errorf("期望只重试一次，实际重新认证 %d 次", reauths)
	}

	doc, ok := fallback.saved["batch-1"]
	if !ok {
		t.Fatal("期望本地兜底存储中存在 batch-1")
	}
	b, _ := book.Get(1)
	want := toDocument(b)
	if doc.ID != want.ID || doc.BatchName != want.BatchName || doc.Type != want.Type {
		t.Errorf("兜底载荷不符: %+v", doc)
	}
	for i := range want.Semesters {
		if doc.Semesters[i] != want.Semesters[i] {
			t.Errorf("学期 %d 不符: %+v vs %+v", i, doc.Semesters[i], want.Semesters[i])
		}
	}
}

func TestPersistenceService_Save_OtherErrorSkipsRetry(t *testing.T) {
	svc, batchRepo, fallback, _ := setupTestPersistenceService(nil)
	batchRepo.upsertErr = []error{errConnReset}

	res, err := svc.Save(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("Save 失败: %v", err)
	}
	if res.Tier != string(TierLocal) || res.Message != msgSavedLocal {
		t.Errorf("期望 local，实际=%s %s", res.Tier, res.Message)
	}
	if _, reauths := batchRepo.counts(); reauths != 0 {
		t.Error("非权限错误不应重新认证")
	}
	if _, ok := fallback.saved["batch-1"]; !ok {
		t.Error("期望写入本地兜底")
	}
}

func TestPersistenceService_Save_TotalFailure(t *testing.T) {
	svc, batchRepo, fallback, book := setupTestPersistenceService(nil)
	batchRepo.upsertErr = []error{errDenied}
	batchRepo.reauthErr = errors.New("bad password")
	fallback.putErr = repository.ErrFallbackUnavailable

	res, err := svc.Save(context.Background(), 1, "")
	if !errors.Is(err, ErrSaveFailed) {
		t.Fatalf("期望 ErrSaveFailed，实际: %v", err)
	}
	if res == nil || res.Tier != string(TierFailed) || res.Error == "" {
		t.Errorf("期望 failed 结果，实际=%+v", res)
	}
	// 内存状态保持不变
	if b, _ := book.Get(1); b.Semesters[0].Start.String() != "2024-01-01" {
		t.Error("保存失败不应修改内存批次")
	}
}

func TestPersistenceService_Save_NotFound(t *testing.T) {
	svc, _, _, _ := setupTestPersistenceService(nil)

	if _, err := svc.Save(context.Background(), 99, ""); !errors.Is(err, ErrBatchNotFound) {
		t.Errorf("期望 ErrBatchNotFound，实际: %v", err)
	}
}

func TestPersistenceService_SaveStatus(t *testing.T) {
	svc, _, _, _ := setupTestPersistenceService(nil)
	ctx := context.Background()

	if _, err := svc.SaveStatus(ctx, 1); !errors.Is(err, ErrNoSaveRecord) {
		t.Errorf("期望 ErrNoSaveRecord，实际: %v", err)
	}
	_, _ = svc.Save(ctx, 1, "")
	st, err := svc.SaveStatus(ctx, 1)
	if err != nil || st.Tier != string(TierRemote) {
		t.Errorf("期望记录 remote，实际=%+v err=%v", st, err)
	}
}

func TestPersistenceService_SaveAsync(t *testing.T) {
	pool := worker.NewPool(1, zap.NewNop())
	pool.Start(context.Background())
	svc, batchRepo, _, _ := setupTestPersistenceService(pool)
	ctx := context.Background()

	res, err := svc.SaveAsync(ctx, 1, "Admin")
	if err != nil {
		t.Fatalf("SaveAsync 失败: %v", err)
	}
	if res.Tier != string(TierPending) {
		t.Errorf("期望 pending，实际=%s", res.Tier)
	}
	pool.Stop()

	st, err := svc.SaveStatus(ctx, 1)
	if err != nil || st.Tier != string(TierRemote) {
		t.Errorf("任务完成后期望 remote，实际=%+v err=%v", st, err)
	}
	if upserts, _ := batchRepo.counts(); upserts != 1 {
		t.Errorf("期望写入 1 次，实际=%d", upserts)
	}
}

func TestPersistenceService_SaveAsync_QueueFull(t *testing.T) {
	full := SubmitterFunc(func(worker.Job) error { return worker.ErrQueueFull })
	svc, _, _, _ := setupTestPersistenceService(full)
	ctx := context.Background()

	if _, err := svc.SaveAsync(ctx, 1, ""); !errors.Is(err, worker.ErrQueueFull) {
		t.Errorf("期望 ErrQueueFull，实际: %v", err)
	}
	if _, err := svc.SaveStatus(ctx, 1); !errors.Is(err, ErrNoSaveRecord) {
		t.Error("入队失败不应留下 pending 记录")
	}
}

func TestPersistenceService_SavedAtUsesClock(t *testing.T) {
	svc, _, _, _ := setupTestPersistenceService(nil)
	svc.(*persistenceService).now = func() time.Time {
		return time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	}

	res, _ := svc.Save(context.Background(), 1, "")
	if res.SavedAt != "2024-06-10T08:00:00Z" {
		t.Errorf("期望 2024-06-10T08:00:00Z，实际=%s", res.SavedAt)
	}
}
