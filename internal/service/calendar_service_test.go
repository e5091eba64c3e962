package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"academic-calendar/backend/config"
	"academic-calendar/backend/internal/calendar"
	"academic-calendar/backend/internal/dto"
	"academic-calendar/backend/internal/model"
	pkgerrors "academic-calendar/backend/pkg/errors"
)

func setupTestCalendarService(cfg *config.CalendarConfig) (CalendarService, *mockBatchRepo, *Book) {
	repo, batchRepo, _ := newMockRepository()
	book := NewBook()
	if cfg == nil {
		cfg = &config.CalendarConfig{}
	}
	return NewCalendarService(cfg, repo, book, zap.NewNop()), batchRepo, book
}

// ── Load ──

func TestCalendarService_Load_FailureKeepsDefaults(t *testing.T) {
	svc, batchRepo, _ := setupTestCalendarService(nil)
	batchRepo.listErr = errConnReset

	n, err := svc.Load(context.Background())
	if err == nil {
		t.Fatal("期望返回加载错误")
	}
	if n != 0 {
		t.Errorf("期望加载 0 个，实际=%d", n)
	}
	list := svc.List(context.Background(), "")
	if len(list) != 2 || list[0].BatchName != "Batch 1" || list[1].BatchName != "Batch 2" {
		t.Errorf("期望保留两个默认批次，实际=%+v", list)
	}
}

func TestCalendarService_Load_EmptyKeepsDefaults(t *testing.T) {
	svc, _, _ := setupTestCalendarService(nil)

	n, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if n != 0 || len(svc.List(context.Background(), "")) != 2 {
		t.Error("远端为空时应保留默认批次")
	}
}

func TestCalendarService_Load_Normalizes(t *testing.T) {
	svc, batchRepo, _ := setupTestCalendarService(nil)
	// id 缺失、类型缺失、学期不足 4 个
	batchRepo.rows[0] = model.Batch{
		DocKey:    "batch-7",
		BatchName: "Legacy",
		Semesters: datatypes.JSONSlice[model.SemesterRecord]{
			{ID: 1, Name: "1st Semester", Start: "2024-01-01", End: "2024-04-30"},
		},
	}

	n, err := svc.Load(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("期望加载 1 个批次，n=%d err=%v", n, err)
	}
	b, err := svc.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("期望可按键推导出 id 7: %v", err)
	}
	if b.Type != "weekday" {
		t.Errorf("期望类型默认 weekday，实际=%s", b.Type)
	}
	if len(b.Semesters) != calendar.SemesterCount {
		t.Fatalf("期望补齐为 4 个学期，实际=%d", len(b.Semesters))
	}
	if b.Semesters[3].Name != "4th Semester" || b.Semesters[3].Start != "" {
		t.Errorf("补齐的学期应为默认值，实际=%+v", b.Semesters[3])
	}
	if b.Semesters[0].ReleaseDate != "2024-01-21" {
		t.Errorf("期望发布日 2024-01-21，实际=%s", b.Semesters[0].ReleaseDate)
	}
	if _, err := svc.Get(context.Background(), 1); !errors.Is(err, ErrBatchNotFound) {
		t.Error("远端有数据时默认批次应被替换")
	}
}

// ── Add / Rename / Remove / Reset / Search ──

func TestCalendarService_AddBatch_MaxPlusOne(t *testing.T) {
	svc, _, _ := setupTestCalendarService(nil)
	ctx := context.Background()

	if err := svc.Remove(ctx, 1); err != nil {
		t.Fatalf("Remove 失败: %v", err)
	}
	b, err := svc.AddBatch(ctx, &dto.CreateBatchRequest{Type: "weekend"})
	if err != nil {
		t.Fatalf("AddBatch 失败: %v", err)
	}
	if b.ID != 3 {
		t.Errorf("期望 id=3（最大 id + 1），实际=%d", b.ID)
	}
	if b.BatchName != "Batch 3 (Weekend)" || b.Type != "weekend" {
		t.Errorf("名称或类型不符: %s %s", b.BatchName, b.Type)
	}
	if len(b.Assignments) != 0 || len(b.Semesters) != 4 {
		t.Error("新批次应有 4 个空学期且无作业")
	}
}

func TestCalendarService_AddBatch_InvalidType(t *testing.T) {
	svc, _, _ := setupTestCalendarService(nil)

	_, err := svc.AddBatch(context.Background(), &dto.CreateBatchRequest{Type: "holiday"})
	if !errors.Is(err, calendar.ErrInvalidBatchType) {
		t.Errorf("期望 ErrInvalidBatchType，实际: %v", err)
	}
}

func TestCalendarService_Rename(t *testing.T) {
	svc, _, _ := setupTestCalendarService(nil)
	ctx := context.Background()

	if _, err := svc.Rename(ctx, 1, &dto.RenameBatchRequest{Name: "  "}); !errors.Is(err, ErrBatchNameEmpty) {
		t.Errorf("期望 ErrBatchNameEmpty，实际: %v", err)
	}
	b, err := svc.Rename(ctx, 1, &dto.RenameBatchRequest{Name: " Evening Cohort "})
	if err != nil {
		t.Fatalf("Rename 失败: %v", err)
	}
	if b.BatchName != "Evening Cohort" {
		t.Errorf("期望名称已去除首尾空格，实际=%q", b.BatchName)
	}
	if _, err := svc.Rename(ctx, 99, &dto.RenameBatchRequest{Name: "x"}); !errors.Is(err, ErrBatchNotFound) {
		t.Errorf("期望 ErrBatchNotFound，实际: %v", err)
	}
}

func TestCalendarService_List_Search(t *testing.T) {
	svc, _, _ := setupTestCalendarService(nil)
	ctx := context.Background()
	_, _ = svc.AddBatch(ctx, &dto.CreateBatchRequest{Type: "weekend"})

	got := svc.List(ctx, "  WEEKEND ")
	if len(got) != 1 || got[0].ID != 3 {
		t.Errorf("期望只匹配 weekend 批次，实际=%+v", got)
	}
	if len(svc.List(ctx, "batch")) != 3 {
		t.Error("不区分大小写的子串应匹配全部批次")
	}
}

func TestCalendarService_Reset(t *testing.T) {
	svc, _, _ := setupTestCalendarService(nil)
	ctx := context.Background()
	_, _ = svc.AddBatch(ctx, &dto.CreateBatchRequest{})
	_, _ = svc.SetStart(ctx, 1, 0, &dto.SetStartRequest{Start: "2024-01-01"})

	list := svc.Reset(ctx)
	if len(list) != 2 {
		t.Fatalf("期望重置为 2 个批次，实际=%d", len(list))
	}
	if list[0].Semesters[0].Start != "" {
		t.Error("重置后学期日期应为空")
	}
}

// ── SetStart ──

func TestCalendarService_SetStart_Cascades(t *testing.T) {
	svc, _, _ := setupTestCalendarService(nil)

	b, err := svc.SetStart(context.Background(), 1, 0, &dto.SetStartRequest{Start: "2024-01-01"})
	if err != nil {
		t.Fatalf("SetStart 失败: %v", err)
	}
	want := [][2]string{
		{"2024-01-01", "2024-04-30"},
		{"2024-04-30", "2024-08-28"},
		{"2024-08-28", "2024-12-26"},
		{"2024-12-26", "2025-04-25"},
	}
	for i, w := range want {
		if b.Semesters[i].Start != w[0] || b.Semesters[i].End != w[1] {
			t.Errorf("学期 %d 期望 %v，实际 %s..%s", i, w, b.Semesters[i].Start, b.Semesters[i].End)
		}
	}
	if b.Semesters[0].StartDisplay != "01/01/2024" {
		t.Errorf("期望展示 01/01/2024，实际=%s", b.Semesters[0].StartDisplay)
	}
}

func TestCalendarService_SetStart_LockedSemester(t *testing.T) {
	svc, _, _ := setupTestCalendarService(nil)

	_, err := svc.SetStart(context.Background(), 1, 2, &dto.SetStartRequest{Start: "2024-01-01"})
	if !errors.Is(err, ErrSemesterLocked) {
		t.Errorf("期望 ErrSemesterLocked，实际: %v", err)
	}
}

func TestCalendarService_SetStart_AnySemesterWhenAllowed(t *testing.T) {
	svc, _, _ := setupTestCalendarService(&config.CalendarConfig{AllowAnySemesterEdit: true})
	ctx := context.Background()
	_, _ = svc.SetStart(ctx, 1, 0, &dto.SetStartRequest{Start: "2024-01-01"})

	b, err := svc.SetStart(ctx, 1, 2, &dto.SetStartRequest{Start: "2025-02-01"})
	if err != nil {
		t.Fatalf("SetStart 失败: %v", err)
	}
	if b.Semesters[1].End != "2024-08-28" {
		t.Errorf("前序学期不应被修改，实际=%s", b.Semesters[1].End)
	}
	if b.Semesters[2].End != "2025-06-01" || b.Semesters[3].Start != "2025-06-01" {
		t.Errorf("级联结果不符: %+v", b.Semesters[2:])
	}
}

func TestCalendarService_SetStart_InvalidDate(t *testing.T) {
	svc, _, _ := setupTestCalendarService(nil)

	_, err := svc.SetStart(context.Background(), 1, 0, &dto.SetStartRequest{Start: "2024-13-01"})
	if !errors.Is(err, pkgerrors.ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}

func TestCalendarService_SetStart_ClearUnsetsAll(t *testing.T) {
	svc, _, _ := setupTestCalendarService(nil)
	ctx := context.Background()
	_, _ = svc.SetStart(ctx, 2, 0, &dto.SetStartRequest{Start: "2024-01-01"})

	b, err := svc.SetStart(ctx, 2, 0, &dto.SetStartRequest{Start: ""})
	if err != nil {
		t.Fatalf("SetStart 失败: %v", err)
	}
	for i, s := range b.Semesters {
		if s.Start != "" || s.End != "" || s.ReleaseDate != "" || s.SubmissionDate != "" {
			t.Errorf("学期 %d 应全部为未设置，实际=%+v", i, s)
		}
	}
}
