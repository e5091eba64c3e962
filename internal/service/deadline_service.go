package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"academic-calendar/backend/internal/calendar"
	"academic-calendar/backend/internal/dto"
	"academic-calendar/backend/pkg/clipboard"
)

// DeadlineService 作业截止业务接口
type DeadlineService interface {
	Subjects(ctx context.Context) []dto.SubjectGroupResponse
	// Draft 选定科目后推导发布日与提交日（确认前的只读字段）
	Draft(ctx context.Context, batchID int, subject string) (*dto.DeadlineDraftResponse, error)
	// Release 追加作业记录、渲染通知文本并复制；复制失败不回滚记录
	Release(ctx context.Context, batchID int, req *dto.ReleaseDeadlineRequest) (*dto.ReleaseDeadlineResponse, error)
}

type deadlineService struct {
	book   *Book
	sink   clipboard.Sink
	logger *zap.Logger
}

// NewDeadlineService 创建 DeadlineService 实例；sink 为 nil 时不复制
func NewDeadlineService(book *Book, sink clipboard.Sink, logger *zap.Logger) DeadlineService {
	if sink == nil {
		sink = clipboard.Discard{}
	}
	return &deadlineService{book: book, sink: sink, logger: logger}
}

func (s *deadlineService) Subjects(_ context.Context) []dto.SubjectGroupResponse {
	groups := calendar.SubjectsBySemester()
	out := make([]dto.SubjectGroupResponse, 0, len(groups))
	for i, subjects := range groups {
		out = append(out, dto.SubjectGroupResponse{
			SemesterIndex: i,
			Semester:      calendar.Ordinal(i+1) + " Semester",
			Subjects:      subjects,
		})
	}
	return out
}

func (s *deadlineService) Draft(_ context.Context, batchID int, subject string) (*dto.DeadlineDraftResponse, error) {
	b, err := s.book.Get(batchID)
	if err != nil {
		return nil, err
	}
	draft, err := calendar.PrepareDeadline(b, strings.TrimSpace(subject))
	if err != nil {
		return nil, err
	}
	return &dto.DeadlineDraftResponse{
		Subject:               draft.Subject,
		SemesterIndex:         draft.SemesterIndex,
		Semester:              calendar.Assignment{SemesterIndex: draft.SemesterIndex}.SemesterLabel(),
		IssueDate:             draft.IssueDate.String(),
		IssueDateDisplay:      draft.IssueDate.Display(""),
		SubmissionDate:        draft.SubmissionDate.String(),
		SubmissionDateDisplay: draft.SubmissionDate.Display(""),
	}, nil
}

func (s *deadlineService) Release(ctx context.Context, batchID int, req *dto.ReleaseDeadlineRequest) (*dto.ReleaseDeadlineResponse, error) {
	deadline, err := calendar.ParseDate(strings.TrimSpace(req.Deadline))
	if err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(req.Subject)

	var assignment calendar.Assignment
	_, err = s.book.Mutate(batchID, func(b *calendar.Batch) error {
		draft, err := calendar.PrepareDeadline(b, subject)
		if err != nil {
			return err
		}
		assignment, err = draft.Finalize(deadline)
		if err != nil {
			return err
		}
		b.Assignments = append(b.Assignments, assignment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg := assignment.Message()
	resp := &dto.ReleaseDeadlineResponse{
		Assignment: toAssignmentResponse(assignment),
		Message:    msg,
		Copied:     true,
	}
	if err := s.sink.Copy(ctx, msg); err != nil {
		s.logger.Warn("复制通知文本失败", zap.Int("batch_id", batchID), zap.Error(err))
		resp.Copied = false
		resp.CopyError = err.Error()
	}

	s.logger.Info("已发布作业截止",
		zap.Int("batch_id", batchID),
		zap.String("subject", assignment.Subject),
		zap.String("deadline", assignment.Deadline.String()),
	)
	return resp, nil
}
