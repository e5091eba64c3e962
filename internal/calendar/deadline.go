package calendar

import (
	"errors"
	"fmt"

	pkgerrors "academic-calendar/backend/pkg/errors"
)

// LateSubmissionGraceDays 截止日到最终截止日的天数
const LateSubmissionGraceDays = 14

var ErrDeadlineRequired = errors.New("未选择截止日期")

// Assignment 作业截止记录，追加后不可修改。
//
// 术语统一：
//   - Deadline       运营人员选择的提交截止日（持久化字段名 releaseDate）
//   - LateDeadline   Deadline + 14 天（lateSubmissionDate）
//   - IssueDate      所属学期的发布日（学期开始 + 20/30 天）
//   - SubmissionDate 所属学期的提交日（学期结束 + 15 天）
type Assignment struct {
	Subject        string `json:"subject"`
	SemesterIndex  int    `json:"semesterIndex"`
	Deadline       Date   `json:"releaseDate"`
	SubmissionDate Date   `json:"submissionDate"`
	LateDeadline   Date   `json:"lateSubmissionDate"`
	IssueDate      Date   `json:"issueDate"`
}

// DeadlineDraft 选定科目后由学期推导出的只读字段
type DeadlineDraft struct {
	Subject        string
	SemesterIndex  int
	IssueDate      Date
	SubmissionDate Date
}

// PrepareDeadline 根据科目所在学期推导发布日与提交日
func PrepareDeadline(b *Batch, subject string) (DeadlineDraft, error) {
	idx := SemesterIndexOf(subject)
	if subject == "" || idx < 0 {
		return DeadlineDraft{SemesterIndex: -1}, fmt.Errorf("%w: %q", pkgerrors.ErrSubjectNotFound, subject)
	}
	draft := DeadlineDraft{Subject: subject, SemesterIndex: idx}
	if idx < len(b.Semesters) {
		sem := b.Semesters[idx]
		draft.IssueDate = ReleaseDate(sem, b.Type)
		draft.SubmissionDate = SubmissionDate(sem)
	}
	return draft, nil
}

// Finalize 填入运营人员选择的截止日，生成作业记录
func (d DeadlineDraft) Finalize(deadline Date) (Assignment, error) {
	if !deadline.IsSet() {
		return Assignment{}, ErrDeadlineRequired
	}
	return Assignment{
		Subject:        d.Subject,
		SemesterIndex:  d.SemesterIndex,
		Deadline:       deadline,
		SubmissionDate: d.SubmissionDate,
		LateDeadline:   deadline.AddDays(LateSubmissionGraceDays),
		IssueDate:      d.IssueDate,
	}, nil
}

// Message 渲染固定格式的通知文本（*...* 为即时通讯加粗标记）
func (a Assignment) Message() string {
	subject := a.Subject
	if subject == "" {
		subject = "-"
	}
	return fmt.Sprintf("Assignment Deadline - *%s*\n\n"+
		"Deadline of the Submission: *%s*\n"+
		"Late Submission Deadline: *%s*\n"+
		"After the late submission deadline, you cannot submit your assignment.\n\n"+
		"Issue date: %s\n"+
		"Submission date: %s",
		subject,
		a.Deadline.Display("-"),
		a.LateDeadline.Display("-"),
		a.IssueDate.Display("-"),
		a.SubmissionDate.Display("-"),
	)
}

// SemesterLabel 1 起的学期编号，未知时为 "-"
func (a Assignment) SemesterLabel() string {
	if a.SemesterIndex < 0 {
		return "-"
	}
	return fmt.Sprintf("%d", a.SemesterIndex+1)
}
