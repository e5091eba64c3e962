package service

import (
	"academic-calendar/backend/internal/calendar"
	"academic-calendar/backend/internal/dto"
	"academic-calendar/backend/internal/model"
)

// ── calendar.Batch ↔ 持久化文档 ──

func toDocument(b *calendar.Batch) model.BatchDocument {
	doc := model.BatchDocument{
		ID:          b.ID,
		BatchName:   b.Name,
		Type:        string(b.Type),
		Semesters:   make([]model.SemesterRecord, len(b.Semesters)),
		Assignments: make([]model.AssignmentRecord, len(b.Assignments)),
	}
	if doc.Type == "" {
		doc.Type = string(calendar.Weekday)
	}
	for i, s := range b.Semesters {
		doc.Semesters[i] = model.SemesterRecord{
			ID:    s.ID,
			Name:  s.Name,
			Start: s.Start.String(),
			End:   s.End.String(),
		}
	}
	for i, a := range b.Assignments {
		doc.Assignments[i] = model.AssignmentRecord{
			Subject:            a.Subject,
			SemesterIndex:      a.SemesterIndex,
			ReleaseDate:        a.Deadline.String(),
			SubmissionDate:     a.SubmissionDate.String(),
			LateSubmissionDate: a.LateDeadline.String(),
			IssueDate:          a.IssueDate.String(),
		}
	}
	return doc
}

// fromDocument 远端文档转批次：缺失类型按 weekday，学期补齐为 4 个，
// id 缺失时从文档键推导，无法解析的日期视为未设置
func fromDocument(key string, doc model.BatchDocument) *calendar.Batch {
	id := doc.ID
	if id == 0 {
		id, _ = model.ParseDocKey(key)
	}
	t, err := calendar.ParseBatchType(doc.Type)
	if err != nil {
		t = calendar.Weekday
	}
	name := doc.BatchName
	if name == "" {
		name = key
	}

	b := &calendar.Batch{
		ID:          id,
		Name:        name,
		Type:        t,
		Assignments: make([]calendar.Assignment, 0, len(doc.Assignments)),
	}
	for _, s := range doc.Semesters {
		b.Semesters = append(b.Semesters, calendar.Semester{
			ID:    s.ID,
			Name:  s.Name,
			Start: lenientDate(s.Start),
			End:   lenientDate(s.End),
		})
	}
	for _, a := range doc.Assignments {
		b.Assignments = append(b.Assignments, calendar.Assignment{
			Subject:        a.Subject,
			SemesterIndex:  a.SemesterIndex,
			Deadline:       lenientDate(a.ReleaseDate),
			SubmissionDate: lenientDate(a.SubmissionDate),
			LateDeadline:   lenientDate(a.LateSubmissionDate),
			IssueDate:      lenientDate(a.IssueDate),
		})
	}
	b.Normalize()
	return b
}

func lenientDate(s string) calendar.Date {
	d, err := calendar.ParseDate(s)
	if err != nil {
		return calendar.Date{}
	}
	return d
}

// ── calendar → DTO ──

func toBatchResponse(b *calendar.Batch) dto.BatchResponse {
	resp := dto.BatchResponse{
		ID:          b.ID,
		BatchName:   b.Name,
		Type:        string(b.Type),
		Semesters:   make([]dto.SemesterResponse, 0, len(b.Semesters)),
		Assignments: make([]dto.AssignmentResponse, 0, len(b.Assignments)),
	}
	for i, row := range calendar.View(b) {
		resp.Semesters = append(resp.Semesters, dto.SemesterResponse{
			Index:                 i,
			ID:                    row.ID,
			Name:                  row.Name,
			Start:                 row.Start.String(),
			End:                   row.End.String(),
			StartDisplay:          row.Start.Display(""),
			EndDisplay:            row.End.Display(""),
			ReleaseDate:           row.ReleaseDate.String(),
			ReleaseDateDisplay:    row.ReleaseDate.Display(""),
			SubmissionDate:        row.SubmissionDate.String(),
			SubmissionDateDisplay: row.SubmissionDate.Display(""),
		})
	}
	for _, a := range b.Assignments {
		resp.Assignments = append(resp.Assignments, toAssignmentResponse(a))
	}
	return resp
}

func toAssignmentResponse(a calendar.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		Subject:             a.Subject,
		SemesterIndex:       a.SemesterIndex,
		Semester:            a.SemesterLabel(),
		Deadline:            a.Deadline.String(),
		LateDeadline:        a.LateDeadline.String(),
		IssueDate:           a.IssueDate.String(),
		SubmissionDate:      a.SubmissionDate.String(),
		DeadlineDisplay:     a.Deadline.Display(""),
		LateDeadlineDisplay: a.LateDeadline.Display(""),
		IssueDateDisplay:    a.IssueDate.Display(""),
		SubmissionDisplay:   a.SubmissionDate.Display(""),
	}
}

func toBatchResponses(list []*calendar.Batch) []dto.BatchResponse {
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBatchResponse(b))
	}
	return out
}
