package dto

// ── 作业截止 DTO ──

// DeadlineDraftResponse 选定科目后推导出的只读字段
type DeadlineDraftResponse struct {
	Subject               string `json:"subject"`
	SemesterIndex         int    `json:"semester_index"`
	Semester              string `json:"semester"`
	IssueDate             string `json:"issue_date"`
	IssueDateDisplay      string `json:"issue_date_display"`
	SubmissionDate        string `json:"submission_date"`
	SubmissionDateDisplay string `json:"submission_date_display"`
}

// ReleaseDeadlineRequest 确认发布作业截止
type ReleaseDeadlineRequest struct {
	Subject  string `json:"subject"  binding:"required"`
	Deadline string `json:"deadline" binding:"required"` // "2024-06-10"
}

// ReleaseDeadlineResponse 发布结果；剪贴板失败不影响作业记录
type ReleaseDeadlineResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	Message    string             `json:"message"`
	Copied     bool               `json:"copied"`
	CopyError  string             `json:"copy_error,omitempty"`
}

// SubjectGroupResponse 按学期分组的科目目录
type SubjectGroupResponse struct {
	SemesterIndex int      `json:"semester_index"`
	Semester      string   `json:"semester"`
	Subjects      []string `json:"subjects"`
}
