package model

// SemesterRecord 持久化的学期记录，日期为 "YYYY-MM-DD" 或 ""
type SemesterRecord struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// AssignmentRecord 持久化的作业截止记录
// releaseDate 保存运营人员选择的截止日
type AssignmentRecord struct {
	Subject            string `json:"subject"`
	SemesterIndex      int    `json:"semesterIndex"`
	ReleaseDate        string `json:"releaseDate"`
	SubmissionDate     string `json:"submissionDate"`
	LateSubmissionDate string `json:"lateSubmissionDate"`
	IssueDate          string `json:"issueDate"`
}
