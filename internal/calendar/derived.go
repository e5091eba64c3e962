package calendar

// ── 派生日期视图 ──
//
// 发布日与提交日每次查询时重新计算，从不写回 Semester，级联更新后不会过期。

// ReleaseDate 学期开始 + 20 天（weekend 批次 30 天）
func ReleaseDate(sem Semester, t BatchType) Date {
	return sem.Start.AddDays(t.ReleaseOffset())
}

// SubmissionDate 学期结束 + 15 天
func SubmissionDate(sem Semester) Date {
	return sem.End.AddDays(15)
}

// SemesterView 单个学期的展示行
type SemesterView struct {
	Semester
	ReleaseDate    Date
	SubmissionDate Date
}

// View 计算批次所有学期的展示行
func View(b *Batch) []SemesterView {
	rows := make([]SemesterView, len(b.Semesters))
	for i, s := range b.Semesters {
		rows[i] = SemesterView{
			Semester:       s,
			ReleaseDate:    ReleaseDate(s, b.Type),
			SubmissionDate: SubmissionDate(s),
		}
	}
	return rows
}
