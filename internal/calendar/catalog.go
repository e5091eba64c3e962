package calendar

// subjectsBySemester 学期序号（0 起）→ 科目列表，静态配置
var subjectsBySemester = [SemesterCount][]string{
	{
		"Programming",
		"Networking",
		"Professional Practice",
		"Database Design and Development",
	},
	{
		"Security",
		"Planning A Computing Project",
		"Software Development Lifecycles",
		"Computing Systems Architecture",
		"Web Design and Development",
		"Maths for Computing",
	},
	{
		"Computing Research Project - Proposal",
		"Business Process Support",
		"Transport Network Design",
		"Cloud Computing",
		"Systems Analysis and Design",
		"User Experience and Interface Design",
	},
	{
		"Discrete Maths",
		"Data Structures and Algorithms",
		"Applied Programming and Design Principles",
		"Network Security",
		"Internet of Things",
		"Emerging Technologies",
		"Computing Research Project - Final Report",
	},
}

// SubjectsBySemester 返回科目目录的副本
func SubjectsBySemester() [][]string {
	out := make([][]string, len(subjectsBySemester))
	for i, list := range subjectsBySemester {
		out[i] = append([]string(nil), list...)
	}
	return out
}

// Subjects 按学期顺序展开的全部科目
func Subjects() []string {
	var out []string
	for _, list := range subjectsBySemester {
		out = append(out, list...)
	}
	return out
}

// SemesterIndexOf 科目所在学期序号，不存在返回 -1
func SemesterIndexOf(subject string) int {
	for i, list := range subjectsBySemester {
		for _, s := range list {
			if s == subject {
				return i
			}
		}
	}
	return -1
}
