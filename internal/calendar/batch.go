package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// SemesterCount 每个批次固定的学期数
const SemesterCount = 4

var (
	ErrSemesterIndex    = errors.New("学期序号越界")
	ErrInvalidBatchType = errors.New("批次类型无效")
)

// BatchType 批次类型，创建后不可变
type BatchType string

const (
	Weekday BatchType = "weekday"
	Weekend BatchType = "weekend"
)

// ParseBatchType 解析批次类型，空串按 weekday 处理
func ParseBatchType(s string) (BatchType, error) {
	switch BatchType(strings.ToLower(strings.TrimSpace(s))) {
	case "", Weekday:
		return Weekday, nil
	case Weekend:
		return Weekend, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBatchType, s)
	}
}

// EndOffset 学期时长（天）
func (t BatchType) EndOffset() int {
	if t == Weekend {
		return 180
	}
	return 120
}

// ReleaseOffset 学期开始到发布日的天数
func (t BatchType) ReleaseOffset() int {
	if t == Weekend {
		return 30
	}
	return 20
}

// Semester 学期。End 永远由 Start 推导，不可单独编辑。
type Semester struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Start Date   `json:"start"`
	End   Date   `json:"end"`
}

// Batch 批次，独占其学期与作业
type Batch struct {
	ID          int          `json:"id"`
	Name        string       `json:"batchName"`
	Type        BatchType    `json:"type"`
	Semesters   []Semester   `json:"semesters"`
	Assignments []Assignment `json:"assignments"`
}

// DefaultSemesters 返回 4 个未设置日期的学期
func DefaultSemesters() []Semester {
	sems := make([]Semester, SemesterCount)
	for i := range sems {
		sems[i] = Semester{ID: i + 1, Name: Ordinal(i+1) + " Semester"}
	}
	return sems
}

// NewBatch 创建新批次；weekend 批次名称追加 " (Weekend)"
func NewBatch(id int, t BatchType) *Batch {
	name := fmt.Sprintf("Batch %d", id)
	if t == Weekend {
		name += " (Weekend)"
	}
	return &Batch{
		ID:          id,
		Name:        name,
		Type:        t,
		Semesters:   DefaultSemesters(),
		Assignments: []Assignment{},
	}
}

// DefaultBatches 启动时的两个默认批次（存在远端数据时被覆盖）
func DefaultBatches() []*Batch {
	return []*Batch{NewBatch(1, Weekday), NewBatch(2, Weekday)}
}

// Key 持久化键 batch-{id}
func (b *Batch) Key() string { return BatchKey(b.ID) }

// BatchKey 持久化键 batch-{id}
func BatchKey(id int) string { return fmt.Sprintf("batch-%d", id) }

// Clone 深拷贝
func (b *Batch) Clone() *Batch {
	c := *b
	c.Semesters = append([]Semester(nil), b.Semesters...)
	c.Assignments = append([]Assignment{}, b.Assignments...)
	return &c
}

// Normalize 补齐为恰好 4 个学期，缺失类型按 weekday 处理
func (b *Batch) Normalize() {
	if b.Type == "" {
		b.Type = Weekday
	}
	defaults := DefaultSemesters()
	if len(b.Semesters) > SemesterCount {
		b.Semesters = b.Semesters[:SemesterCount]
	}
	for i := len(b.Semesters); i < SemesterCount; i++ {
		b.Semesters = append(b.Semesters, defaults[i])
	}
	if b.Assignments == nil {
		b.Assignments = []Assignment{}
	}
}

// SetStart 设置第 k 个学期的开始日期，并向后级联重算。
// 0..k-1 号学期不受影响；同一编辑重复执行结果不变。
func (b *Batch) SetStart(k int, start Date) error {
	if k < 0 || k >= len(b.Semesters) {
		return fmt.Errorf("%w: %d", ErrSemesterIndex, k)
	}
	offset := b.Type.EndOffset()
	sems := b.Semesters

	sems[k].Start = start
	sems[k].End = start.AddDays(offset)

	for i := k + 1; i < len(sems); i++ {
		prevEnd := sems[i-1].End
		if !prevEnd.IsSet() {
			sems[i].Start = Date{}
			sems[i].End = Date{}
			continue
		}
		sems[i].Start = prevEnd
		sems[i].End = prevEnd.AddDays(offset)
	}
	return nil
}

// Ordinal 1 → 1st, 2 → 2nd, 11 → 11th, 23 → 23rd
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
