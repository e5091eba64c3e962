package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"academic-calendar/backend/internal/calendar"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// eventNamespace ICS 事件 UID 的命名空间，同一批次同一事件多次导出 UID 不变
var eventNamespace = uuid.MustParse("6f1c5d8e-2b7a-4f0e-9a43-1d2e8c7b5a90")

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportBatchXLSX 学期表 + 作业表
	ExportBatchXLSX(ctx context.Context, batchID int) (*bytes.Buffer, string, error)
	// ExportBatchICS 学期区间（全天）、发布日、提交日与作业截止日
	ExportBatchICS(ctx context.Context, batchID int) (*bytes.Buffer, string, error)
}

type exportService struct {
	book   *Book
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(book *Book, logger *zap.Logger) ExportService {
	return &exportService{book: book, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportBatchXLSX
// ═══════════════════════════════════════════════════════════
//
// Sheet "Semesters": Semester | Start | End | Release Date | Submission Date
// Sheet "Assignments": Subject | Semester | Deadline | Late Deadline | Issue Date | Submission Date
// 日期为 DD/MM/YYYY，未设置留空。

const (
	sheetSemesters   = "Semesters"
	sheetAssignments = "Assignments"
)

func (s *exportService) ExportBatchXLSX(_ context.Context, batchID int) (*bytes.Buffer, string, error) {
	b, err := s.book.Get(batchID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(sheetSemesters)
	f.SetActiveSheet(idx)
	f.NewSheet(sheetAssignments)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 学期表
	title := fmt.Sprintf("%s (%s)", b.Name, b.Type)
	f.SetCellValue(sheetSemesters, "A1", title)
	f.MergeCell(sheetSemesters, "A1", "E1")
	f.SetCellStyle(sheetSemesters, "A1", "A1", headerStyle)

	semHeaders := []string{"Semester", "Start", "End", "Release Date", "Submission Date"}
	writeRow(f, sheetSemesters, 2, semHeaders)
	f.SetCellStyle(sheetSemesters, "A2", cell(colName(len(semHeaders)-1), 2), headerStyle)
	f.SetColWidth(sheetSemesters, "A", "A", 16)
	f.SetColWidth(sheetSemesters, "B", "E", 16)

	for i, row := range calendar.View(b) {
		writeRow(f, sheetSemesters, 3+i, []string{
			row.Name,
			row.Start.Display(""),
			row.End.Display(""),
			row.ReleaseDate.Display(""),
			row.SubmissionDate.Display(""),
		})
	}

	// 作业表
	asgHeaders := []string{"Subject", "Semester", "Deadline", "Late Deadline", "Issue Date", "Submission Date"}
	writeRow(f, sheetAssignments, 1, asgHeaders)
	f.SetCellStyle(sheetAssignments, "A1", cell(colName(len(asgHeaders)-1), 1), headerStyle)
	f.SetColWidth(sheetAssignments, "A", "A", 36)
	f.SetColWidth(sheetAssignments, "B", "F", 16)

	for i, a := range b.Assignments {
		writeRow(f, sheetAssignments, 2+i, []string{
			a.Subject,
			a.SemesterLabel(),
			a.Deadline.Display(""),
			a.LateDeadline.Display(""),
			a.IssueDate.Display(""),
			a.SubmissionDate.Display(""),
		})
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("academic_calendar_%s.xlsx", b.Key()), nil
}

// ═══════════════════════════════════════════════════════════
// ExportBatchICS
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportBatchICS(_ context.Context, batchID int) (*bytes.Buffer, string, error) {
	b, err := s.book.Get(batchID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//academic-calendar//batch export//EN")
	cal.SetXWRCalName(b.Name)

	stamp := s.now().UTC()
	add := func(key, summary string, start, end calendar.Date) {
		if !start.IsSet() {
			return
		}
		evt := cal.AddEvent(uuid.NewSHA1(eventNamespace, []byte(b.Key()+"/"+key)).String())
		evt.SetDtStampTime(stamp)
		evt.SetSummary(summary)
		evt.SetAllDayStartAt(start.Time())
		if end.IsSet() {
			evt.SetAllDayEndAt(end.Time())
		}
	}

	for i, row := range calendar.View(b) {
		// DTEND 不含当天，恰好是下一学期的开始
		add(fmt.Sprintf("sem-%d", i), fmt.Sprintf("%s: %s", b.Name, row.Name), row.Start, row.End)
		add(fmt.Sprintf("sem-%d-release", i), fmt.Sprintf("%s: %s release", b.Name, row.Name), row.ReleaseDate, calendar.Date{})
		add(fmt.Sprintf("sem-%d-submission", i), fmt.Sprintf("%s: %s submission", b.Name, row.Name), row.SubmissionDate, calendar.Date{})
	}
	for i, a := range b.Assignments {
		add(fmt.Sprintf("asg-%d", i), fmt.Sprintf("Deadline: %s", a.Subject), a.Deadline, calendar.Date{})
		add(fmt.Sprintf("asg-%d-late", i), fmt.Sprintf("Late deadline: %s", a.Subject), a.LateDeadline, calendar.Date{})
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, fmt.Sprintf("academic_calendar_%s.ics", b.Key()), nil
}

// ── 辅助函数 ──

func writeRow(f *excelize.File, sheet string, row int, values []string) {
	for i, v := range values {
		f.SetCellValue(sheet, cell(colName(i), row), v)
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
