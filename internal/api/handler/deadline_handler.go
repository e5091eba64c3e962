package handler

import (
	"github.com/gin-gonic/gin"

	"academic-calendar/backend/internal/dto"
	"academic-calendar/backend/internal/service"
	"academic-calendar/backend/pkg/response"
)

// DeadlineHandler 科目目录与作业截止 HTTP 处理器
type DeadlineHandler struct {
	deadlineSvc service.DeadlineService
}

// NewDeadlineHandler 创建 DeadlineHandler
func NewDeadlineHandler(deadlineSvc service.DeadlineService) *DeadlineHandler {
	return &DeadlineHandler{deadlineSvc: deadlineSvc}
}

// ListSubjects 按学期分组的科目目录
// GET /api/v1/subjects
func (h *DeadlineHandler) ListSubjects(c *gin.Context) {
	response.OK(c, h.deadlineSvc.Subjects(c.Request.Context()))
}

// GetDraft 选定科目后的发布日与提交日
// GET /api/v1/batches/:id/deadline-draft?subject=
func (h *DeadlineHandler) GetDraft(c *gin.Context) {
	id, ok := MustParseIntParam(c, "id")
	if !ok {
		return
	}
	subject := c.Query("subject")
	if subject == "" {
		response.BadRequest(c, response.CodeInvalidParams, "subject 不能为空")
		return
	}
	result, err := h.deadlineSvc.Draft(c.Request.Context(), id, subject)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Release 发布作业截止，返回通知文本与复制结果
// POST /api/v1/batches/:id/deadlines
func (h *DeadlineHandler) Release(c *gin.Context) {
	id, ok := MustParseIntParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReleaseDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.deadlineSvc.Release(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, result)
}
