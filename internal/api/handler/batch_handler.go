package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"academic-calendar/backend/internal/dto"
	"academic-calendar/backend/internal/service"
	"academic-calendar/backend/pkg/response"
)

// BatchHandler 批次 / 学期 HTTP 处理器
type BatchHandler struct {
	calendarSvc service.CalendarService
}

// NewBatchHandler 创建 BatchHandler
func NewBatchHandler(calendarSvc service.CalendarService) *BatchHandler {
	return &BatchHandler{calendarSvc: calendarSvc}
}

// ListBatches 批次列表（含派生日期），支持按名称搜索
// GET /api/v1/batches?q=
func (h *BatchHandler) ListBatches(c *gin.Context) {
	var req dto.ListBatchesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "参数校验失败")
		return
	}
	response.OK(c, h.calendarSvc.List(c.Request.Context(), req.Query))
}

// GetBatch 批次详情
// GET /api/v1/batches/:id
func (h *BatchHandler) GetBatch(c *gin.Context) {
	id, ok := MustParseIntParam(c, "id")
	if !ok {
		return
	}
	result, err := h.calendarSvc.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateBatch 新增批次
// POST /api/v1/batches
func (h *BatchHandler) CreateBatch(c *gin.Context) {
	// 请求体可省略，默认 weekday
	var req dto.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}
	result, err := h.calendarSvc.AddBatch(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// RenameBatch 批次改名
// PUT /api/v1/batches/:id/name
func (h *BatchHandler) RenameBatch(c *gin.Context) {
	id, ok := MustParseIntParam(c, "id")
	if !ok {
		return
	}
	var req dto.RenameBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.calendarSvc.Rename(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteBatch 删除批次（仅内存，不删除远端记录）
// DELETE /api/v1/batches/:id
func (h *BatchHandler) DeleteBatch(c *gin.Context) {
	id, ok := MustParseIntParam(c, "id")
	if !ok {
		return
	}
	if err := h.calendarSvc.Remove(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// ResetBatches 恢复默认批次
// POST /api/v1/batches/reset
func (h *BatchHandler) ResetBatches(c *gin.Context) {
	response.OK(c, h.calendarSvc.Reset(c.Request.Context()))
}

// SetSemesterStart 设置学期开始日期并级联
// PUT /api/v1/batches/:id/semesters/:index/start
func (h *BatchHandler) SetSemesterStart(c *gin.Context) {
	id, ok := MustParseIntParam(c, "id")
	if !ok {
		return
	}
	index, ok := MustParseIntParam(c, "index")
	if !ok {
		return
	}
	var req dto.SetStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.calendarSvc.SetStart(c.Request.Context(), id, index, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}
