package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"academic-calendar/backend/internal/api/middleware"
	"academic-calendar/backend/internal/calendar"
	"academic-calendar/backend/internal/service"
	"academic-calendar/backend/internal/worker"
	pkgerrors "academic-calendar/backend/pkg/errors"
	"academic-calendar/backend/pkg/response"
)

// handleServiceError 业务错误 → HTTP 状态 + 业务码
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBatchNotFound):
		response.NotFound(c, response.CodeBatchNotFound, "批次不存在")
	case errors.Is(err, calendar.ErrSemesterIndex):
		response.BadRequest(c, response.CodeSemesterIndex, "学期序号越界")
	case errors.Is(err, service.ErrSemesterLocked):
		response.Forbidden(c, response.CodeSemesterLocked, "仅允许修改第一个学期的开始日期")
	case errors.Is(err, pkgerrors.ErrInvalidDate):
		response.BadRequest(c, response.CodeInvalidDate, "日期格式应为 YYYY-MM-DD")
	case errors.Is(err, calendar.ErrInvalidBatchType):
		response.BadRequest(c, response.CodeInvalidBatchType, "批次类型应为 weekday 或 weekend")
	case errors.Is(err, service.ErrBatchNameEmpty):
		response.BadRequest(c, response.CodeBatchNameEmpty, "批次名称不能为空")
	case errors.Is(err, pkgerrors.ErrSubjectNotFound):
		response.BadRequest(c, response.CodeSubjectNotFound, "科目不存在")
	case errors.Is(err, calendar.ErrDeadlineRequired):
		response.BadRequest(c, response.CodeDeadlineRequired, "未选择截止日期")
	case errors.Is(err, service.ErrNoSaveRecord):
		response.NotFound(c, response.CodeNoSaveRecord, "该批次暂无保存记录")
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrPoolStopped):
		response.Error(c, http.StatusServiceUnavailable, response.CodeSaveQueueFull, "保存队列繁忙，请稍后重试")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, response.CodeExportFailed, "生成导出文件失败")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// bindError 请求体绑定失败的响应
func bindError(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
		return
	}
	response.BadRequest(c, response.CodeInvalidParams, "参数校验失败")
}
