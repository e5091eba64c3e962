package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"academic-calendar/backend/internal/service"
	"academic-calendar/backend/pkg/response"
)

// SaveHandler 批次保存 HTTP 处理器
type SaveHandler struct {
	persistenceSvc service.PersistenceService
}

// NewSaveHandler 创建 SaveHandler
func NewSaveHandler(persistenceSvc service.PersistenceService) *SaveHandler {
	return &SaveHandler{persistenceSvc: persistenceSvc}
}

// SaveBatch 保存批次：远端 → 重新认证重试 → 本地兜底；?async=true 时后台执行
// POST /api/v1/batches/:id/save
func (h *SaveHandler) SaveBatch(c *gin.Context) {
	id, ok := MustParseIntParam(c, "id")
	if !ok {
		return
	}
	operator, ok := MustGetUsername(c)
	if !ok {
		return
	}

	if c.Query("async") == "true" {
		result, err := h.persistenceSvc.SaveAsync(c.Request.Context(), id, operator)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		if result.Tier == string(service.TierPending) {
			response.Accepted(c, result)
			return
		}
		response.OK(c, result)
		return
	}

	result, err := h.persistenceSvc.Save(c.Request.Context(), id, operator)
	if err != nil {
		if errors.Is(err, service.ErrSaveFailed) && result != nil {
			response.ErrorWithData(c, http.StatusBadGateway, response.CodeSaveFailed, result.Message, result)
			return
		}
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// GetSaveStatus 最近一次保存结果
// GET /api/v1/batches/:id/save-status
func (h *SaveHandler) GetSaveStatus(c *gin.Context) {
	id, ok := MustParseIntParam(c, "id")
	if !ok {
		return
	}
	result, err := h.persistenceSvc.SaveStatus(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// ListLocalSaved 本地兜底存储中的批次文档
// GET /api/v1/saves/local
func (h *SaveHandler) ListLocalSaved(c *gin.Context) {
	docs, err := h.persistenceSvc.LocalSaved(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeSaveFailed, "本地兜底存储不可用")
		return
	}
	response.OK(c, docs)
}
