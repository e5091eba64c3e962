package handler

import "academic-calendar/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Batch    *BatchHandler
	Deadline *DeadlineHandler
	Save     *SaveHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Batch:    NewBatchHandler(svc.Calendar),
		Deadline: NewDeadlineHandler(svc.Deadline),
		Save:     NewSaveHandler(svc.Persistence),
		Export:   NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
