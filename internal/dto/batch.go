package dto

// ── 批次模块 DTO ──

// CreateBatchRequest 新增批次请求，type 为空时按 weekday 处理
type CreateBatchRequest struct {
	Type string `json:"type" binding:"omitempty,oneof=weekday weekend"`
}

// RenameBatchRequest 批次改名请求
type RenameBatchRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// SetStartRequest 设置学期开始日期，空串表示清除
type SetStartRequest struct {
	Start string `json:"start"` // "2024-01-01"
}

// ListBatchesRequest 批次查询参数
type ListBatchesRequest struct {
	Query string `form:"q"`
}
