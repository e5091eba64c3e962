package dto

// ── 保存结果 DTO ──

// SaveResultResponse 保存结果；tier 为 remote / retried / local / failed / pending
type SaveResultResponse struct {
	BatchID int    `json:"batch_id"`
	Key     string `json:"key"`
	Tier    string `json:"tier"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	SavedAt string `json:"saved_at,omitempty"`
}
