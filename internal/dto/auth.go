package dto

// ── 管理员解锁 DTO ──

// UnlockRequest 解锁编辑模式请求
type UnlockRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UnlockResponse 解锁成功响应
type UnlockResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // 秒
	Username    string `json:"username"`
}
