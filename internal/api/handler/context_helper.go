package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"academic-calendar/backend/internal/api/middleware"
	"academic-calendar/backend/pkg/response"
)

// MustGetUsername 从 Gin 上下文中安全提取编辑模式操作人。
// JWT 中间件未注入时写入 401 响应，调用方应在 ok=false 时直接 return。
func MustGetUsername(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxUsername)
	if s == "" {
		response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
		return "", false
	}
	return s, true
}

// GetTokenInfo 当前 Token 的 jti 与过期时间
func GetTokenInfo(c *gin.Context) (string, time.Time) {
	return c.GetString(middleware.CtxTokenID), c.GetTime(middleware.CtxExpiresAt)
}

// MustParseIntParam 解析路径参数为非负整数，失败时写入 400 响应
func MustParseIntParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v < 0 {
		response.BadRequest(c, response.CodeInvalidParams, name+" 无效")
		return 0, false
	}
	return v, true
}
