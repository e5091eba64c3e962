package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"academic-calendar/backend/config"
	"academic-calendar/backend/internal/api/handler"
	"academic-calendar/backend/internal/api/middleware"
	"academic-calendar/backend/pkg/jwt"
	"academic-calendar/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// 只读接口公开；所有修改类接口要求编辑模式 Token（admin 角色）
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 编辑模式解锁（限流）
		v1.POST("/auth/unlock",
			middleware.RateLimit(rdb, cfg.Server.UnlockLimit, cfg.Server.UnlockWindow),
			h.Auth.Unlock)

		// 只读：科目目录、批次视图、导出
		v1.GET("/subjects", h.Deadline.ListSubjects)
		v1.GET("/batches", h.Batch.ListBatches)
		v1.GET("/batches/:id", h.Batch.GetBatch)

		export := v1.Group("/export")
		{
			export.GET("/batches/:id/xlsx", h.Export.ExportXLSX)
			export.GET("/batches/:id/ics", h.Export.ExportICS)
		}

		// 编辑模式
		admin := v1.Group("")
		admin.Use(middleware.JWTAuth(jwtMgr, rdb), middleware.RoleAuth(jwt.RoleAdmin))
		{
			admin.POST("/auth/lock", h.Auth.Lock)

			batches := admin.Group("/batches")
			{
				batches.POST("", h.Batch.CreateBatch)
				batches.POST("/reset", h.Batch.ResetBatches)
				batches.PUT("/:id/name", h.Batch.RenameBatch)
				batches.DELETE("/:id", h.Batch.DeleteBatch)
				batches.PUT("/:id/semesters/:index/start", h.Batch.SetSemesterStart)

				batches.GET("/:id/deadline-draft", h.Deadline.GetDraft)
				batches.POST("/:id/deadlines", h.Deadline.Release)

				batches.POST("/:id/save", h.Save.SaveBatch)
				batches.GET("/:id/save-status", h.Save.GetSaveStatus)
			}

			admin.GET("/saves/local", h.Save.ListLocalSaved)
		}
	}

	return r
}
