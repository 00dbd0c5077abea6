package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter は Handler を登録した gin.Engine を返します。
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	RegisterRoutes(r.Group(""), h)
	return r
}

// RegisterRoutes はルートを登録します。
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	employees := r.Group("/employees")
	{
		employees.GET("", h.ListEmployees)
		employees.DELETE("", h.ClearEmployees)
		employees.GET("/:id", h.GetEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)
		employees.POST("/:id/edit", h.StartEdit)
	}

	sessions := r.Group("/wizard")
	{
		sessions.POST("", h.StartCreate)
		sessions.DELETE("/:sid", h.Cancel)
		sessions.PUT("/:sid/personal", h.SavePersonal)
		sessions.POST("/:sid/official", h.AdvanceToOfficial)
		sessions.POST("/:sid/back", h.BackToPersonal)
		sessions.POST("/:sid/finalize", h.Finalize)
		sessions.POST("/:sid/avatar", h.UploadAvatar)
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
