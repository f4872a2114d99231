package server

import (
	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/campus-nac-poc/internal/handler"
)

// SetupRouter はルーティングを設定する。
func SetupRouter(engine *gin.Engine, h *handler.NACHandler) {
	// ヘルスチェック
	engine.GET("/health", h.HandleHealth)

	// API v1
	v1 := engine.Group("/api/v1")
	{
		network := v1.Group("/network")
		{
			network.POST("/authorize", h.HandleAuthorize)
			network.POST("/radius", h.HandleRadius)
			network.GET("/sessions", h.HandleListSessions)
			network.POST("/sessions", h.HandleCreateSession)
			network.DELETE("/sessions", h.HandleDeleteSession)
		}
	}
}
