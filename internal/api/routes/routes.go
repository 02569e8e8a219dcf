package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/speaksuit/speaksuit/internal/api/handlers"
)

type Deps struct {
	WS          *handlers.WSHandler
	Transcripts *handlers.TranscriptHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// WebSocket: join message first, then binary audio
	r.GET("/ws", d.WS.MeetingWS)

	// Aggregate history (read-only)
	r.GET("/transcripts", d.Transcripts.ListRecent)
}
