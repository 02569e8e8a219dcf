package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/speaksuit/speaksuit/internal/meeting"
)

type WSHandler struct {
	hub      *meeting.Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *meeting.Hub) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

// MeetingWS upgrades the request and hands the connection to a Session. The
// session speaks its own protocol from here: a join message first, then
// binary audio.
func (h *WSHandler) MeetingWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}

	h.hub.NewSession(conn).Run(c.Request.Context())
}
