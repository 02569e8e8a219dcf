package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	pgrepo "github.com/speaksuit/speaksuit/internal/repositories/postgres"
	"github.com/speaksuit/speaksuit/internal/utils"
)

type TranscriptHandler struct {
	utterances pgrepo.UtteranceRepo
}

func NewTranscriptHandler(utterances pgrepo.UtteranceRepo) *TranscriptHandler {
	return &TranscriptHandler{utterances: utterances}
}

// ListRecent returns a meeting's utterances newest-first, bounded by limit.
// Read-only companion surface; nothing here mutates state.
func (h *TranscriptHandler) ListRecent(c *gin.Context) {
	const op = "TranscriptHandler.ListRecent"

	meetingID := c.Query("meeting_id")
	if meetingID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "meeting_id is required", nil))
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "limit must be a positive integer", err))
			return
		}
		limit = n
	}
	if limit > 200 {
		limit = 200
	}

	rows, err := h.utterances.ListRecent(c.Request.Context(), meetingID, limit)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to list transcripts", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcripts": rows})
}
