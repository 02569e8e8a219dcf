package meeting

import (
	"encoding/json"

	"github.com/speaksuit/speaksuit/internal/models"
)

// Result frames look like `Summary:<userId>=<json>`; plain transcript frames
// carry the recognized text with no prefix. The client splits on the first
// `=` after the prefix.
const resultFramePrefix = "Summary:"

type resultBody struct {
	Summary      string               `json:"summary"`
	Explanations []models.Explanation `json:"contextual_explanations,omitempty"`
}

func resultFrame(userID, summary string, explanations []models.Explanation) []byte {
	body, _ := json.Marshal(resultBody{
		Summary:      summary,
		Explanations: explanations,
	})

	frame := make([]byte, 0, len(resultFramePrefix)+len(userID)+1+len(body))
	frame = append(frame, resultFramePrefix...)
	frame = append(frame, userID...)
	frame = append(frame, '=')
	frame = append(frame, body...)
	return frame
}
