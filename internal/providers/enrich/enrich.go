package enrich

import (
	"context"

	"github.com/speaksuit/speaksuit/internal/models"
)

// Result is the raw enrichment output. Explanations are not filtered here;
// the caller drops entries missing a term or an explanation.
type Result struct {
	Summary      string               `json:"summary"`
	Explanations []models.Explanation `json:"contextual_explanations"`
}

// Provider produces a summary plus contextual explanations for one finalized
// utterance. Exactly one attempt per utterance; callers do not retry.
type Provider interface {
	Enrich(ctx context.Context, text, userID, meetingID string) (*Result, error)
	Close() error
}
