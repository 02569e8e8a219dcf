package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Explanation is one (term, explanation) pair attached to a summary.
type Explanation struct {
	Term        string `bson:"term" json:"term"`
	Explanation string `bson:"explanation" json:"explanation"`
}

// EnrichmentRecord is the enrichment result for one finalized utterance.
// Written once per successful summary call, independent of the Utterance row.
type EnrichmentRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MeetingID    string             `bson:"meeting_id" json:"meeting_id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	Summary      string             `bson:"summary" json:"summary"`
	Explanations []Explanation      `bson:"contextual_explanations,omitempty" json:"contextual_explanations,omitempty"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
}

// FilterExplanations drops entries missing either field. The summary service
// is not trusted to do this; filtering happens here before storage and
// before broadcast.
func FilterExplanations(in []Explanation) []Explanation {
	var out []Explanation
	for _, e := range in {
		if e.Term != "" && e.Explanation != "" {
			out = append(out, e)
		}
	}
	return out
}
