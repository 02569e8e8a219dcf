package models

import (
	"time"

	"gorm.io/datatypes"
)

// Utterance is one finalized recognition result. Rows are written once and
// never updated.
type Utterance struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MeetingID string         `gorm:"column:meeting_id;type:text;index" json:"meeting_id"`
	UserID    string         `gorm:"column:user_id;type:text;index" json:"user_id"`
	Text      string         `gorm:"column:text;type:text" json:"text"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	Timestamp time.Time      `gorm:"column:timestamp;type:timestamptz;index" json:"timestamp"`
}

func (Utterance) TableName() string { return "utterances" }
