package models

import (
	"time"

	"github.com/lib/pq"
)

// BroadcastMessage is an append-only audit record of one broadcast run.
type BroadcastMessage struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Text        string        `gorm:"type:text;not null" json:"text"`
	SentCount   int           `gorm:"default:0" json:"sent_count"`
	FailedCount int           `gorm:"default:0" json:"failed_count"`
	FailedIDs   pq.Int64Array `gorm:"type:bigint[]" json:"failed_ids,omitempty"`
	CreatedBy   int64         `gorm:"type:bigint;not null" json:"created_by"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
