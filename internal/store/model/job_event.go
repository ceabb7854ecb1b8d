package model

import (
	"time"

	"github.com/google/uuid"
)

// Event levels.
const (
	EventLevelInfo  = "info"
	EventLevelWarn  = "warn"
	EventLevelError = "error"
)

// JobEvent is an append-only trail entry for a job. Rows are never updated
// or deleted.
type JobEvent struct {
	ID        uint                          `gorm:"primaryKey;autoIncrement"`
	JobID     uuid.UUID                     `gorm:"not null;index:job_events_job_id_idx"`
	Level     string                        `gorm:"not null;type:VARCHAR(10)"`
	Message   string                        `gorm:"not null"`
	Metadata  *JSONField[map[string]string] `gorm:"type:jsonb"`
	CreatedAt time.Time                     `gorm:"not null"`
}

type JobEventList []JobEvent
