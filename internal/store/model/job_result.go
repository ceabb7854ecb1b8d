package model

import (
	"time"

	"github.com/google/uuid"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
)

// JobResult holds the extracted text and the normalized findings for a job.
// It may hold only the extracted text when the pipeline failed after the
// fast-path extraction step.
type JobResult struct {
	JobID         uuid.UUID                 `gorm:"primaryKey;"`
	ExtractedText string                    `gorm:"type:TEXT"`
	Analysis      *JSONField[api.Analysis]  `gorm:"type:jsonb"`
	CreatedAt     time.Time                 `gorm:"not null"`
	UpdatedAt     time.Time
}
