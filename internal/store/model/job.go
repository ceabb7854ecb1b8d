package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job status constants. The only legal transitions are
// queued -> processing -> {done, failed}, plus failed -> queued on an
// explicit retry.
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusDone       = "done"
	JobStatusFailed     = "failed"
)

// Source document formats the extraction step understands.
const (
	JobFormatTxt      = "txt"
	JobFormatMarkdown = "md"
	JobFormatHTML     = "html"
	JobFormatXlsx     = "xlsx"
)

type Job struct {
	ID        uuid.UUID `gorm:"primaryKey;"`
	Name      string    `gorm:"not null"`
	OrgID     string    `gorm:"not null;index:jobs_org_id_idx"`
	Username  string    `gorm:"type:VARCHAR(255)"`
	Format    string    `gorm:"not null;type:VARCHAR(20)"`
	ObjectKey string    `gorm:"not null"`
	Status    string    `gorm:"not null;type:VARCHAR(20);index:jobs_status_idx"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

type JobList []Job

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}
