package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Work item overlay types and statuses.
const (
	WorkItemTypeRequirement   = "requirement"
	WorkItemTypeRisk          = "risk"
	WorkItemTypeClarification = "clarification"
	WorkItemTypeOutline       = "outline"

	WorkItemStatusTodo    = "todo"
	WorkItemStatusDoing   = "doing"
	WorkItemStatusBlocked = "blocked"
	WorkItemStatusDone    = "done"
)

// WorkItem is a human-authored overlay row layered on top of AI findings.
// The (job, item type, ref key) triple identifies it; the ref key is derived
// from the finding's content so the row survives regeneration of the
// findings themselves.
type WorkItem struct {
	JobID     uuid.UUID  `gorm:"primaryKey;column:job_id"`
	ItemType  string     `gorm:"primaryKey;column:item_type;type:VARCHAR(20)"`
	RefKey    string     `gorm:"primaryKey;column:ref_key;type:VARCHAR(100)"`
	Title     string     `gorm:"not null"`
	Status    string     `gorm:"not null;type:VARCHAR(10);default:todo"`
	Owner     string     `gorm:"type:VARCHAR(255)"`
	DueDate   *time.Time
	Notes     string    `gorm:"type:TEXT"`
	Username  string    `gorm:"type:VARCHAR(255)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

type WorkItemList []WorkItem

func (w WorkItem) String() string {
	val, _ := json.Marshal(w)
	return string(val)
}
