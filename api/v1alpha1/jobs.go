package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Format    string     `json:"format"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Events    []JobEvent `json:"events,omitempty"`
}

type JobList []Job

type JobEvent struct {
	Level     string            `json:"level"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

type JobResult struct {
	JobId         uuid.UUID `json:"jobId"`
	ExtractedText string    `json:"extractedText,omitempty"`
	Analysis      *Analysis `json:"analysis,omitempty"`
}

type WorkItem struct {
	JobId    uuid.UUID  `json:"jobId"`
	ItemType string     `json:"itemType"`
	RefKey   string     `json:"refKey"`
	Title    string     `json:"title"`
	Status   string     `json:"status"`
	Owner    string     `json:"owner,omitempty"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

type WorkItemList []WorkItem

type CreateJobRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=255"`
	Format    string `json:"format" validate:"required,oneof=txt md html xlsx"`
	ObjectKey string `json:"object_key" validate:"required,min=1"`
}

type ProcessJobRequest struct {
	JobId *uuid.UUID `json:"job_id" validate:"required"`
}

type UpsertWorkItemRequest struct {
	ItemType string     `json:"item_type" validate:"required,oneof=requirement risk clarification outline"`
	RefKey   string     `json:"ref_key" validate:"required,min=1,max=100"`
	Title    string     `json:"title" validate:"required,min=1"`
	Status   string     `json:"status" validate:"omitempty,oneof=todo doing blocked done"`
	Owner    string     `json:"owner" validate:"omitempty,max=255"`
	DueDate  *time.Time `json:"due_date"`
	Notes    string     `json:"notes"`
}
