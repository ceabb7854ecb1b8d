package mappers

import (
	"github.com/google/uuid"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
	"github.com/tenderdesk/rfp-analyzer/internal/auth"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

func JobFromApi(id uuid.UUID, user auth.User, resource *api.CreateJobRequest) model.Job {
	return model.Job{
		ID:        id,
		Name:      resource.Name,
		OrgID:     user.Organization,
		Username:  user.Username,
		Format:    resource.Format,
		ObjectKey: resource.ObjectKey,
		Status:    model.JobStatusQueued,
	}
}

func WorkItemFromApi(jobID uuid.UUID, user auth.User, resource *api.UpsertWorkItemRequest) model.WorkItem {
	item := model.WorkItem{
		JobID:    jobID,
		ItemType: resource.ItemType,
		RefKey:   resource.RefKey,
		Title:    resource.Title,
		Status:   resource.Status,
		Owner:    resource.Owner,
		DueDate:  resource.DueDate,
		Notes:    resource.Notes,
		Username: user.Username,
	}
	if item.Status == "" {
		item.Status = model.WorkItemStatusTodo
	}
	return item
}
