package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
	"github.com/tenderdesk/rfp-analyzer/internal/auth"
	"github.com/tenderdesk/rfp-analyzer/internal/service/mappers"
	"github.com/tenderdesk/rfp-analyzer/internal/store"
)

// WorkItemService manages the human overlay on top of AI findings. Overlay
// rows are tracking metadata only; the findings themselves stay immutable.
type WorkItemService struct {
	store store.Store
}

func NewWorkItemService(s store.Store) *WorkItemService {
	return &WorkItemService{store: s}
}

// UpsertWorkItem writes the full field set for the addressed overlay row.
// Last write wins; there is no server-side partial merge.
func (s *WorkItemService) UpsertWorkItem(ctx context.Context, jobID uuid.UUID, request *api.UpsertWorkItemRequest, user auth.User) (*api.WorkItem, error) {
	if err := s.checkJobAccess(ctx, jobID, user); err != nil {
		return nil, err
	}

	item, err := s.store.WorkItem().Upsert(ctx, mappers.WorkItemFromApi(jobID, user, request))
	if err != nil {
		return nil, err
	}

	apiItem := mappers.WorkItemToApi(*item)
	return &apiItem, nil
}

func (s *WorkItemService) ListWorkItems(ctx context.Context, jobID uuid.UUID, itemType, refKeyPrefix string, user auth.User) (api.WorkItemList, error) {
	if err := s.checkJobAccess(ctx, jobID, user); err != nil {
		return nil, err
	}

	filter := store.NewWorkItemQueryFilter()
	if itemType != "" {
		filter = filter.ByItemType(itemType)
	}
	if refKeyPrefix != "" {
		filter = filter.ByRefKeyPrefix(refKeyPrefix)
	}

	items, err := s.store.WorkItem().List(ctx, jobID, filter)
	if err != nil {
		return nil, err
	}

	return mappers.WorkItemListToApi(items), nil
}

func (s *WorkItemService) checkJobAccess(ctx context.Context, jobID uuid.UUID, user auth.User) error {
	job, err := s.store.Job().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrJobNotFound(jobID)
		}
		return err
	}
	if job.OrgID != user.Organization {
		return NewErrJobAccessForbidden(jobID)
	}
	return nil
}
