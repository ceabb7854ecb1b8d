package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

type WorkItem interface {
	Upsert(ctx context.Context, item model.WorkItem) (*model.WorkItem, error)
	Get(ctx context.Context, jobID uuid.UUID, itemType, refKey string) (*model.WorkItem, error)
	List(ctx context.Context, jobID uuid.UUID, filter *WorkItemQueryFilter) (model.WorkItemList, error)
}

type WorkItemStore struct {
	db *gorm.DB
}

// Make sure we conform to WorkItem interface
var _ WorkItem = (*WorkItemStore)(nil)

func NewWorkItemStore(db *gorm.DB) WorkItem {
	return &WorkItemStore{db: db}
}

// Upsert writes the full field set for the (job, item type, ref key) triple.
// Conflict resolution is last write wins at field granularity; callers read
// current state first when they only intend to change a subset.
func (s *WorkItemStore) Upsert(ctx context.Context, item model.WorkItem) (*model.WorkItem, error) {
	if item.Status == "" {
		item.Status = model.WorkItemStatusTodo
	}

	if err := s.getDB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_id"}, {Name: "item_type"}, {Name: "ref_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "status", "owner", "due_date", "notes", "username", "updated_at",
		}),
	}).Create(&item).Error; err != nil {
		return nil, err
	}

	return s.Get(ctx, item.JobID, item.ItemType, item.RefKey)
}

func (s *WorkItemStore) Get(ctx context.Context, jobID uuid.UUID, itemType, refKey string) (*model.WorkItem, error) {
	var item model.WorkItem
	err := s.getDB(ctx).First(&item, "job_id = ? AND item_type = ? AND ref_key = ?", jobID, itemType, refKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *WorkItemStore) List(ctx context.Context, jobID uuid.UUID, filter *WorkItemQueryFilter) (model.WorkItemList, error) {
	var items model.WorkItemList
	tx := s.getDB(ctx).Where("job_id = ?", jobID).Order("item_type, ref_key")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (s *WorkItemStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
