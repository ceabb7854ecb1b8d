package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

// JobEvent rows are append-only. There is deliberately no update or delete.
type JobEvent interface {
	Append(ctx context.Context, event model.JobEvent) error
	List(ctx context.Context, jobID uuid.UUID) (model.JobEventList, error)
}

type JobEventStore struct {
	db *gorm.DB
}

// Make sure we conform to JobEvent interface
var _ JobEvent = (*JobEventStore)(nil)

func NewJobEventStore(db *gorm.DB) JobEvent {
	return &JobEventStore{db: db}
}

func (s *JobEventStore) Append(ctx context.Context, event model.JobEvent) error {
	if result := s.getDB(ctx).Create(&event); result.Error != nil {
		return fmt.Errorf("appending job event: %w", result.Error)
	}
	return nil
}

func (s *JobEventStore) List(ctx context.Context, jobID uuid.UUID) (model.JobEventList, error) {
	var events model.JobEventList
	result := s.getDB(ctx).Where("job_id = ?", jobID).Order("id").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}
	return events, nil
}

func (s *JobEventStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
