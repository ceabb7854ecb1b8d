package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Job() Job
	JobEvent() JobEvent
	JobResult() JobResult
	WorkItem() WorkItem
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db        *gorm.DB
	job       Job
	jobEvent  JobEvent
	jobResult JobResult
	workItem  WorkItem
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:        db,
		job:       NewJobStore(db),
		jobEvent:  NewJobEventStore(db),
		jobResult: NewJobResultStore(db),
		workItem:  NewWorkItemStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) JobEvent() JobEvent {
	return s.jobEvent
}

func (s *DataStore) JobResult() JobResult {
	return s.jobResult
}

func (s *DataStore) WorkItem() WorkItem {
	return s.workItem
}

// InitialMigration creates the schema via gorm. Production deployments run
// the goose migrations instead; this path backs local development and tests.
func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.Job{},
		&model.JobEvent{},
		&model.JobResult{},
		&model.WorkItem{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
