package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

// ClaimOutcome reports the result of a claim attempt.
type ClaimOutcome string

const (
	ClaimOutcomeClaimed        ClaimOutcome = "claimed"
	ClaimOutcomeAlreadyClaimed ClaimOutcome = "already_claimed"
	ClaimOutcomeAlreadyDone    ClaimOutcome = "already_done"
	ClaimOutcomeAlreadyFailed  ClaimOutcome = "already_failed"
)

type Job interface {
	Create(ctx context.Context, job model.Job) (*model.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error)
	Claim(ctx context.Context, id uuid.UUID) (ClaimOutcome, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Job, error)
	Retry(ctx context.Context, id uuid.UUID) (*model.Job, error)
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) Create(ctx context.Context, job model.Job) (*model.Job, error) {
	if job.Status == "" {
		job.Status = model.JobStatusQueued
	}
	result := s.getDB(ctx).Clauses(clause.Returning{}).Create(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &job, nil
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	result := s.getDB(ctx).First(&job, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying job: %w", result.Error)
	}
	return &job, nil
}

func (s *JobStore) List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error) {
	var jobs model.JobList
	tx := s.getDB(ctx).Model(&jobs).Order("created_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

// Claim conditionally transitions a job from queued to processing. The
// conditional UPDATE is the sole concurrency-control point: when two callers
// race on the same queued job exactly one sees RowsAffected == 1. The loser
// gets the job's current state back as a non-error outcome.
func (s *JobStore) Claim(ctx context.Context, id uuid.UUID) (ClaimOutcome, error) {
	result := s.getDB(ctx).Model(&model.Job{}).
		Where("id = ? AND status = ?", id, model.JobStatusQueued).
		Update("status", model.JobStatusProcessing)
	if result.Error != nil {
		return "", fmt.Errorf("claiming job: %w", result.Error)
	}

	if result.RowsAffected == 1 {
		return ClaimOutcomeClaimed, nil
	}

	job, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	switch job.Status {
	case model.JobStatusDone:
		return ClaimOutcomeAlreadyDone, nil
	case model.JobStatusFailed:
		return ClaimOutcomeAlreadyFailed, nil
	default:
		return ClaimOutcomeAlreadyClaimed, nil
	}
}

func (s *JobStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Job, error) {
	job := model.Job{ID: id}
	result := s.getDB(ctx).Model(&job).Clauses(clause.Returning{}).Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("updating job status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return &job, nil
}

// Retry resets a failed job back to queued. The transition is conditional on
// the current status being failed; any other status returns ErrInvalidStatus.
func (s *JobStore) Retry(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	result := s.getDB(ctx).Model(&model.Job{}).
		Where("id = ? AND status = ?", id, model.JobStatusFailed).
		Update("status", model.JobStatusQueued)
	if result.Error != nil {
		return nil, fmt.Errorf("retrying job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrInvalidStatus
	}
	return s.Get(ctx, id)
}

func (s *JobStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
