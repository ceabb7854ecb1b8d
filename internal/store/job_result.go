package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

type JobResult interface {
	Get(ctx context.Context, jobID uuid.UUID) (*model.JobResult, error)
	UpsertText(ctx context.Context, jobID uuid.UUID, text string) (*model.JobResult, error)
	UpsertAnalysis(ctx context.Context, jobID uuid.UUID, analysis api.Analysis) (*model.JobResult, error)
}

type JobResultStore struct {
	db *gorm.DB
}

// Make sure we conform to JobResult interface
var _ JobResult = (*JobResultStore)(nil)

func NewJobResultStore(db *gorm.DB) JobResult {
	return &JobResultStore{db: db}
}

func (s *JobResultStore) Get(ctx context.Context, jobID uuid.UUID) (*model.JobResult, error) {
	var result model.JobResult
	if err := s.getDB(ctx).First(&result, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}

// UpsertText persists the extracted text as soon as it is available so a
// failure later in the pipeline does not lose the extraction work.
func (s *JobResultStore) UpsertText(ctx context.Context, jobID uuid.UUID, text string) (*model.JobResult, error) {
	result := model.JobResult{
		JobID:         jobID,
		ExtractedText: text,
	}

	if err := s.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"extracted_text", "updated_at"}),
	}).Create(&result).Error; err != nil {
		return nil, err
	}

	return s.Get(ctx, jobID)
}

func (s *JobResultStore) UpsertAnalysis(ctx context.Context, jobID uuid.UUID, analysis api.Analysis) (*model.JobResult, error) {
	result := model.JobResult{
		JobID:    jobID,
		Analysis: model.MakeJSONField(analysis),
	}

	if err := s.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"analysis", "updated_at"}),
	}).Create(&result).Error; err != nil {
		return nil, err
	}

	return s.Get(ctx, jobID)
}

func (s *JobResultStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
