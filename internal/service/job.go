package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
	"github.com/tenderdesk/rfp-analyzer/internal/auth"
	"github.com/tenderdesk/rfp-analyzer/internal/events"
	"github.com/tenderdesk/rfp-analyzer/internal/runner"
	"github.com/tenderdesk/rfp-analyzer/internal/service/mappers"
	"github.com/tenderdesk/rfp-analyzer/internal/store"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
	"github.com/tenderdesk/rfp-analyzer/pkg/metrics"
)

// processTimeout bounds a best-effort background processing run fired on
// create or retry. The synchronous trigger endpoint relies on the HTTP
// layer's timeout instead.
const processTimeout = 10 * time.Minute

// ProcessOutcome is what the trigger endpoint reports back.
type ProcessOutcome string

const (
	ProcessOutcomeDone           ProcessOutcome = "done"
	ProcessOutcomeAlreadyDone    ProcessOutcome = "already_done"
	ProcessOutcomeAlreadyFailed  ProcessOutcome = "already_failed"
	ProcessOutcomeAlreadyClaimed ProcessOutcome = "already_claimed"
)

type JobService struct {
	store    store.Store
	runner   *runner.Runner
	recorder *events.Recorder
}

func NewJobService(s store.Store, r *runner.Runner, recorder *events.Recorder) *JobService {
	return &JobService{
		store:    s,
		runner:   r,
		recorder: recorder,
	}
}

func (s *JobService) CreateJob(ctx context.Context, request *api.CreateJobRequest, user auth.User) (*api.Job, error) {
	job := mappers.JobFromApi(uuid.New(), user, request)

	created, err := s.store.Job().Create(ctx, job)
	if err != nil {
		return nil, err
	}

	s.recorder.Emit(created.ID, model.EventLevelInfo, "job created", map[string]string{"format": created.Format})
	s.triggerProcessing(created.ID)

	apiJob := mappers.JobToApi(*created, nil)
	return &apiJob, nil
}

func (s *JobService) GetJob(ctx context.Context, id uuid.UUID, user auth.User) (*api.Job, error) {
	job, err := s.getOwnedJob(ctx, id, user)
	if err != nil {
		return nil, err
	}

	jobEvents, err := s.store.JobEvent().List(ctx, id)
	if err != nil {
		return nil, err
	}

	apiJob := mappers.JobToApi(*job, jobEvents)
	return &apiJob, nil
}

func (s *JobService) ListJobs(ctx context.Context, user auth.User) (api.JobList, error) {
	jobs, err := s.store.Job().List(ctx, store.NewJobQueryFilter().ByOrgID(user.Organization))
	if err != nil {
		return nil, err
	}
	return mappers.JobListToApi(jobs), nil
}

func (s *JobService) GetJobResult(ctx context.Context, id uuid.UUID, user auth.User) (*api.JobResult, error) {
	if _, err := s.getOwnedJob(ctx, id, user); err != nil {
		return nil, err
	}

	result, err := s.store.JobResult().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrResultNotFound(id)
		}
		return nil, err
	}

	apiResult := mappers.JobResultToApi(*result)
	return &apiResult, nil
}

// Process claims the job and, when the claim wins, runs the pipeline
// synchronously through to done or failed. Calls against a job that is
// already terminal or already claimed are no-ops reporting the existing
// state; the trigger endpoint is safe under at-least-once delivery.
func (s *JobService) Process(ctx context.Context, jobID uuid.UUID) (ProcessOutcome, error) {
	outcome, err := s.store.Job().Claim(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return "", NewErrJobNotFound(jobID)
		}
		return "", err
	}

	switch outcome {
	case store.ClaimOutcomeAlreadyDone:
		return ProcessOutcomeAlreadyDone, nil
	case store.ClaimOutcomeAlreadyFailed:
		return ProcessOutcomeAlreadyFailed, nil
	case store.ClaimOutcomeAlreadyClaimed:
		return ProcessOutcomeAlreadyClaimed, nil
	}

	job, err := s.store.Job().Get(ctx, jobID)
	if err != nil {
		return "", err
	}

	if err := s.runner.Run(ctx, job); err != nil {
		return "", err
	}

	return ProcessOutcomeDone, nil
}

// Retry resets a failed job to queued and fires a best-effort processing
// run. A failure of the re-trigger itself is not reported: the job stays
// queued for a later trigger pass.
func (s *JobService) Retry(ctx context.Context, id uuid.UUID, user auth.User) error {
	if _, err := s.getOwnedJob(ctx, id, user); err != nil {
		return err
	}

	job, err := s.store.Job().Retry(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrInvalidStatus) {
			current, getErr := s.store.Job().Get(ctx, id)
			if getErr != nil {
				return getErr
			}
			return NewErrRetryNotAllowed(id, current.Status)
		}
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrJobNotFound(id)
		}
		return err
	}

	metrics.IncreaseJobRetriesTotalMetric()
	s.recorder.Emit(job.ID, model.EventLevelInfo, "retry requested", map[string]string{"user": user.Username})
	s.triggerProcessing(job.ID)

	return nil
}

// triggerProcessing fires a background processing attempt. Attempt, log the
// outcome, never propagate: the caller's result must not depend on it.
func (s *JobService) triggerProcessing(jobID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()

		if outcome, err := s.Process(ctx, jobID); err != nil {
			zap.S().Named("job_service").Warnf("background processing of job %s failed: %s", jobID, err)
		} else {
			zap.S().Named("job_service").Infof("background processing of job %s finished: %s", jobID, outcome)
		}
	}()
}

func (s *JobService) getOwnedJob(ctx context.Context, id uuid.UUID, user auth.User) (*model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}

	if job.OrgID != user.Organization {
		return nil, NewErrJobAccessForbidden(id)
	}

	return job, nil
}
