// Package runner executes the per-job processing pipeline: download,
// extract, analyze, persist. One job per invocation, synchronously, no
// internal parallelism. Exclusivity is guaranteed by the store's claim
// transition, not by anything in here.
package runner

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
	"github.com/tenderdesk/rfp-analyzer/internal/analysis"
	"github.com/tenderdesk/rfp-analyzer/internal/events"
	"github.com/tenderdesk/rfp-analyzer/internal/evidence"
	"github.com/tenderdesk/rfp-analyzer/internal/extract"
	"github.com/tenderdesk/rfp-analyzer/internal/objstore"
	"github.com/tenderdesk/rfp-analyzer/internal/store"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
	"github.com/tenderdesk/rfp-analyzer/pkg/metrics"
)

type Runner struct {
	store      store.Store
	downloader objstore.Downloader
	analyzer   analysis.Analyzer
	recorder   *events.Recorder
}

func New(s store.Store, downloader objstore.Downloader, analyzer analysis.Analyzer, recorder *events.Recorder) *Runner {
	return &Runner{
		store:      s,
		downloader: downloader,
		analyzer:   analyzer,
		recorder:   recorder,
	}
}

// Run processes one claimed job start to finish. The job must already be in
// processing state. Any failure marks the job failed and returns the error;
// a nil return means the job reached done with findings persisted.
func (r *Runner) Run(ctx context.Context, job *model.Job) error {
	logger := zap.S().Named("runner").With("job_id", job.ID)

	r.recorder.Emit(job.ID, model.EventLevelInfo, "processing started", map[string]string{"format": job.Format})

	data, err := r.downloader.Get(ctx, job.ObjectKey)
	if err != nil {
		return r.fail(ctx, job, "download failed", err)
	}
	r.recorder.Emit(job.ID, model.EventLevelInfo, "source document downloaded", map[string]string{"bytes": strconv.Itoa(len(data))})

	text, err := extract.Text(job.Format, data)
	if err != nil {
		return r.fail(ctx, job, "text extraction failed", err)
	}
	if text == "" {
		// reviewable even without findings, so keep going
		r.recorder.Emit(job.ID, model.EventLevelWarn, "extraction produced empty text", nil)
	} else {
		r.recorder.Emit(job.ID, model.EventLevelInfo, "text extracted", map[string]string{"chars": strconv.Itoa(len(text))})
	}

	// Persist the extracted text before the analysis step so a downstream
	// failure does not lose the extraction work.
	if _, err := r.store.JobResult().UpsertText(ctx, job.ID, text); err != nil {
		return r.fail(ctx, job, "persisting extracted text failed", err)
	}

	started := time.Now()
	findings, err := r.analyzer.Analyze(ctx, job.Name, text)
	if err != nil {
		return r.fail(ctx, job, "analysis failed", err)
	}
	metrics.ObserveAnalysisDurationMetric(time.Since(started).Seconds())
	r.recorder.Emit(job.ID, model.EventLevelInfo, "analysis completed", map[string]string{
		"requirements": strconv.Itoa(len(findings.Requirements)),
		"risks":        strconv.Itoa(len(findings.Risks)),
	})

	attachEvidence(findings, text)

	if _, err := r.store.JobResult().UpsertAnalysis(ctx, job.ID, *findings); err != nil {
		return r.fail(ctx, job, "persisting findings failed", err)
	}

	if _, err := r.store.Job().UpdateStatus(ctx, job.ID, model.JobStatusDone); err != nil {
		return r.fail(ctx, job, "marking job done failed", err)
	}

	metrics.IncreaseJobsProcessedTotalMetric(model.JobStatusDone)
	r.recorder.Emit(job.ID, model.EventLevelInfo, "processing completed", nil)
	logger.Info("job processed")

	return nil
}

// fail transitions the job to failed and records the error. The status
// update itself is best effort: by this point the caller gets the original
// error regardless.
func (r *Runner) fail(ctx context.Context, job *model.Job, msg string, cause error) error {
	zap.S().Named("runner").With("job_id", job.ID).Errorf("%s: %s", msg, cause)

	r.recorder.Emit(job.ID, model.EventLevelError, msg, map[string]string{"error": cause.Error()})

	if _, err := r.store.Job().UpdateStatus(ctx, job.ID, model.JobStatusFailed); err != nil {
		zap.S().Named("runner").With("job_id", job.ID).Errorf("failed to mark job failed: %s", err)
	}
	metrics.IncreaseJobsProcessedTotalMetric(model.JobStatusFailed)

	return fmt.Errorf("%s: %w", msg, cause)
}

// attachEvidence locates an excerpt for every requirement and risk and links
// it by id. Findings whose text cannot be located simply carry no evidence.
func attachEvidence(findings *api.Analysis, text string) {
	if text == "" {
		return
	}

	next := 1
	add := func(phrase string) []string {
		m := evidence.LocateExcerpt(text, phrase)
		if m == nil {
			return nil
		}
		id := fmt.Sprintf("ev-%d", next)
		next++
		findings.Evidence = append(findings.Evidence, api.EvidenceCandidate{
			ID:       id,
			Excerpt:  m.Excerpt,
			Location: fmt.Sprintf("chars %d-%d", m.Start, m.End),
		})
		return []string{id}
	}

	for i := range findings.Requirements {
		findings.Requirements[i].EvidenceIDs = add(findings.Requirements[i].Text)
	}
	for i := range findings.Risks {
		phrase := findings.Risks[i].Detail
		if phrase == "" {
			phrase = findings.Risks[i].Title
		}
		findings.Risks[i].EvidenceIDs = add(phrase)
	}
}
