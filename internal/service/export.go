package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tenderdesk/rfp-analyzer/internal/auth"
	"github.com/tenderdesk/rfp-analyzer/internal/service/export"
	"github.com/tenderdesk/rfp-analyzer/internal/store"
	"github.com/tenderdesk/rfp-analyzer/pkg/metrics"
)

// ExportResult is a rendered export ready for download.
type ExportResult struct {
	Filename string
	Content  string
}

type ExportService struct {
	store    store.Store
	renderer *export.Renderer
}

func NewExportService(s store.Store) *ExportService {
	return &ExportService{
		store:    s,
		renderer: export.NewRenderer(),
	}
}

// Export renders one flat table for the requested finding category, joining
// findings with overlay rows by recomputed ref key.
func (s *ExportService) Export(ctx context.Context, jobID uuid.UUID, exportType string, user auth.User) (*ExportResult, error) {
	if !export.ValidType(exportType) {
		return nil, NewErrInvalidExportType(exportType, export.AllowedTypes())
	}

	job, err := s.store.Job().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(jobID)
		}
		return nil, err
	}
	if job.OrgID != user.Organization {
		return nil, NewErrJobAccessForbidden(jobID)
	}

	data := &export.ExportData{Job: *job}

	result, err := s.store.JobResult().Get(ctx, jobID)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}
	if result != nil && result.Analysis != nil {
		data.Analysis = result.Analysis.Data
	}

	items, err := s.store.WorkItem().List(ctx, jobID, nil)
	if err != nil {
		return nil, err
	}
	data.Overlay = export.BuildOverlayIndex(items)

	content, err := s.renderer.Render(export.ExportType(exportType), data)
	if err != nil {
		return nil, err
	}

	metrics.IncreaseExportDownloadsTotalMetric(exportType)

	return &ExportResult{
		Filename: exportFilename(job.Name, jobID, exportType),
		Content:  content,
	}, nil
}

// exportFilename builds a deterministic download name embedding the job id
// and a sanitized document name.
func exportFilename(documentName string, jobID uuid.UUID, exportType string) string {
	return fmt.Sprintf("%s-%s-%s.csv", sanitizeName(documentName), jobID, exportType)
}

func sanitizeName(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "document"
	}
	return out
}
