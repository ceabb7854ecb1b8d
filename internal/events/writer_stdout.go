package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

// event writer used in dev
type StdoutWriter struct{}

var _ Writer = (*StdoutWriter)(nil)

func (s *StdoutWriter) Write(_ context.Context, event model.JobEvent) error {
	zap.S().Named("stdout_writer").Infow("job event", "job_id", event.JobID, "level", event.Level, "message", event.Message)
	return nil
}

func (s *StdoutWriter) Close(_ context.Context) error {
	return nil
}
