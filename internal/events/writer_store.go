package events

import (
	"context"

	"github.com/tenderdesk/rfp-analyzer/internal/store"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

// StoreWriter persists events in the job_events table.
type StoreWriter struct {
	store store.Store
}

var _ Writer = (*StoreWriter)(nil)

func NewStoreWriter(s store.Store) *StoreWriter {
	return &StoreWriter{store: s}
}

func (w *StoreWriter) Write(ctx context.Context, event model.JobEvent) error {
	return w.store.JobEvent().Append(ctx, event)
}

func (w *StoreWriter) Close(_ context.Context) error {
	return nil
}
