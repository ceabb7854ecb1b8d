package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

type captureWriter struct {
	mu     sync.Mutex
	events []model.JobEvent
	closed bool
}

func (w *captureWriter) Write(_ context.Context, event model.JobEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, event)
	return nil
}

func (w *captureWriter) Close(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *captureWriter) snapshot() []model.JobEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]model.JobEvent(nil), w.events...)
}

func TestRecorderDeliversInOrder(t *testing.T) {
	w := &captureWriter{}
	r := NewRecorder(w)

	jobID := uuid.New()
	r.Emit(jobID, model.EventLevelInfo, "one", nil)
	r.Emit(jobID, model.EventLevelInfo, "two", map[string]string{"k": "v"})
	r.Emit(jobID, model.EventLevelWarn, "three", nil)

	require.Eventually(t, func() bool {
		return len(w.snapshot()) == 3
	}, 5*time.Second, 10*time.Millisecond)

	events := w.snapshot()
	require.Equal(t, "one", events[0].Message)
	require.Equal(t, "two", events[1].Message)
	require.Equal(t, "three", events[2].Message)
	require.NotNil(t, events[1].Metadata)
	require.Equal(t, "v", events[1].Metadata.Data["k"])
	require.Nil(t, events[0].Metadata)

	require.NoError(t, r.Close())
	require.True(t, w.closed)
}

func TestRecorderHandlesBursts(t *testing.T) {
	w := &captureWriter{}
	r := NewRecorder(w)

	jobID := uuid.New()
	const n = 100
	for i := 0; i < n; i++ {
		r.Emit(jobID, model.EventLevelInfo, "msg", nil)
	}

	require.Eventually(t, func() bool {
		return len(w.snapshot()) == n
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, r.Close())
}

func TestRecorderFlushesBufferedEventsOnClose(t *testing.T) {
	w := &captureWriter{}
	r := NewRecorder(w)

	jobID := uuid.New()
	const n = 50
	for i := 0; i < n; i++ {
		r.Emit(jobID, model.EventLevelInfo, "msg", nil)
	}

	// close immediately, without waiting for the consumer to catch up
	require.NoError(t, r.Close())

	require.Len(t, w.snapshot(), n)
	require.True(t, w.closed)
}

func TestBufferFIFO(t *testing.T) {
	b := newBuffer()
	require.Nil(t, b.Pop())

	for _, msg := range []string{"a", "b", "c"} {
		b.PushBack(&message{event: model.JobEvent{Message: msg}})
	}
	require.Equal(t, 3, b.Size())

	require.Equal(t, "a", b.Pop().event.Message)
	require.Equal(t, "b", b.Pop().event.Message)
	require.Equal(t, "c", b.Pop().event.Message)
	require.Nil(t, b.Pop())
	require.Equal(t, 0, b.Size())
}
