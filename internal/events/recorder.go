// Package events records the append-only event trail of a job. Writing an
// event is best effort: the pipeline must never fail because its trail
// could not be written, so failures are logged and dropped.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

// Writer is the interface implemented by the underlying event sink.
type Writer interface {
	Write(ctx context.Context, event model.JobEvent) error
	Close(ctx context.Context) error
}

// Recorder buffers pending events so emitting never blocks the pipeline on
// the sink.
type Recorder struct {
	buffer           *buffer
	startConsumingCh chan any
	doneCh           chan any
	stoppedCh        chan any
	writer           Writer
}

func NewRecorder(w Writer) *Recorder {
	r := &Recorder{
		buffer:           newBuffer(),
		startConsumingCh: make(chan any, 1),
		doneCh:           make(chan any),
		stoppedCh:        make(chan any),
		writer:           w,
	}

	go r.run()
	return r
}

// Emit queues one event for the job's trail. It has no error return on
// purpose: callers fire and forget.
func (r *Recorder) Emit(jobID uuid.UUID, level, msg string, metadata map[string]string) {
	event := model.JobEvent{
		JobID:   jobID,
		Level:   level,
		Message: msg,
	}
	if len(metadata) > 0 {
		event.Metadata = model.MakeJSONField(metadata)
	}

	prevSize := r.buffer.Size()
	r.buffer.PushBack(&message{event: event})

	if prevSize == 0 {
		// unblock the consumer and start writing events
		select {
		case r.startConsumingCh <- struct{}{}:
		default:
		}
	}
}

// Close stops the consumer, flushes events still buffered and closes the
// sink.
func (r *Recorder) Close() error {
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.doneCh <- struct{}{}
	<-r.stoppedCh
	if err := r.writer.Close(closeCtx); err != nil {
		zap.S().Errorf("event recorder closed with error: %s", err)
		return err
	}

	zap.S().Named("event_recorder").Info("event recorder closed")
	return nil
}

func (r *Recorder) run() {
	defer close(r.stoppedCh)

	for {
		select {
		case <-r.doneCh:
			r.drain()
			return
		default:
		}

		if r.buffer.Size() == 0 {
			select {
			case <-r.startConsumingCh:
			case <-r.doneCh:
				r.drain()
				return
			}
		}

		msg := r.buffer.Pop()
		if msg == nil {
			continue
		}
		r.write(msg.event)
	}
}

// drain flushes whatever is still buffered before the consumer exits.
func (r *Recorder) drain() {
	for {
		msg := r.buffer.Pop()
		if msg == nil {
			return
		}
		r.write(msg.event)
	}
}

func (r *Recorder) write(event model.JobEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.writer.Write(ctx, event); err != nil {
		zap.S().Named("event_recorder").Warnf("failed to write job event %q: %s", event.Message, err)
	}
}
