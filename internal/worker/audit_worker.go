package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/daily-report-service/internal/events"
)

// ErrQueueFull is returned when the worker cannot accept another event.
var ErrQueueFull = errors.New("audit queue full")

// Recorder persists one audit event.
type Recorder interface {
	Record(ctx context.Context, event events.Event) error
	EventTypes() []events.EventType
}

// AuditWorker moves audit recording off the request path.
type AuditWorker struct {
	recorder Recorder
	logger   *zap.Logger
	queue    chan events.Event

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAuditWorker creates a worker with the given queue size.
func NewAuditWorker(recorder Recorder, logger *zap.Logger, buffer int) *AuditWorker {
	if buffer <= 0 {
		buffer = 256
	}
	return &AuditWorker{
		recorder: recorder,
		logger:   logger,
		queue:    make(chan events.Event, buffer),
	}
}

// Subscribe registers the worker for every event type the recorder handles.
func (w *AuditWorker) Subscribe(dispatcher events.Dispatcher) {
	for _, eventType := range w.recorder.EventTypes() {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
}

func (w *AuditWorker) enqueue(_ context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return nil
	}
	select {
	case w.queue <- event:
		return nil
	default:
		w.logger.Warn("audit event dropped", zap.String("type", string(event.Type)))
		return ErrQueueFull
	}
}

// Start launches the consumer goroutine.
func (w *AuditWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for event := range w.queue {
			if err := w.recorder.Record(ctx, event); err != nil {
				w.logger.Error("record audit event", zap.String("type", string(event.Type)), zap.Error(err))
			}
		}
	}()
}

// Stop drains queued events and waits for the consumer to exit.
func (w *AuditWorker) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()

	w.wg.Wait()
}
