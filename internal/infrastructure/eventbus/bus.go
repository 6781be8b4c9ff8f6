package eventbus

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	domevent "ibook/internal/domain/event"
	"ibook/internal/observability"
	"ibook/internal/observability/logctx"
)

const (
	componentBus   = "eventbus"
	handlerTimeout = 30 * time.Second
)

// ErrClosed is returned by Publish once the bus has been stopped.
var ErrClosed = errors.New("eventbus: closed")

// Bus is an in-memory change-notification bus: catalog mutations are
// published here and fanned out asynchronously to subscribers (GUI-style
// observers, the persistence worker). It is not durable.
type Bus struct {
	mu          sync.RWMutex
	subs        map[string][]domevent.Handler
	queue       chan domevent.Event
	startOnce   sync.Once
	stopOnce    sync.Once
	cancel      context.CancelFunc
	closed      bool
	done        chan struct{}
	concurrency int
	log         observability.Logger
}

// NewBus creates a bus with a buffered queue and a per-event fanout cap.
func NewBus(logger observability.Logger) *Bus {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Bus{
		subs:        make(map[string][]domevent.Handler),
		queue:       make(chan domevent.Event, 1024),
		concurrency: 8,
		done:        make(chan struct{}),
		log:         logger.With(observability.F("component", componentBus)),
	}
}

// Subscribe registers h for events published under eventName. Handlers
// registered after Start still receive subsequent events.
func (b *Bus) Subscribe(eventName string, h domevent.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventName] = append(b.subs[eventName], h)
}

// Start launches the dispatch loop. Subsequent calls are no-ops.
func (b *Bus) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		bg, cancel := context.WithCancel(ctx)
		b.cancel = cancel
		go b.dispatchLoop(bg)
		logctx.FromOr(ctx, b.log).Info("event_bus_started")
	})
}

// Stop halts dispatching. Events still queued are dropped. The queue
// channel is deliberately never closed, so a Publish racing Stop can at
// worst enqueue an event that is dropped, never panic.
func (b *Bus) Stop(ctx context.Context) {
	b.stopOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()

		if b.cancel != nil {
			b.cancel()
			<-b.done
		}
		logctx.FromOr(ctx, b.log).Info("event_bus_stopped")
	})
}

// Publish enqueues e for asynchronous fanout. It blocks only when the
// queue is full, and gives up when ctx is done.
func (b *Bus) Publish(ctx context.Context, e domevent.Event) error {
	if e == nil {
		return nil
	}
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		logctx.FromOr(ctx, b.log).Warn("event_enqueue_after_stop",
			observability.F("event", e.EventName()),
		)
		return ErrClosed
	}
	select {
	case b.queue <- e:
		logctx.FromOr(ctx, b.log).Debug("event_enqueued",
			observability.F("event", e.EventName()),
		)
		return nil
	case <-ctx.Done():
		logctx.FromOr(ctx, b.log).Warn("event_enqueue_aborted",
			observability.F("event", e.EventName()),
			observability.F("error", ctx.Err()),
		)
		return ctx.Err()
	}
}

func (b *Bus) dispatchLoop(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-b.queue:
			b.fanout(ctx, e)
		}
	}
}

func (b *Bus) fanout(ctx context.Context, e domevent.Event) {
	name := e.EventName()

	b.mu.RLock()
	handlers := append([]domevent.Handler(nil), b.subs[name]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug("event_dropped_no_subscriber", observability.F("event", name))
		return
	}

	// Handlers outlive the publishing request's deadline.
	ctx = context.WithoutCancel(ctx)
	eventLogger := b.log.With(observability.F("event", name))

	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup

	for _, h := range handlers {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					eventLogger.Error("event_handler_panic",
						observability.F("panic", r),
						observability.F("stack", string(debug.Stack())),
					)
				}
				<-sem
				wg.Done()
			}()

			hctx, cancel := context.WithTimeout(ctx, handlerTimeout)
			hctx = logctx.With(hctx, eventLogger)
			err := h(hctx, e)
			cancel()
			if err != nil {
				eventLogger.Warn("event_handler_error", observability.F("error", err))
			}
		}()
	}

	wg.Wait()

	eventLogger.Debug("event_fanned_out", observability.F("handlers", len(handlers)))
}
