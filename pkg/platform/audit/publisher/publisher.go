// Package publisher fronts an audit.Store. In sync mode Emit writes through;
// with WithAsyncBuffer events are queued in a bounded buffer and a background
// worker appends them, dropping the oldest when the buffer overflows.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	audit "docflow/pkg/platform/audit"
	"docflow/pkg/requestcontext"
)

const (
	DefaultBufferSize = 10000
	drainBatchSize    = 128
)

// ErrClosed is returned by Emit once the publisher has been closed.
var ErrClosed = errors.New("audit publisher is closed")

type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	buffer *ringBuffer
	notify chan struct{}
	stop   chan struct{}
	wg     sync.WaitGroup

	// mu orders Emit against Close so nothing is queued after the final drain.
	mu     sync.RWMutex
	closed bool
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with a buffer of
// size events.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.buffer = newRingBuffer(size)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.notify = make(chan struct{}, 1)
		p.stop = make(chan struct{})
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit records event. Missing timestamps are taken from the request clock
// and missing categories from the action.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	if p.buffer == nil {
		return p.store.Append(ctx, event)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.buffer.enqueue(event)
	select {
	case p.notify <- struct{}{}:
	default:
	}
	return nil
}

// List returns the stored events for a subject. Events still queued in
// async mode are not visible until the worker has appended them.
func (p *Publisher) List(ctx context.Context, subject string) ([]audit.Event, error) {
	return p.store.ListBySubject(ctx, subject)
}

// Pending returns the number of queued events. Always zero in sync mode.
func (p *Publisher) Pending() int {
	if p.buffer == nil {
		return 0
	}
	return p.buffer.len()
}

// Dropped returns the number of events lost to buffer overflow.
func (p *Publisher) Dropped() int64 {
	if p.buffer == nil {
		return 0
	}
	return p.buffer.droppedCount()
}

// Close stops the worker after draining the buffer. Later calls to Emit
// return ErrClosed. Safe to call more than once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	if p.stop != nil {
		close(p.stop)
		p.wg.Wait()
	}
	return nil
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			p.drain()
			return
		case <-p.notify:
			p.drain()
		}
	}
}

func (p *Publisher) drain() {
	ctx := context.Background()
	for {
		batch := p.buffer.dequeueBatch(drainBatchSize)
		if len(batch) == 0 {
			return
		}
		for _, event := range batch {
			if err := p.store.Append(ctx, event); err != nil && p.logger != nil {
				p.logger.Error("failed to persist audit event", "action", event.Action, "error", err)
			}
		}
	}
}
