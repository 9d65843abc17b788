// Package loop provides the single UI loop. Every touch of the widget tree,
// the entity store and the card bindings happens inside work executed here,
// so none of them need locking.
package loop

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClosed is returned when the loop no longer accepts work.
var ErrClosed = errors.New("ui loop closed")

// DefaultQueueSize is the work queue capacity used by New.
const DefaultQueueSize = 100

// Work is a unit executed on the loop. It runs to completion before the
// next unit starts.
type Work func(ctx context.Context)

// Loop executes queued work on one goroutine.
type Loop struct {
	workQueue chan Work

	// Shutdown signaling - closing this channel signals senders to stop
	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// New creates a loop with the default queue size.
func New() *Loop {
	return NewWithSize(DefaultQueueSize)
}

// NewWithSize creates a loop with a custom queue size.
func NewWithSize(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Loop{
		workQueue: make(chan Work, queueSize),
		closing:   make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Do queues work without blocking.
// Returns false if the loop is closing, the queue is full, or ctx is cancelled.
func (l *Loop) Do(ctx context.Context, work Work) bool {
	if l.isClosing() {
		log.Warn().Msg("UI loop closing, dropping work")
		return false
	}

	select {
	case <-l.closing:
		log.Warn().Msg("UI loop closing, dropping work")
		return false
	case <-ctx.Done():
		log.Warn().Msg("Context cancelled, dropping UI work")
		return false
	case l.workQueue <- work:
		return true
	default:
		log.Warn().Msg("UI work queue full, dropping work")
		return false
	}
}

// DoSync queues work, blocking until there is space.
func (l *Loop) DoSync(ctx context.Context, work Work) error {
	if l.isClosing() {
		return ErrClosed
	}

	select {
	case <-l.closing:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case l.workQueue <- work:
		return nil
	}
}

// DoSyncWithResult queues work and waits for it to finish.
// It must not be called from the loop itself.
func (l *Loop) DoSyncWithResult(ctx context.Context, work func(context.Context) error) error {
	result := make(chan error, 1)
	wrapped := Work(func(c context.Context) {
		result <- work(c)
	})

	if err := l.DoSync(ctx, wrapped); err != nil {
		return err
	}

	select {
	case <-l.closing:
		// The loop drains queued work before exiting; prefer a delivered result.
		select {
		case err := <-result:
			return err
		case <-l.done:
			select {
			case err := <-result:
				return err
			default:
				return ErrClosed
			}
		}
	case <-ctx.Done():
		return ctx.Err()
	case err := <-result:
		return err
	}
}

// Run executes queued work until ctx is cancelled or Close is called,
// then drains whatever is left in the queue.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			l.drainQueue(ctx)
			return
		case <-l.closing:
			l.drainQueue(ctx)
			return
		case work := <-l.workQueue:
			l.executeWork(ctx, work)
		}
	}
}

// drainQueue processes any remaining work in the queue before exiting
func (l *Loop) drainQueue(ctx context.Context) {
	for {
		select {
		case work := <-l.workQueue:
			l.executeWork(ctx, work)
		default:
			return
		}
	}
}

// executeWork runs a single work item with panic recovery
func (l *Loop) executeWork(ctx context.Context, work Work) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Interface("panic", rec).
				Msg("UI work panicked - loop continuing")
		}
	}()
	work(ctx)
}

// Close signals the loop to stop accepting work.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.closing)
	})
}

// isClosing checks the closing signal first so a closed loop never wins a
// race against free queue space.
func (l *Loop) isClosing() bool {
	select {
	case <-l.closing:
		return true
	default:
		return false
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
