package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Default dispatcher configuration
const (
	DefaultWorkerCount  = 2
	DefaultQueueSize    = 64
	DefaultCallTimeout  = 5 * time.Second
	DefaultRateLimitRPS = 10.0
)

// DispatcherConfig tunes the dispatcher worker pool.
type DispatcherConfig struct {
	Workers      int
	QueueSize    int
	CallTimeout  time.Duration
	RateLimitRPS float64
}

func (c DispatcherConfig) withDefaults() DispatcherConfig {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkerCount
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	if c.RateLimitRPS <= 0 {
		c.RateLimitRPS = DefaultRateLimitRPS
	}
	return c
}

// Dispatcher issues commands fire-and-forget on a bounded worker pool.
// Submit never blocks; every call is bounded by the configured timeout and
// a failed command is logged once and never retried.
type Dispatcher struct {
	gw       Gateway
	cfg      DispatcherConfig
	limiter  *rate.Limiter
	onResult func(Result)

	queue chan Command
	wg    sync.WaitGroup

	// mu guards closed against concurrent Submit and Close
	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc

	offline atomic.Bool
}

var _ Sink = (*Dispatcher)(nil)

// NewDispatcher starts a dispatcher in front of gw. onResult, if non-nil, is
// called from a worker goroutine after every executed or rejected command;
// callers that touch UI state must hop back onto their own loop.
func NewDispatcher(gw Gateway, cfg DispatcherConfig, onResult func(Result)) *Dispatcher {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		gw:       gw,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), max(1, int(cfg.RateLimitRPS))),
		onResult: onResult,
		queue:    make(chan Command, cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	log.Debug().
		Int("workers", cfg.Workers).
		Int("queue_size", cfg.QueueSize).
		Dur("call_timeout", cfg.CallTimeout).
		Msg("Command dispatcher started")
	return d
}

// SetOffline switches the dispatcher into display-only mode: every later
// command fails fast without reaching the gateway.
func (d *Dispatcher) SetOffline(cause error) {
	d.offline.Store(true)
	log.Warn().Err(cause).Msg("Gateway unavailable, running in display-only mode")
}

// Offline reports whether the dispatcher is in display-only mode.
func (d *Dispatcher) Offline() bool {
	return d.offline.Load()
}

// Submit queues cmd without blocking.
func (d *Dispatcher) Submit(cmd Command) error {
	if d.offline.Load() {
		return d.reject(cmd, ErrOffline)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return d.reject(cmd, ErrClosed)
	}

	select {
	case d.queue <- cmd:
		return nil
	default:
		return d.reject(cmd, ErrQueueFull)
	}
}

func (d *Dispatcher) reject(cmd Command, cause error) error {
	err := &Error{Op: cmd.Op, EntityID: cmd.EntityID, Err: cause}
	log.Warn().
		Err(cause).
		Str("entity_id", cmd.EntityID).
		Str("op", string(cmd.Op)).
		Str("command_id", cmd.ID.String()).
		Msg("Command not sent")
	d.report(Result{Command: cmd, Err: err})
	return err
}

func (d *Dispatcher) report(r Result) {
	if d.onResult != nil {
		d.onResult(r)
	}
}

// worker executes queued commands
func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for cmd := range d.queue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Str("op", string(cmd.Op)).
						Int("worker", id).
						Msg("Gateway call panicked")
				}
			}()
			d.execute(cmd)
		}()
	}
}

func (d *Dispatcher) execute(cmd Command) {
	ctx, cancel := context.WithTimeout(d.ctx, d.cfg.CallTimeout)
	defer cancel()

	err := d.limiter.Wait(ctx)
	if err == nil {
		err = CallWithTimeout(ctx, func(ctx context.Context) error {
			return cmd.Execute(ctx, d.gw)
		})
	}

	if err != nil {
		err = &Error{Op: cmd.Op, EntityID: cmd.EntityID, Err: err}
		log.Warn().
			Err(err).
			Str("entity_id", cmd.EntityID).
			Str("op", string(cmd.Op)).
			Str("command_id", cmd.ID.String()).
			Msg("Gateway command failed")
	} else {
		log.Debug().
			Str("entity_id", cmd.EntityID).
			Str("op", string(cmd.Op)).
			Str("command_id", cmd.ID.String()).
			Msg("Gateway command sent")
	}

	d.report(Result{Command: cmd, Err: err})
}

// Close stops accepting commands and waits for queued ones until ctx is done.
// Commands still running when ctx expires are cancelled.
func (d *Dispatcher) Close(ctx context.Context) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Debug().Msg("Command dispatcher stopped gracefully")
	case <-ctx.Done():
		log.Warn().Msg("Command dispatcher shutdown timed out, cancelling in-flight commands")
	}
	d.cancel()
}

// CallWithTimeout runs fn and gives up when ctx is done, even if fn ignores ctx.
// A gateway that never returns leaks its goroutine but no longer holds up the caller.
func CallWithTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
		}
		return ctx.Err()
	}
}
