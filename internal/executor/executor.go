package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
	"github.com/sourcegraph/conc/panics"
)

var ErrStopped = errors.New("executor stopped")

type task struct {
	kind string
	ctx  context.Context
	fn   func(ctx context.Context)
}

// Executor runs every task of one ledger on a single goroutine, one after
// another and each to completion. Ledger state is only touched from tasks, so
// no locking is needed around it. Work that waits on collaborators runs
// outside the executor and re-enters through Schedule.
type Executor struct {
	name  string
	tasks chan task

	started  atomic.Bool
	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

func New(name string, queueSize int) *Executor {
	return &Executor{
		name:  name,
		tasks: make(chan task, queueSize),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start processes tasks until Stop is called or ctx is cancelled. It blocks.
func (e *Executor) Start(ctx context.Context) {
	if !e.started.CompareAndSwap(false, true) {
		return
	}
	defer close(e.done)

	log := log.Ctx(ctx).With().Str("executor", e.name).Logger()
	log.Info().Msg("starting executor")
	for {
		select {
		case t := <-e.tasks:
			e.run(t)
		case <-ctx.Done():
			e.closeQuit()
			log.Info().Msg("executor stopped due to context cancellation")
			return
		case <-e.quit:
			log.Info().Msg("executor stopped")
			return
		}
	}
}

// Stop asks the loop to exit and waits for the running task to finish.
// Queued tasks are dropped.
func (e *Executor) Stop() {
	e.closeQuit()
	if e.started.Load() {
		<-e.done
	}
}

func (e *Executor) closeQuit() {
	e.quitOnce.Do(func() { close(e.quit) })
}

func (e *Executor) run(t task) {
	start := time.Now()
	var catcher panics.Catcher
	catcher.Try(func() { t.fn(t.ctx) })
	if r := catcher.Recovered(); r != nil {
		log.Ctx(t.ctx).Error().
			Str("executor", e.name).
			Str("kind", t.kind).
			Err(r.AsError()).
			Msg("task panicked")
	}
	metrics.RecordExecutorTask(e.name, t.kind, time.Since(start))
	metrics.RecordExecutorQueueDepth(e.name, len(e.tasks))
}

// Schedule enqueues fn. It blocks while the queue is full and fails only if
// the executor is stopped or ctx ends before the task is accepted.
func (e *Executor) Schedule(ctx context.Context, kind string, fn func(ctx context.Context)) error {
	select {
	case <-e.quit:
		return ErrStopped
	default:
	}

	select {
	case e.tasks <- task{kind: kind, ctx: ctx, fn: fn}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.quit:
		return ErrStopped
	}
}

// Run schedules an entry point on e and waits for the promise it returns.
func Run[T any](ctx context.Context, e *Executor, kind string, entry func(ctx context.Context) *Promise[T]) (T, error) {
	result := NewPromise[*Promise[T]]()
	err := e.Schedule(ctx, kind, func(ctx context.Context) {
		result.Resolve(entry(ctx))
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to schedule %s on %s: %w", kind, e.name, err)
	}

	inner, err := result.Await(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return inner.Await(ctx)
}

// Call performs an external call off the executor and schedules then back on
// it with the outcome. The call does not inherit ctx cancellation: once issued,
// its continuation always runs.
func Call[T any](
	ctx context.Context,
	e *Executor,
	kind string,
	call func(ctx context.Context) (T, error),
	then func(ctx context.Context, result T, err error),
) {
	detached := context.WithoutCancel(ctx)
	go func() {
		var (
			result T
			err    error
		)
		var catcher panics.Catcher
		catcher.Try(func() { result, err = call(detached) })
		if r := catcher.Recovered(); r != nil {
			err = r.AsError()
		}

		if schedErr := e.Schedule(detached, kind, func(ctx context.Context) {
			then(ctx, result, err)
		}); schedErr != nil {
			log.Ctx(detached).Error().
				Err(schedErr).
				Str("executor", e.name).
				Str("kind", kind).
				Msg("continuation dropped")
		}
	}()
}
