package executor

import (
	"context"
	"sync"
)

// Promise is the eventual outcome of a ledger call that may span several
// executor tasks. It is settled exactly once.
type Promise[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolved returns an already settled promise.
func Resolved[T any](value T) *Promise[T] {
	p := NewPromise[T]()
	p.Resolve(value)
	return p
}

// Rejected returns an already failed promise.
func Rejected[T any](err error) *Promise[T] {
	p := NewPromise[T]()
	p.Reject(err)
	return p
}

func (p *Promise[T]) Resolve(value T) {
	p.once.Do(func() {
		p.value = value
		close(p.done)
	})
}

func (p *Promise[T]) Reject(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// Settle resolves or rejects depending on err.
func (p *Promise[T]) Settle(value T, err error) {
	if err != nil {
		p.Reject(err)
		return
	}
	p.Resolve(value)
}

func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the promise settles or ctx is done. Giving up does not
// cancel the work behind the promise.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Settled returns a promise already resolved with value or rejected with err.
func Settled[T any](value T, err error) *Promise[T] {
	p := NewPromise[T]()
	p.Settle(value, err)
	return p
}
