package join

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// Result is the outcome of one branch.
type Result struct {
	Value any
	Err   error
}

// Barrier collects a fixed number of branches, each identified by its index.
// A failing or panicking branch only fails its own slot.
type Barrier struct {
	wg      conc.WaitGroup
	results []Result
	started []bool
}

func NewBarrier(branches int) *Barrier {
	return &Barrier{
		results: make([]Result, branches),
		started: make([]bool, branches),
	}
}

// Go starts branch i. Each index may be started once; all indexes must be
// started before Wait.
func (b *Barrier) Go(ctx context.Context, i int, fn func(ctx context.Context) (any, error)) {
	if i < 0 || i >= len(b.results) {
		panic(fmt.Sprintf("join: branch %d out of range [0, %d)", i, len(b.results)))
	}
	if b.started[i] {
		panic(fmt.Sprintf("join: branch %d started twice", i))
	}
	b.started[i] = true

	b.wg.Go(func() {
		var catcher panics.Catcher
		var res Result
		catcher.Try(func() {
			res.Value, res.Err = fn(ctx)
		})
		if r := catcher.Recovered(); r != nil {
			res = Result{Err: r.AsError()}
		}
		b.results[i] = res
	})
}

// Wait blocks until every branch has resolved and returns the results in
// branch order.
func (b *Barrier) Wait() []Result {
	for i, started := range b.started {
		if !started {
			b.results[i] = Result{Err: fmt.Errorf("join: branch %d never started", i)}
		}
	}
	b.wg.Wait()
	return b.results
}

// Value extracts the typed value of a branch result.
func Value[T any](r Result) (T, error) {
	var zero T
	if r.Err != nil {
		return zero, r.Err
	}
	if r.Value == nil {
		return zero, nil
	}
	v, ok := r.Value.(T)
	if !ok {
		return zero, fmt.Errorf("join: unexpected branch value type %T", r.Value)
	}
	return v, nil
}
