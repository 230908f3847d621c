package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TaskGroup runs functions on goroutines with at most maxInFlight running at
// once. The first error cancels the group's context.
type TaskGroup struct {
	g   *errgroup.Group
	ctx context.Context
}

// NewTaskGroup returns a TaskGroup bound to ctx. maxInFlight <= 0 uses
// GOMAXPROCS.
func NewTaskGroup(ctx context.Context, maxInFlight int) *TaskGroup {
	if maxInFlight <= 0 {
		maxInFlight = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)
	return &TaskGroup{g: g, ctx: gctx}
}

// Context is cancelled when a task fails or the parent context ends.
func (tg *TaskGroup) Context() context.Context { return tg.ctx }

// Go starts fn, blocking while maxInFlight tasks are already running.
func (tg *TaskGroup) Go(fn func(ctx context.Context) error) {
	tg.g.Go(func() error { return fn(tg.ctx) })
}

// Wait blocks until every task has returned and reports the first error.
func (tg *TaskGroup) Wait() error { return tg.g.Wait() }
