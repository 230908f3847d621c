package parallel

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Range is the half-open index interval [Start, End).
type Range struct {
	Start, End uint64
}

// Len returns End-Start, or 0 for an inverted range.
func (r Range) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Split divides r into at most n contiguous chunks of at least grain
// elements each.
func (r Range) Split(n int, grain uint64) []Range {
	total := r.Len()
	if total == 0 {
		return nil
	}
	if grain == 0 {
		grain = 1
	}
	if n < 1 {
		n = 1
	}
	chunks := uint64(n)
	if limit := (total + grain - 1) / grain; chunks > limit {
		chunks = limit
	}
	out := make([]Range, 0, chunks)
	size, rem := total/chunks, total%chunks
	start := r.Start
	for i := uint64(0); i < chunks; i++ {
		end := start + size
		if i < rem {
			end++
		}
		out = append(out, Range{Start: start, End: end})
		start = end
	}
	return out
}

// DataFormatter is satisfied by stores and arrays. A non-empty format means
// the payload is not held in process memory.
type DataFormatter interface {
	DataFormat() string
}

// Algorithm decides whether work over a range runs in parallel.
type Algorithm struct {
	enabled  bool
	maxTasks int
	grain    uint64
	log      *logrus.Logger
}

// Option configures an Algorithm.
type Option func(*Algorithm)

// WithMaxTasks caps the number of concurrently running chunks.
func WithMaxTasks(n int) Option { return func(a *Algorithm) { a.SetMaxTasks(n) } }

// WithParallelization sets the initial enabled state.
func WithParallelization(enabled bool) Option {
	return func(a *Algorithm) { a.enabled = enabled }
}

// WithGrainSize sets the minimum number of indices per chunk.
func WithGrainSize(n uint64) Option { return func(a *Algorithm) { a.grain = n } }

// WithLogger sets the logger.
func WithLogger(l *logrus.Logger) Option {
	return func(a *Algorithm) {
		if l != nil {
			a.log = l
		}
	}
}

// NewAlgorithm returns an Algorithm with parallelization enabled and
// GOMAXPROCS tasks.
func NewAlgorithm(opts ...Option) *Algorithm {
	a := &Algorithm{enabled: true, maxTasks: runtime.GOMAXPROCS(0), grain: 1, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Algorithm) SetParallelizationEnabled(enabled bool) { a.enabled = enabled }
func (a *Algorithm) ParallelizationEnabled() bool           { return a.enabled }
func (a *Algorithm) MaxTasks() int                          { return a.maxTasks }

// SetMaxTasks caps concurrency; n <= 0 resets to GOMAXPROCS.
func (a *Algorithm) SetMaxTasks(n int) {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	a.maxTasks = n
}

// RequireArraysInMemory disables parallelization when any of arrays keeps its
// payload outside process memory. It never re-enables it.
func (a *Algorithm) RequireArraysInMemory(arrays ...DataFormatter) {
	for _, arr := range arrays {
		if arr == nil {
			continue
		}
		if format := arr.DataFormat(); format != "" {
			a.log.WithFields(logrus.Fields{"format": format}).Debug("out-of-core array, running sequentially")
			a.enabled = false
			return
		}
	}
}

// Execute calls fn over r. With parallelization enabled and more than one
// task allowed, r is split into chunks run on a TaskGroup; otherwise chunks
// run one after another on the calling goroutine. The context is checked
// before each chunk starts.
func (a *Algorithm) Execute(ctx context.Context, r Range, fn func(ctx context.Context, r Range) error) error {
	if !a.enabled || a.maxTasks <= 1 {
		for _, chunk := range r.Split(1, a.grain) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, chunk); err != nil {
				return err
			}
		}
		return ctx.Err()
	}

	tg := NewTaskGroup(ctx, a.maxTasks)
	for _, chunk := range r.Split(a.maxTasks, a.grain) {
		chunk := chunk
		tg.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, chunk)
		})
	}
	return tg.Wait()
}

// ExecuteTasks runs each task, at most MaxTasks at a time when enabled and
// sequentially otherwise.
func (a *Algorithm) ExecuteTasks(ctx context.Context, tasks ...func(ctx context.Context) error) error {
	if !a.enabled {
		for _, task := range tasks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := task(ctx); err != nil {
				return err
			}
		}
		return nil
	}
	tg := NewTaskGroup(ctx, a.maxTasks)
	for _, task := range tasks {
		task := task
		tg.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return task(ctx)
		})
	}
	return tg.Wait()
}
