package heartbeat

import (
	"context"
	"sync"

	"myregistry/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Runner starts one task on the worker loop. Run must not block: it hands long operations to
// their own goroutine, which reports back through post. post executes the function on the loop
// goroutine and must not be called from Run itself. post drops the function once the worker is
// stopped. ctx is cancelled on Stop.
type Runner[T any] interface {
	Run(ctx context.Context, task T, post func(func()))
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc[T any] func(ctx context.Context, task T, post func(func()))

func (f RunnerFunc[T]) Run(ctx context.Context, task T, post func(func())) { f(ctx, task, post) }

// Worker executes tasks of type T on one private loop goroutine. Schedule never blocks:
// tasks are kept in an unbounded FIFO queue until the loop picks them up.
type Worker[T any] struct {
	name   string
	runner Runner[T]
	logger log.Logger

	mu     sync.Mutex
	queue  []T
	closed bool
	notify chan struct{}

	completions chan func()
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
	stopOnce    sync.Once
}

// NewWorker starts the loop goroutine of a worker named name. Panics on nil runner or logger.
func NewWorker[T any](name string, runner Runner[T], logger log.Logger) *Worker[T] {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker[T]{
		name:        helpers.StrPanic(name, "heartbeat.worker.go: name is required"),
		runner:      helpers.NilPanic(runner, "heartbeat.worker.go: runner is required"),
		logger:      log.With(helpers.NilPanic(logger, "heartbeat.worker.go: logger is required"), "component", "worker", "worker", name),
		notify:      make(chan struct{}, 1),
		completions: make(chan func(), 64),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	go w.loop()
	return w
}

// Schedule enqueues task. Returns ErrStopped once Stop was called.
func (w *Worker[T]) Schedule(task T) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrStopped
	}
	w.queue = append(w.queue, task)
	w.mu.Unlock()

	select {
	case w.notify <- struct{}{}:
	default:
	}
	return nil
}

// Scheduler returns a handle that can only enqueue tasks.
func (w *Worker[T]) Scheduler() Scheduler[T] {
	return Scheduler[T]{worker: w}
}

// Stop rejects further tasks, cancels the runner context and waits for the loop to exit.
// Queued tasks that were not started are discarded. Safe to call more than once.
func (w *Worker[T]) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.queue = nil
		w.mu.Unlock()

		w.cancel()
		<-w.done
		level.Debug(w.logger).Log("msg", "worker stopped")
	})
}

func (w *Worker[T]) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.notify:
			for _, task := range w.drain() {
				w.runner.Run(w.ctx, task, w.post)
			}
		case fn := <-w.completions:
			if w.ctx.Err() != nil {
				return
			}
			fn()
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *Worker[T]) drain() []T {
	w.mu.Lock()
	defer w.mu.Unlock()
	tasks := w.queue
	w.queue = nil
	return tasks
}

func (w *Worker[T]) post(fn func()) {
	select {
	case w.completions <- fn:
	case <-w.ctx.Done():
	}
}

// Scheduler enqueues tasks on a Worker without owning it.
type Scheduler[T any] struct {
	worker *Worker[T]
}

func (s Scheduler[T]) Schedule(task T) error {
	return s.worker.Schedule(task)
}
