package heartbeat

import (
	"context"
	"time"

	"github.com/go-kit/log"
)

type timerTask struct {
	delay    time.Duration
	callback func()
}

func runTimerTask(_ context.Context, task timerTask, post func(func())) {
	time.AfterFunc(task.delay, func() { post(task.callback) })
}

// Timer fires one-shot callbacks on its worker loop. Callbacks never run concurrently with each other.
type Timer struct {
	worker *Worker[timerTask]
}

func NewTimer(name string, logger log.Logger) *Timer {
	return &Timer{worker: NewWorker(name, RunnerFunc[timerTask](runTimerTask), logger)}
}

// Timeout runs callback once, no earlier than delay from now. There is no cancellation:
// callbacks pending at Stop are dropped. Returns ErrStopped after Stop.
func (t *Timer) Timeout(delay time.Duration, callback func()) error {
	return t.worker.Schedule(timerTask{delay: delay, callback: callback})
}

func (t *Timer) Stop() {
	t.worker.Stop()
}
