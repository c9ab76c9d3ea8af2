package styler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// taskPool bounds the parallelism of subtree tasks. Parallelism is a pool-wide
// resource: a task holds an execution slot only while it is classifying an
// entry or running the processor, and releases the slot before blocking on its
// children. Joins therefore never consume a slot, which is what keeps the
// recursive fork-join from deadlocking the bounded pool.
//
// Counters are kept for timeout diagnostics: queued tasks are spawned but still
// waiting for a slot, running tasks hold a slot, submitted counts root tasks only.
type taskPool struct {
	ctx    context.Context
	cancel context.CancelFunc

	slots chan struct{}
	wg    sync.WaitGroup

	running   atomic.Int64
	queued    atomic.Int64
	submitted atomic.Int64
	closed    atomic.Bool
}

func newTaskPool(ctx context.Context, size int) *taskPool {
	poolCtx, cancel := context.WithCancel(ctx)
	return &taskPool{
		ctx:    poolCtx,
		cancel: cancel,
		slots:  make(chan struct{}, size),
	}
}

// submitRoot schedules one root task. Fails once the pool is closed.
func (p *taskPool) submitRoot(fn func(release func())) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}
	p.submitted.Add(1)
	p.spawn(nil, fn)
	return nil
}

// close stops the pool from accepting further root submissions. Tasks already
// inside the pool may keep forking children.
func (p *taskPool) close() {
	p.closed.Store(true)
}

// spawn schedules fn as a pool task, registering it with the parent's join
// group when one is given. fn receives a release func it must call before
// blocking on child completion; release is idempotent and also runs on return.
// A task that is cancelled before it obtains a slot never runs fn, but its
// join group is still balanced so parents do not deadlock.
func (p *taskPool) spawn(join *sync.WaitGroup, fn func(release func())) {
	p.queued.Add(1)
	p.wg.Add(1)
	if join != nil {
		join.Add(1)
	}
	go func() {
		defer p.wg.Done()
		if join != nil {
			defer join.Done()
		}
		select {
		case p.slots <- struct{}{}:
		case <-p.ctx.Done():
			p.queued.Add(-1)
			return
		}
		p.queued.Add(-1)
		p.running.Add(1)

		var once sync.Once
		release := func() {
			once.Do(func() {
				p.running.Add(-1)
				<-p.slots
			})
		}
		defer release()
		fn(release)
	}()
}

// quiesce waits up to timeout for every spawned task and its recursive
// descendants to finish. On overrun it cancels outstanding work and returns a
// PoolTimeoutError carrying the pool counters at the moment the bound expired.
func (p *taskPool) quiesce(timeout time.Duration) error {
	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-drained:
		return nil
	case <-timer.C:
		err := &PoolTimeoutError{
			Running:   p.running.Load(),
			Queued:    p.queued.Load(),
			Submitted: p.submitted.Load(),
		}
		p.cancel()
		return err
	}
}
