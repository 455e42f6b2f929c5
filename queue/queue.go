/*
Package queue provides a Pool of workers that run jobs, such as growing a
tree, with a bounded concurrency.
*/
package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// DefaultMaxConcurrency defines the number of workers of a Pool unless
// configured otherwise.
const DefaultMaxConcurrency = 4

// ErrStopped is returned by Do when the Pool has been stopped
const ErrStopped = PoolError("pool stopped")

// PoolError represents an error related with a Pool
type PoolError string

func (pe PoolError) Error() string {
	return string(pe)
}

// Job is a unit of work for a Pool
type Job func(ctx context.Context) error

/*
task represents a job enqueued on a pool to be run by a worker, along with
the channel on which to send its result.
*/
type task struct {
	ctx    context.Context
	job    Job
	result chan error
}

/*
Pool is a set of workers that take jobs from a shared channel and run them.
At most as many jobs as workers run at the same time.
*/
type Pool struct {
	tasks      chan *task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         *sync.WaitGroup
	running    int64
	workers    int
}

/*
NewPool takes a number of workers and starts a Pool with them. A number
lower than 1 means DefaultMaxConcurrency.
*/
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = DefaultMaxConcurrency
	}
	ctx, cancelFunc := context.WithCancel(context.Background())
	p := &Pool{
		tasks:      make(chan *task),
		ctx:        ctx,
		cancelFunc: cancelFunc,
		wg:         &sync.WaitGroup{},
		workers:    workers,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

/*
Do takes a context and a job, waits for a worker to take the job and for the
job to end, and returns the job's error. If the context is done before a
worker takes the job, the job is never run and the context's error is
returned. If the context is done while the job runs, the job's context is
cancelled and the context's error is returned. ErrStopped is returned if the
pool is stopped.
*/
func (p *Pool) Do(ctx context.Context, job Job) error {
	t := &task{ctx, job, make(chan error, 1)}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrStopped
	case p.tasks <- t:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-t.result:
		return err
	}
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// Running returns the number of jobs being run at the moment.
func (p *Pool) Running() int {
	return int(atomic.LoadInt64(&p.running))
}

/*
Stop makes the workers finish once their current job ends and waits for
them. Later calls to Do return ErrStopped.
*/
func (p *Pool) Stop() {
	p.cancelFunc()
	p.wg.Wait()
}

func (p *Pool) work() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case t := <-p.tasks:
			t.result <- p.run(t)
		}
	}
}

func (p *Pool) run(t *task) (err error) {
	atomic.AddInt64(&p.running, 1)
	defer atomic.AddInt64(&p.running, -1)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return t.job(t.ctx)
}
