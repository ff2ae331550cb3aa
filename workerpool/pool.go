package workerpool

import (
	"sync"

	"github.com/kiteco/streamal/errors"
)

// Job is a unit of work run by the Pool
type Job func() error

// Pool runs jobs on a fixed number of goroutines
type Pool struct {
	jobs chan Job
	wg   sync.WaitGroup
	stop chan struct{}
	once sync.Once

	m    sync.Mutex
	errs errors.Errors
}

// New starts a pool with n workers; n < 1 is treated as 1
func New(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{
		jobs: make(chan Job),
		stop: make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	for job := range p.jobs {
		select {
		case <-p.stop:
			// stopped: drain without running
		default:
			if err := job(); err != nil {
				p.m.Lock()
				p.errs = errors.Append(p.errs, err)
				p.m.Unlock()
			}
		}
		p.wg.Done()
	}
}

// Add queues jobs and returns immediately; a background goroutine hands them to the workers in
// order. Call Wait to block until they have run.
func (p *Pool) Add(jobs []Job) {
	p.wg.Add(len(jobs))
	go func() {
		for _, job := range jobs {
			p.jobs <- job
		}
	}()
}

// Stop prevents jobs that have not started yet from running
func (p *Pool) Stop() {
	p.once.Do(func() { close(p.stop) })
}

// Wait blocks until all added jobs have finished or were skipped, shuts the workers down and
// returns the combined errors of the jobs. The pool cannot be reused after Wait.
func (p *Pool) Wait() error {
	p.wg.Wait()
	close(p.jobs)

	p.m.Lock()
	defer p.m.Unlock()
	if p.errs == nil {
		return nil
	}
	return p.errs
}
