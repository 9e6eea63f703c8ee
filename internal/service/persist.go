package service

import (
	"context"
	"sync"
	"time"

	"doctor_signage/internal/logger"
)

const (
	defaultPersistQueue   = 16
	defaultPersistTimeout = 5 * time.Second
)

type persistJob struct {
	name string
	run  func(ctx context.Context) error
}

// PersistWorker runs storage writes off the poll loop, one at a time, in
// enqueue order.
type PersistWorker struct {
	jobs    chan persistJob
	timeout time.Duration
	log     *logger.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewPersistWorker(queue int, timeout time.Duration, log *logger.Logger) *PersistWorker {
	if queue <= 0 {
		queue = defaultPersistQueue
	}
	if timeout <= 0 {
		timeout = defaultPersistTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PersistWorker{
		jobs:    make(chan persistJob, queue),
		timeout: timeout,
		log:     log.Named("persist"),
		done:    make(chan struct{}),
	}
}

// Enqueue never blocks. It returns false when the queue is full or closed.
func (w *PersistWorker) Enqueue(name string, run func(ctx context.Context) error) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	select {
	case w.jobs <- persistJob{name: name, run: run}:
		return true
	default:
		w.log.Warnw("persist_queue_full", "job", name)
		return false
	}
}

// Run executes jobs until Close, then returns after draining.
func (w *PersistWorker) Run() {
	defer close(w.done)
	for job := range w.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		if err := job.run(ctx); err != nil {
			w.log.Errorw("persist_failed", "job", job.name, "err", err)
		}
		cancel()
	}
}

// Close stops accepting jobs and waits for the queue to drain. Run must have
// been started.
func (w *PersistWorker) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()
	<-w.done
}
