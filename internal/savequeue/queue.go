// Package savequeue runs background persistence commands one at a time.
//
// A command submitted while another command with the same key is still
// waiting replaces it, so rapid edits collapse into a single save.
package savequeue

import (
	"context"
	"log/slog"
	"sync"
)

// Command is one unit of background persistence.
type Command struct {
	Key       string
	Run       func(ctx context.Context) error
	OnSuccess func()
	OnFailure func(error)
}

// Queue executes submitted commands serially on a single worker goroutine.
type Queue struct {
	ctx    context.Context
	logger *slog.Logger

	mu      sync.Mutex
	pending []Command
	running bool
	closed  bool
	idle    chan struct{}
	isIdle  bool

	wake chan struct{}
	done chan struct{}
}

// New starts a queue whose commands run under ctx.
func New(ctx context.Context, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	idle := make(chan struct{})
	close(idle)
	q := &Queue{
		ctx:    ctx,
		logger: logger,
		idle:   idle,
		isIdle: true,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go q.loop()
	return q
}

// Submit enqueues cmd, replacing a waiting command with the same non-empty
// key. It reports false once the queue is closed.
func (q *Queue) Submit(cmd Command) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}

	replaced := false
	if cmd.Key != "" {
		for i := range q.pending {
			if q.pending[i].Key == cmd.Key {
				q.pending[i] = cmd
				replaced = true
				break
			}
		}
	}
	if !replaced {
		q.pending = append(q.pending, cmd)
	}
	if q.isIdle {
		q.idle = make(chan struct{})
		q.isIdle = false
	}
	q.mu.Unlock()

	if replaced {
		q.logger.Debug("coalesced pending command", "key", cmd.Key)
	}
	q.signal()
	return true
}

// Len is the number of commands waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush blocks until every submitted command has finished or ctx ends.
func (q *Queue) Flush(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting commands, runs whatever is still pending and
// waits for the worker to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	alreadyClosed := q.closed
	q.closed = true
	q.mu.Unlock()

	if !alreadyClosed {
		q.signal()
	}
	<-q.done
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) loop() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.markIdleLocked()
			q.mu.Unlock()
			<-q.wake
			q.mu.Lock()
		}
		if len(q.pending) == 0 {
			q.markIdleLocked()
			q.mu.Unlock()
			return
		}
		cmd := q.pending[0]
		q.pending = q.pending[1:]
		q.running = true
		q.mu.Unlock()

		q.execute(cmd)

		q.mu.Lock()
		q.running = false
		q.mu.Unlock()
	}
}

func (q *Queue) markIdleLocked() {
	if !q.isIdle && !q.running && len(q.pending) == 0 {
		close(q.idle)
		q.isIdle = true
	}
}

func (q *Queue) execute(cmd Command) {
	if cmd.Run == nil {
		return
	}
	if err := cmd.Run(q.ctx); err != nil {
		q.logger.Error("background command failed", "key", cmd.Key, "error", err)
		if cmd.OnFailure != nil {
			cmd.OnFailure(err)
		}
		return
	}
	if cmd.OnSuccess != nil {
		cmd.OnSuccess()
	}
}
