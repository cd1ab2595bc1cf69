// Package queue provides a strictly FIFO dispatcher that keeps at most one
// invocation in flight against the remote endpoint.
//
// Callers from any number of goroutines Submit invocations. A single drain
// goroutine runs them one at a time through an [Executor], spacing
// consecutive requests apart, and delivers each result to its caller. The
// drain goroutine exists only while there is work; it exits once the queue is
// empty and the next Submit starts a fresh one.
package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/retry"
	"go.uber.org/zap"
)

// DefaultSpacing is the pause inserted before an item when others wait
// behind it.
const DefaultSpacing = time.Second

// ErrClosed is returned for submissions made after Close and for items still
// pending when Close is called.
var ErrClosed = errors.New("queue: closed")

// Executor runs a single queued invocation, possibly retrying it.
type Executor interface {
	Execute(ctx context.Context, invoke relay.Invoke) (*relay.Response, error)
}

// Interface compliance checks.
var (
	_ relay.Dispatcher = (*Queue)(nil)
	_ Executor         = (*retry.Executor)(nil)
)

type result struct {
	resp *relay.Response
	err  error
}

type item struct {
	invoke relay.Invoke
	done   chan result // buffered; the drain loop never blocks on delivery
}

// Queue implements [relay.Dispatcher].
type Queue struct {
	exec    Executor
	spacing time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	items  []*item
	busy   bool
	closed bool
}

// Option configures a [Queue].
type Option func(*Queue)

// WithExecutor sets the executor used to run each item. Default is a
// [retry.Executor] with default settings.
func WithExecutor(e Executor) Option {
	return func(q *Queue) { q.exec = e }
}

// WithSpacing sets the pause between consecutive items.
func WithSpacing(d time.Duration) Option {
	return func(q *Queue) { q.spacing = d }
}

// WithSleep overrides how the spacing pause is waited out.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(q *Queue) { q.sleep = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(q *Queue) { q.log = l }
}

// New creates an idle Queue. Call Close to release it.
func New(opts ...Option) *Queue {
	q := &Queue{
		spacing: DefaultSpacing,
		sleep:   retry.Sleep,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(q)
	}
	if q.exec == nil {
		q.exec = retry.New(retry.WithLogger(q.log))
	}
	q.ctx, q.cancel = context.WithCancel(context.Background())
	return q
}

// Submit enqueues invoke and blocks until it has settled. If ctx is done
// first, Submit returns the context error; the item itself stays queued and
// still runs.
func (q *Queue) Submit(ctx context.Context, invoke relay.Invoke) (*relay.Response, error) {
	it := &item{invoke: invoke, done: make(chan result, 1)}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, ErrClosed
	}
	q.items = append(q.items, it)
	if !q.busy {
		q.busy = true
		q.wg.Add(1)
		go q.drain()
	}
	q.mu.Unlock()

	select {
	case r := <-it.done:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of items waiting to run, excluding the one in
// flight.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Busy reports whether the drain loop is running.
func (q *Queue) Busy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.busy
}

// Close rejects pending items with ErrClosed, cancels the item in flight and
// waits for the drain loop to exit. It is safe to call more than once.
func (q *Queue) Close() error {
	q.mu.Lock()
	pending := q.items
	q.items = nil
	q.closed = true
	q.mu.Unlock()

	for _, it := range pending {
		it.done <- result{err: ErrClosed}
	}
	q.cancel()
	q.wg.Wait()
	return nil
}

func (q *Queue) drain() {
	defer q.wg.Done()
	q.log.Debug("queue drain started")

	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.busy = false
			q.mu.Unlock()
			q.log.Debug("queue drained")
			return
		}
		it := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		more := len(q.items) > 0
		q.mu.Unlock()

		if more && q.spacing > 0 {
			if err := q.sleep(q.ctx, q.spacing); err != nil {
				it.done <- result{err: ErrClosed}
				continue
			}
		}

		resp, err := q.exec.Execute(q.ctx, it.invoke)
		if err != nil {
			q.log.Warn("queued request failed", zap.Error(err))
		}
		it.done <- result{resp: resp, err: err}
	}
}
