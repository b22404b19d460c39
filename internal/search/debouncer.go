package search

import (
	"context"
	"sync"
	"time"
)

const DefaultDelay = 300 * time.Millisecond

type FetchFunc[T any] func(ctx context.Context, query string) (T, error)

type Result[T any] struct {
	Seq   uint64
	Query string
	Value T
	Err   error
}

// Debouncer runs a fetch once input has been quiet for the configured
// delay. Every dispatched fetch gets the next sequence number and only the
// result carrying the latest number is delivered; older ones are dropped
// and their contexts cancelled.
type Debouncer[T any] struct {
	delay   time.Duration
	fetch   FetchFunc[T]
	deliver func(Result[T])

	mu       sync.Mutex
	timer    *time.Timer
	seq      uint64
	cancel   context.CancelFunc
	closed   bool
	inflight sync.WaitGroup

	deliverMu sync.Mutex
	delivered uint64
}

func New[T any](delay time.Duration, fetch FetchFunc[T], deliver func(Result[T])) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, fetch: fetch, deliver: deliver}
}

// Trigger restarts the quiet period for query.
func (d *Debouncer[T]) Trigger(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.dispatch(query) })
}

func (d *Debouncer[T]) dispatch(query string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.seq++
	seq := d.seq
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.inflight.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.inflight.Done()
		defer cancel()

		value, err := d.fetch(ctx, query)

		d.deliverMu.Lock()
		defer d.deliverMu.Unlock()
		if !d.isLatest(seq) || seq <= d.delivered {
			return
		}
		d.delivered = seq
		d.deliver(Result[T]{Seq: seq, Query: query, Value: value, Err: err})
	}()
}

func (d *Debouncer[T]) isLatest(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && seq == d.seq
}

// Close drops any pending trigger, cancels the running fetch and waits for
// it to return. Nothing is delivered after Close returns.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()

	d.inflight.Wait()
}
