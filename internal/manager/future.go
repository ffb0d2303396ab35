package manager

import (
	"context"
	"sync"
)

// Future is the single-resolution handle returned by Send. It resolves
// exactly once, either with the matching Response or with an error, and
// every Wait observes the same outcome. The engine imposes no timeout of
// its own; callers bound the wait through the context.
type Future struct {
	done chan struct{}
	once sync.Once
	resp *Response
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(resp *Response) {
	f.once.Do(func() {
		f.resp = resp
		close(f.done)
	})
}

func (f *Future) fail(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future has resolved.
func (f *Future) Done() <-chan struct{} { return f.done }

// Resolved reports whether the future has an outcome yet.
func (f *Future) Resolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the future resolves or ctx is cancelled. A cancelled
// wait abandons the handle but does not cancel the in-flight action;
// whole-connection Close/End are the only collective cancellations.
func (f *Future) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
