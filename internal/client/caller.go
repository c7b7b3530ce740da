package client

import (
	"context"
	"sync"
)

// Caller is a per-call-site handle carrying its own loading flag and last
// error. Two Callers never see each other's state.
type Caller struct {
	api *APIClient

	mu      sync.Mutex
	loading bool
	err     *Error
}

// NewCaller returns a Caller bound to c, for use with Do.
func (c *APIClient) NewCaller() *Caller {
	return &Caller{api: c}
}

// NewCaller returns an unbound Caller. Use Begin and End, or Track, to
// record requests made through a typed endpoint.
func NewCaller() *Caller {
	return &Caller{}
}

// Begin marks the call site loading and clears its error. It reports false,
// changing nothing, when a request is already in flight.
func (c *Caller) Begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return false
	}
	c.loading = true
	c.err = nil
	return true
}

// End releases loading and records err unless it is a cancellation. err is
// returned unchanged.
func (c *Caller) End(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil && !IsCanceled(err) {
		c.err = AsError(err)
	}
	return err
}

// Track runs fn between Begin and End. Unlike Begin it does not refuse an
// overlapping call; the last one to finish decides the state.
func (c *Caller) Track(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	c.mu.Lock()
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	defer func() { c.End(err) }()
	return fn(ctx)
}

// Do clears the previous error, marks the caller loading for the duration of
// the request and records the outcome. Loading is always released.
func (c *Caller) Do(ctx context.Context, endpoint string, out any, opts ...Option) error {
	return c.Track(ctx, func(ctx context.Context) error {
		return c.api.Do(ctx, endpoint, out, opts...)
	})
}

func (c *Caller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err is the last non-cancellation failure, or nil.
func (c *Caller) Err() *Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Caller) ClearErr() {
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()
}
