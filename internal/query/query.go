// Package query provides a keyed, cancellable fetch slot. Each Begin
// supersedes the previous request; results from superseded requests are
// dropped on Apply, so responses arriving out of order never overwrite
// newer state.
package query

import (
	"context"
	"sync"
)

// FetchFunc loads the value for key.
type FetchFunc[K comparable, T any] func(ctx context.Context, key K) (T, error)

// Ticket identifies one request.
type Ticket[K comparable] struct {
	Key K
	Gen uint64
	Ctx context.Context
}

// Result is the outcome of running a Ticket.
type Result[K comparable, T any] struct {
	Ticket Ticket[K]
	Data   T
	Err    error
}

// State is a point-in-time copy of the query.
type State[K comparable, T any] struct {
	Key     K
	Active  bool // a key is set (loading or loaded)
	Loading bool
	Data    T
	HasData bool
	Err     error
}

type Query[K comparable, T any] struct {
	fetch FetchFunc[K, T]

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	key     K
	active  bool
	loading bool
	data    T
	hasData bool
	err     error
}

func New[K comparable, T any](fetch FetchFunc[K, T]) *Query[K, T] {
	return &Query[K, T]{fetch: fetch}
}

// Begin starts a request for key, cancelling any request in flight. The
// previous data stays visible until the new result is applied.
func (q *Query[K, T]) Begin(parent context.Context, key K) Ticket[K] {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cancel != nil {
		q.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	q.gen++
	q.cancel = cancel
	q.key = key
	q.active = true
	q.loading = true
	q.err = nil
	return Ticket[K]{Key: key, Gen: q.gen, Ctx: ctx}
}

// Run performs the fetch for t. It does not touch query state and is safe
// to call from any goroutine.
func (q *Query[K, T]) Run(t Ticket[K]) Result[K, T] {
	data, err := q.fetch(t.Ctx, t.Key)
	return Result[K, T]{Ticket: t, Data: data, Err: err}
}

// Apply stores r if it belongs to the latest Begin and reports whether it
// did. A failed result clears the data.
func (q *Query[K, T]) Apply(r Result[K, T]) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if r.Ticket.Gen != q.gen || !q.active {
		return false
	}
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.loading = false
	if r.Err != nil {
		var zero T
		q.data = zero
		q.hasData = false
		q.err = r.Err
		return true
	}
	q.data = r.Data
	q.hasData = true
	q.err = nil
	return true
}

// Clear cancels any request and empties the query without fetching.
func (q *Query[K, T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	var zeroK K
	var zeroT T
	q.gen++
	q.key = zeroK
	q.active = false
	q.loading = false
	q.data = zeroT
	q.hasData = false
	q.err = nil
}

// Current reports the active key, if any.
func (q *Query[K, T]) Current() (K, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.key, q.active
}

func (q *Query[K, T]) State() State[K, T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return State[K, T]{
		Key:     q.key,
		Active:  q.active,
		Loading: q.loading,
		Data:    q.data,
		HasData: q.hasData,
		Err:     q.err,
	}
}
