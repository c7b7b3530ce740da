package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaller_TracksLoadingAndError(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})
	var fail atomic.Bool
	fail.Store(true)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		inFlight <- struct{}{}
		<-release
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	})
	caller := c.NewCaller()
	assert.False(t, caller.Loading())

	errCh := make(chan error, 1)
	go func() { errCh <- caller.Do(context.Background(), "/overview", nil) }()
	<-inFlight
	assert.True(t, caller.Loading())
	release <- struct{}{}
	require.Error(t, <-errCh)

	assert.False(t, caller.Loading())
	require.NotNil(t, caller.Err())
	assert.Equal(t, "HTTP error! status: 500", caller.Err().Message)

	// a new call clears the previous error before it resolves
	fail.Store(false)
	go func() { errCh <- caller.Do(context.Background(), "/overview", nil) }()
	<-inFlight
	assert.Nil(t, caller.Err())
	release <- struct{}{}
	require.NoError(t, <-errCh)
	assert.False(t, caller.Loading())
	assert.Nil(t, caller.Err())
}

func TestCaller_IndependentInstances(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	})
	a, b := c.NewCaller(), c.NewCaller()

	_ = a.Do(context.Background(), "/bad", nil)
	require.NoError(t, b.Do(context.Background(), "/good", nil))

	assert.NotNil(t, a.Err())
	assert.Nil(t, b.Err())

	a.ClearErr()
	assert.Nil(t, a.Err())
}

func TestCaller_CancellationIsNotAnError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	caller := c.NewCaller()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := caller.Do(ctx, "/overview", nil)

	assert.True(t, IsCanceled(err))
	assert.Nil(t, caller.Err())
	assert.False(t, caller.Loading())
}

func TestCaller_BeginRefusesOverlap(t *testing.T) {
	caller := NewCaller()

	require.True(t, caller.Begin())
	assert.True(t, caller.Loading())
	assert.False(t, caller.Begin())

	err := caller.End(Validation("Employee ID and Name are required"))
	require.Error(t, err)
	assert.False(t, caller.Loading())
	require.NotNil(t, caller.Err())
	assert.Equal(t, KindValidation, caller.Err().Kind)

	// the next request starts clean
	require.True(t, caller.Begin())
	assert.Nil(t, caller.Err())
	assert.NoError(t, caller.End(nil))
	assert.Nil(t, caller.Err())
}

func TestCaller_TrackReleasesOnCancel(t *testing.T) {
	caller := NewCaller()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := caller.Track(ctx, func(ctx context.Context) error { return ctx.Err() })

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, caller.Loading())
	assert.Nil(t, caller.Err())
}
