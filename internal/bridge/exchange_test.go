package bridge_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/jsbridge/internal/bridge"
	"github.com/bnema/jsbridge/internal/domain/entity"
)

func startExchange(t *testing.T, r *bridge.Registry, policy bridge.FailurePolicy, onFailure bridge.FailureHandler) *bridge.Exchange {
	t.Helper()
	ctx := testContext()
	x := bridge.NewExchange(ctx, bridge.NewDispatcher(ctx, r, nil), policy, onFailure)
	x.Start(ctx)
	t.Cleanup(func() { _ = x.Close() })
	return x
}

func TestExchange_Call(t *testing.T) {
	x := startExchange(t, greeterRegistry(t), bridge.PolicyFail, nil)

	res, err := x.Call(testContext(), `{"name":"greet","len":1,"args":["World"]}`)
	require.NoError(t, err)
	require.NotNil(t, res.Result)
	assert.Equal(t, "Hello, World", *res.Result)
	assert.NoError(t, x.Err())
}

func TestExchange_PostReturnsBeforeDispatch(t *testing.T) {
	release := make(chan struct{})
	done := make(chan string, 1)

	r := bridge.NewRegistry()
	r.MustRegister("logEvent", bridge.Proc1(func(ev string) error {
		<-release
		done <- ev
		return nil
	}))
	x := startExchange(t, r, bridge.PolicyFail, nil)

	require.NoError(t, x.Post(testContext(), `{"name":"logEvent","len":1,"args":["clicked"]}`))

	select {
	case <-done:
		t.Fatal("method ran before it was released")
	default:
	}

	close(release)
	select {
	case ev := <-done:
		assert.Equal(t, "clicked", ev)
	case <-time.After(2 * time.Second):
		t.Fatal("one-way call was never dispatched")
	}
}

func TestExchange_SerializesCalls(t *testing.T) {
	var mu sync.Mutex
	active, maxActive := 0, 0

	r := bridge.NewRegistry()
	r.MustRegister("work", bridge.Fn0(func() (string, error) {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		return "done", nil
	}))
	x := startExchange(t, r, bridge.PolicyFail, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := x.Call(testContext(), `{"name":"work","len":0,"args":[]}`)
			assert.NoError(t, err)
			assert.Equal(t, "done", *res.Result)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive)
}

func TestExchange_PolicyFailHalts(t *testing.T) {
	var failures []bridge.Outcome
	x := startExchange(t, greeterRegistry(t), bridge.PolicyFail, func(_ context.Context, out bridge.Outcome) {
		failures = append(failures, out)
	})

	_, err := x.Call(testContext(), `{"name":"missing","len":0,"args":[]}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrConfiguration)

	require.Len(t, failures, 1)
	assert.Equal(t, entity.OutcomeConfiguration, failures[0].Kind)

	err = x.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrConfiguration)

	_, err = x.Call(testContext(), `{"name":"greet","len":1,"args":["World"]}`)
	assert.ErrorIs(t, err, entity.ErrConfiguration)
}

func TestExchange_PolicyIgnoreAnswersNull(t *testing.T) {
	r := greeterRegistry(t)
	r.MustRegister("fail", bridge.Fn0(func() (string, error) { return "", errors.New("boom") }))
	x := startExchange(t, r, bridge.PolicyIgnore, nil)

	res, err := x.Call(testContext(), `{"name":"fail","len":0,"args":[]}`)
	require.NoError(t, err)
	assert.Nil(t, res.Result)

	res, err = x.Call(testContext(), `{"name":"greet","len":1,"args":["again"]}`)
	require.NoError(t, err)
	assert.Equal(t, "Hello, again", *res.Result)
	assert.NoError(t, x.Err())
}

func TestExchange_OneWayFailureReachesHandler(t *testing.T) {
	got := make(chan bridge.Outcome, 1)
	x := startExchange(t, greeterRegistry(t), bridge.PolicyFail, func(_ context.Context, out bridge.Outcome) {
		got <- out
	})

	require.NoError(t, x.Post(testContext(), `{"name":"logEvent","len":2,"args":["a","b"]}`))

	select {
	case out := <-got:
		assert.Equal(t, entity.OutcomeArgumentMismatch, out.Kind)
		assert.Equal(t, "logEvent", out.Message.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("failure handler was not called")
	}
}

func TestExchange_Closed(t *testing.T) {
	x := startExchange(t, greeterRegistry(t), bridge.PolicyFail, nil)
	require.NoError(t, x.Close())

	_, err := x.Call(testContext(), `{"name":"greet","len":1,"args":["x"]}`)
	assert.ErrorIs(t, err, entity.ErrBridgeClosed)
	assert.ErrorIs(t, x.Post(testContext(), `{"name":"logEvent","len":1,"args":["x"]}`), entity.ErrBridgeClosed)
}

func TestExchange_PolicyFailStopsQueuedCalls(t *testing.T) {
	started := make(chan struct{})
	var mu sync.Mutex
	ran := 0

	r := bridge.NewRegistry()
	r.MustRegister("slowFail", bridge.Proc0(func() error {
		close(started)
		time.Sleep(100 * time.Millisecond)
		return errors.New("native side failed")
	}))
	r.MustRegister("logEvent", bridge.Proc1(func(string) error {
		mu.Lock()
		ran++
		mu.Unlock()
		return nil
	}))
	r.MustRegister("greet", bridge.Fn1(func(name string) (string, error) {
		mu.Lock()
		ran++
		mu.Unlock()
		return "Hello, " + name, nil
	}))
	x := startExchange(t, r, bridge.PolicyFail, nil)

	require.NoError(t, x.Post(testContext(), `{"name":"slowFail","len":0,"args":[]}`))
	<-started

	// Submitted while slowFail runs; refused either at submission or by the worker.
	callErr := make(chan error, 1)
	go func() {
		_, err := x.Call(testContext(), `{"name":"greet","len":1,"args":["late"]}`)
		callErr <- err
	}()
	postErr := x.Post(testContext(), `{"name":"logEvent","len":1,"args":["after"]}`)
	if postErr != nil {
		assert.ErrorIs(t, postErr, entity.ErrInvocation)
	}

	select {
	case err := <-callErr:
		assert.ErrorIs(t, err, entity.ErrInvocation)
	case <-time.After(2 * time.Second):
		t.Fatal("queued call never returned")
	}

	require.NoError(t, x.Close())
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, ran, "no method may run after a fatal failure")
	assert.ErrorIs(t, x.Err(), entity.ErrInvocation)
}

func TestExchange_SyncFailureHaltsBeforeNextCall(t *testing.T) {
	r := greeterRegistry(t)
	r.MustRegister("fail", bridge.Fn0(func() (string, error) { return "", errors.New("boom") }))
	x := startExchange(t, r, bridge.PolicyFail, nil)

	_, err := x.Call(testContext(), `{"name":"fail","len":0,"args":[]}`)
	require.ErrorIs(t, err, entity.ErrInvocation)

	res, err := x.Call(testContext(), `{"name":"greet","len":1,"args":["World"]}`)
	assert.ErrorIs(t, err, entity.ErrInvocation)
	assert.Nil(t, res.Result)
}
