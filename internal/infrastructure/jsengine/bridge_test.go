package jsengine_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/jsbridge/internal/bridge"
	"github.com/bnema/jsbridge/internal/domain/entity"
	"github.com/bnema/jsbridge/internal/infrastructure/jsengine"
)

const greetPage = `
var result;
function android_init() {
	result = Android.greet("World");
}
`

type nativeSurface struct {
	registry *bridge.Registry
	greets   atomic.Int32
	events   chan string
}

func newNativeSurface(t *testing.T) *nativeSurface {
	t.Helper()
	s := &nativeSurface{registry: bridge.NewRegistry(), events: make(chan string, 8)}
	s.registry.MustRegister("greet", bridge.Fn1(func(name string) (string, error) {
		s.greets.Add(1)
		return "Hello, " + name, nil
	}))
	s.registry.MustRegister("logEvent", bridge.Proc1(func(ev string) error {
		s.events <- ev
		return nil
	}))
	s.registry.MustRegister("explode", bridge.Proc0(func() error {
		return errors.New("native side failed")
	}))
	return s
}

func TestBridge_ShimmedPromptReturnsResult(t *testing.T) {
	ctx := testContext()
	surface := newNativeSurface(t)
	view := jsengine.New(ctx, jsengine.WithRuntimeVersion("2.3.4"))

	reg := prometheus.NewRegistry()
	metrics, err := bridge.NewMetrics(reg)
	require.NoError(t, err)

	c, err := bridge.Attach(ctx, view, surface.registry, "Android",
		bridge.WithSignaturePrefix("jsbridge:"),
		bridge.WithMetrics(metrics),
	)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, entity.ModeShimmed, c.Mode())

	require.NoError(t, view.LoadPage(ctx, "file:///index.html", greetPage))

	got, err := view.Evaluate(ctx, "result")
	require.NoError(t, err)
	assert.Equal(t, "Hello, World", got)
	assert.Equal(t, int32(1), surface.greets.Load())

	expected := `
# HELP jsbridge_invocations_total Bridge invocations by method and outcome.
# TYPE jsbridge_invocations_total counter
jsbridge_invocations_total{method="greet",outcome="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "jsbridge_invocations_total"))
}

func TestBridge_ShimmedProxyStringifiesArguments(t *testing.T) {
	ctx := testContext()
	surface := newNativeSurface(t)
	view := jsengine.New(ctx, jsengine.WithRuntimeVersion("2.3"))

	c, err := bridge.Attach(ctx, view, surface.registry, "Android", bridge.WithSignaturePrefix("jsbridge:"))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, view.LoadPage(ctx, "file:///index.html", ``))

	got, err := view.Evaluate(ctx, `Android.greet(42)`)
	require.NoError(t, err)
	assert.Equal(t, "Hello, 42", got)

	got, err = view.Evaluate(ctx, `Android.logEvent("x") === null`)
	require.NoError(t, err)
	assert.Equal(t, true, got)
	assert.Equal(t, "x", <-surface.events)
}

func TestBridge_ShimmedNavigationIsOneWay(t *testing.T) {
	ctx := testContext()
	surface := newNativeSurface(t)
	view := jsengine.New(ctx, jsengine.WithRuntimeVersion("2.3.7"))

	c, err := bridge.Attach(ctx, view, surface.registry, "Android")
	require.NoError(t, err)
	defer c.Close()
	require.Equal(t, entity.TransportNavigation, c.Transport().Kind())

	require.NoError(t, view.LoadPage(ctx, "file:///index.html", `
		var returned;
		function android_init() {
			returned = typeof Android.logEvent("page ready");
		}
	`))

	got, err := view.Evaluate(ctx, "returned")
	require.NoError(t, err)
	assert.Equal(t, "undefined", got)

	select {
	case ev := <-surface.events:
		assert.Equal(t, "page ready", ev)
	case <-time.After(2 * time.Second):
		t.Fatal("one-way call was not dispatched")
	}
	select {
	case ev := <-surface.events:
		t.Fatalf("dispatched twice, got %q", ev)
	case <-time.After(20 * time.Millisecond):
	}

	assert.Equal(t, "file:///index.html", view.Location())
	assert.Empty(t, view.Navigations())
}

func TestBridge_DirectModeInjectsNoScript(t *testing.T) {
	ctx := testContext()
	surface := newNativeSurface(t)
	view := jsengine.New(ctx, jsengine.WithRuntimeVersion("4.0.3"))

	c, err := bridge.Attach(ctx, view, surface.registry, "Android")
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, entity.ModeDirect, c.Mode())
	assert.Empty(t, c.ProxyScript())

	require.NoError(t, view.LoadPage(ctx, "file:///index.html", greetPage))

	got, err := view.Evaluate(ctx, "result")
	require.NoError(t, err)
	assert.Equal(t, "Hello, World", got)

	got, err = view.Evaluate(ctx, "typeof Android.__invoke")
	require.NoError(t, err)
	assert.Equal(t, "undefined", got)
}

func TestBridge_UnrelatedPromptsAndNavigationsPassThrough(t *testing.T) {
	ctx := testContext()
	surface := newNativeSurface(t)
	view := jsengine.New(ctx,
		jsengine.WithRuntimeVersion("2.3.1"),
		jsengine.WithPromptResponder(func(message, _ string) (string, bool) { return "user:" + message, true }),
	)

	c, err := bridge.Attach(ctx, view, surface.registry, "Android", bridge.WithSignaturePrefix("jsbridge:"))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, view.LoadPage(ctx, "file:///index.html", `
		var answer = prompt("Your name?");
		window.location = "https://example.com/";
	`))

	got, err := view.Evaluate(ctx, "answer")
	require.NoError(t, err)
	assert.Equal(t, "user:Your name?", got)
	assert.Equal(t, []string{"https://example.com/"}, view.Navigations())
	assert.Equal(t, int32(0), surface.greets.Load())
}

func TestBridge_PageWithoutInitFunction(t *testing.T) {
	ctx := testContext()
	view := jsengine.New(ctx, jsengine.WithRuntimeVersion("2.3.2"))

	c, err := bridge.Attach(ctx, view, newNativeSurface(t).registry, "Android")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, view.LoadPage(ctx, "file:///plain.html", `var x = 1;`))
}

func TestBridge_ProxyReinjectedOnEveryLoad(t *testing.T) {
	ctx := testContext()
	surface := newNativeSurface(t)
	view := jsengine.New(ctx, jsengine.WithRuntimeVersion("2.3.2"))

	c, err := bridge.Attach(ctx, view, surface.registry, "Android", bridge.WithSignaturePrefix("jsbridge:"))
	require.NoError(t, err)
	defer c.Close()

	for _, page := range []string{"file:///a.html", "file:///b.html"} {
		require.NoError(t, view.LoadPage(ctx, page, greetPage))
		got, err := view.Evaluate(ctx, "result")
		require.NoError(t, err)
		assert.Equal(t, "Hello, World", got)
	}
	assert.Equal(t, int32(2), surface.greets.Load())
}

func TestBridge_FailurePolicies(t *testing.T) {
	page := `
		var outcome = "unset";
		function android_init() {
			outcome = Android.explode();
		}
	`

	t.Run("fail escalates to the host", func(t *testing.T) {
		ctx := testContext()
		view := jsengine.New(ctx, jsengine.WithRuntimeVersion("2.3"))
		c, err := bridge.Attach(ctx, view, newNativeSurface(t).registry, "Android", bridge.WithSignaturePrefix("jsbridge:"))
		require.NoError(t, err)
		defer c.Close()

		err = view.LoadPage(ctx, "file:///index.html", page)
		require.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrInvocation)
		assert.ErrorIs(t, c.Err(), entity.ErrInvocation)
	})

	t.Run("ignore answers null", func(t *testing.T) {
		ctx := testContext()
		view := jsengine.New(ctx, jsengine.WithRuntimeVersion("2.3"))

		var failures atomic.Int32
		c, err := bridge.Attach(ctx, view, newNativeSurface(t).registry, "Android",
			bridge.WithSignaturePrefix("jsbridge:"),
			bridge.WithFailurePolicy(bridge.PolicyIgnore),
			bridge.WithFailureHandler(func(_ context.Context, out bridge.Outcome) {
				failures.Add(1)
			}),
		)
		require.NoError(t, err)
		defer c.Close()

		require.NoError(t, view.LoadPage(ctx, "file:///index.html", page))
		got, err := view.Evaluate(ctx, "outcome === null")
		require.NoError(t, err)
		assert.Equal(t, true, got)
		assert.Equal(t, int32(1), failures.Load())
		assert.NoError(t, c.Err())
	})

	t.Run("unknown method is a configuration error", func(t *testing.T) {
		ctx := testContext()
		view := jsengine.New(ctx, jsengine.WithRuntimeVersion("2.3"))
		c, err := bridge.Attach(ctx, view, newNativeSurface(t).registry, "Android", bridge.WithSignaturePrefix("jsbridge:"))
		require.NoError(t, err)
		defer c.Close()

		require.NoError(t, view.LoadPage(ctx, "file:///index.html", ``))
		_, err = view.Evaluate(ctx, `Android.__invoke("notThere", [])`)
		assert.ErrorIs(t, err, entity.ErrConfiguration)
	})
}
