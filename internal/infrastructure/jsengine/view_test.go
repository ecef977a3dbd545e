package jsengine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/jsbridge/internal/domain/entity"
	"github.com/bnema/jsbridge/internal/infrastructure/jsengine"
	"github.com/bnema/jsbridge/internal/logging"
)

func testContext() context.Context {
	return logging.WithContext(context.Background(), zerolog.Nop())
}

type echoBinding struct {
	calls [][]string
}

func (b *echoBinding) Methods() []entity.MethodDescriptor {
	return []entity.MethodDescriptor{{Name: "echo", Arity: -1}, {Name: "fail", Arity: 0}}
}

func (b *echoBinding) Invoke(_ context.Context, name string, args []string) (entity.ResultMessage, error) {
	b.calls = append(b.calls, args)
	if name == "fail" {
		return entity.NullResult(), errors.New("native failure")
	}
	if len(args) == 0 {
		return entity.NullResult(), nil
	}
	return entity.NewResult(args[0]), nil
}

type recordingNavigator struct {
	urls  []string
	claim bool
	err   error
}

func (n *recordingNavigator) InterceptNavigation(_ context.Context, url string) (bool, error) {
	n.urls = append(n.urls, url)
	return n.claim, n.err
}

func TestView_LoadPageAndEvaluate(t *testing.T) {
	ctx := testContext()
	view := jsengine.New(ctx)
	assert.Equal(t, jsengine.DefaultRuntimeVersion, view.RuntimeVersion())
	assert.Equal(t, "about:blank", view.Location())

	_, err := view.Evaluate(ctx, "1 + 1")
	require.Error(t, err)

	require.NoError(t, view.LoadPage(ctx, "file:///index.html", `var answer = 6 * 7; console.log("ready", answer);`))
	assert.Equal(t, "file:///index.html", view.Location())
	assert.Equal(t, []string{"ready 42"}, view.Console())

	got, err := view.Evaluate(ctx, "answer")
	require.NoError(t, err)
	assert.EqualValues(t, 42, got)

	got, err = view.Evaluate(ctx, "window.location")
	require.NoError(t, err)
	assert.Equal(t, "file:///index.html", got)
}

func TestView_FreshRuntimePerPage(t *testing.T) {
	ctx := testContext()
	view := jsengine.New(ctx)

	require.NoError(t, view.LoadPage(ctx, "file:///a.html", `var leftover = "a";`))
	require.NoError(t, view.LoadPage(ctx, "file:///b.html", ``))

	got, err := view.Evaluate(ctx, `typeof leftover`)
	require.NoError(t, err)
	assert.Equal(t, "undefined", got)
}

func TestView_LoadFinishedHooksRunInOrder(t *testing.T) {
	ctx := testContext()
	view := jsengine.New(ctx)

	var order []string
	view.OnLoadFinished(func(ctx context.Context, url string) error {
		order = append(order, "first:"+url)
		return view.EvaluateScript(ctx, `var hooked = true;`)
	})
	view.OnLoadFinished(func(_ context.Context, url string) error {
		order = append(order, "second:"+url)
		return nil
	})

	require.NoError(t, view.LoadPage(ctx, "file:///index.html", ``))
	assert.Equal(t, []string{"first:file:///index.html", "second:file:///index.html"}, order)

	got, err := view.Evaluate(ctx, "hooked")
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

func TestView_ScriptErrors(t *testing.T) {
	ctx := testContext()
	view := jsengine.New(ctx)

	err := view.LoadPage(ctx, "file:///broken.html", `throw new Error("bad page");`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad page")

	view.OnLoadFinished(func(context.Context, string) error { return errors.New("hook failed") })
	err = view.LoadPage(ctx, "file:///ok.html", ``)
	assert.ErrorContains(t, err, "hook failed")
}

func TestView_ContextCancelInterruptsScript(t *testing.T) {
	view := jsengine.New(testContext())
	ctx, cancel := context.WithTimeout(testContext(), 50*time.Millisecond)
	defer cancel()

	err := view.LoadPage(ctx, "file:///spin.html", `for (;;) {}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, view.LoadPage(testContext(), "file:///after.html", `var ok = 1;`))
}

func TestView_Navigation(t *testing.T) {
	ctx := testContext()
	view := jsengine.New(ctx)
	nav := &recordingNavigator{}
	require.NoError(t, view.SetNavigationInterceptor(nav))

	require.NoError(t, view.LoadPage(ctx, "file:///index.html", `window.location = "https://example.com/next";`))
	assert.Equal(t, []string{"https://example.com/next"}, nav.urls)
	assert.Equal(t, []string{"https://example.com/next"}, view.Navigations())
	assert.Equal(t, "https://example.com/next", view.Location())

	nav.claim = true
	require.NoError(t, view.LoadPage(ctx, "file:///index.html", `location = "app://claimed";`))
	assert.Equal(t, "file:///index.html", view.Location())
	assert.Len(t, view.Navigations(), 1)
}

func TestView_NavigationHostErrorAbortsScript(t *testing.T) {
	ctx := testContext()
	view := jsengine.New(ctx)
	hostErr := errors.New("host refused")
	require.NoError(t, view.SetNavigationInterceptor(&recordingNavigator{claim: true, err: hostErr}))

	err := view.LoadPage(ctx, "file:///index.html", `location = "app://x"; var after = true;`)
	require.Error(t, err)
	assert.ErrorIs(t, err, hostErr)

	got, err := view.Evaluate(ctx, "typeof after")
	require.NoError(t, err)
	assert.Equal(t, "undefined", got)
}

func TestView_PromptResponder(t *testing.T) {
	ctx := testContext()
	view := jsengine.New(ctx, jsengine.WithPromptResponder(func(message, def string) (string, bool) {
		if message == "cancel me" {
			return "", false
		}
		return message + "|" + def, true
	}))

	require.NoError(t, view.LoadPage(ctx, "file:///index.html", `
		var a = prompt("name?", "Ada");
		var b = prompt("cancel me");
	`))

	got, err := view.Evaluate(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "name?|Ada", got)

	got, err = view.Evaluate(ctx, "b === null")
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

func TestView_JavascriptInterface(t *testing.T) {
	ctx := testContext()
	view := jsengine.New(ctx, jsengine.WithRuntimeVersion("4.1"))
	assert.Equal(t, "4.1", view.RuntimeVersion())

	binding := &echoBinding{}
	require.NoError(t, view.AddJavascriptInterface("Native", binding))
	assert.Error(t, view.AddJavascriptInterface("", binding))

	require.NoError(t, view.LoadPage(ctx, "file:///index.html", `
		var first = Native.echo("hi", 2);
		var empty = Native.echo();
		var caught = "";
		try { Native.fail(); } catch (e) { caught = String(e); }
	`))

	got, err := view.Evaluate(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, "hi", got)

	got, err = view.Evaluate(ctx, "empty === null")
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = view.Evaluate(ctx, "caught")
	require.NoError(t, err)
	assert.Contains(t, got, "native failure")

	require.Len(t, binding.calls, 3)
	assert.Equal(t, []string{"hi", "2"}, binding.calls[0])
}
