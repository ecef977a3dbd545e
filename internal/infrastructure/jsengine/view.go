// Package jsengine provides a headless content view backed by the sobek
// JavaScript runtime. It models the parts of a browser page the bridge relies
// on: window.location navigation, window.prompt, console.log and page loads.
package jsengine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/grafana/sobek"
	"github.com/rs/zerolog"

	"github.com/bnema/jsbridge/internal/application/port"
	"github.com/bnema/jsbridge/internal/logging"
)

// DefaultRuntimeVersion is reported when no version is configured.
const DefaultRuntimeVersion = "4.4.2"

// blankURL is the location of a view before any page is loaded.
const blankURL = "about:blank"

// PromptResponder answers prompts the host did not claim. ok=false is the
// equivalent of the user dismissing the dialog.
type PromptResponder func(message, defaultValue string) (response string, ok bool)

// Option configures a View.
type Option func(*View)

// WithRuntimeVersion sets the version reported to the bridge.
func WithRuntimeVersion(v string) Option {
	return func(view *View) { view.version = v }
}

// WithPromptResponder answers unclaimed prompts.
func WithPromptResponder(fn PromptResponder) Option {
	return func(view *View) { view.responder = fn }
}

// View is a single page context. Each LoadPage starts a fresh runtime, so
// globals from the previous page are gone and load-finished hooks must
// re-install whatever the page needs.
//
// A View is safe for concurrent use; scripts run one at a time.
type View struct {
	runMu sync.Mutex // held while script runs on vm

	mu          sync.Mutex
	vm          *sobek.Runtime
	version     string
	responder   PromptResponder
	bindings    map[string]port.NativeBinding
	bindOrder   []string
	navigator   port.NavigationInterceptor
	prompter    port.PromptInterceptor
	onLoad      []port.LoadFinishedFunc
	location    string
	navigations []string
	console     []string

	// opCtx is the context of the script currently running.
	opCtx context.Context
	fatal error

	log zerolog.Logger
}

var _ port.ContentView = (*View)(nil)

// New creates a view with no page loaded.
func New(ctx context.Context, opts ...Option) *View {
	v := &View{
		version:  DefaultRuntimeVersion,
		bindings: make(map[string]port.NativeBinding),
		location: blankURL,
		log:      logging.FromContext(ctx).With().Str("component", "jsengine").Logger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// RuntimeVersion implements port.ContentView.
func (v *View) RuntimeVersion() string {
	return v.version
}

// AddJavascriptInterface implements port.ContentView. The binding is
// installed on the current page and on every page loaded afterwards.
func (v *View) AddJavascriptInterface(name string, binding port.NativeBinding) error {
	if name == "" || binding == nil {
		return errors.New("javascript interface needs a name and a binding")
	}

	v.runMu.Lock()
	defer v.runMu.Unlock()

	v.mu.Lock()
	if _, exists := v.bindings[name]; !exists {
		v.bindOrder = append(v.bindOrder, name)
	}
	v.bindings[name] = binding
	vm := v.vm
	v.mu.Unlock()

	if vm != nil {
		return v.installBinding(vm, name, binding)
	}
	return nil
}

// SetNavigationInterceptor implements port.ContentView.
func (v *View) SetNavigationInterceptor(i port.NavigationInterceptor) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.navigator = i
	return nil
}

// SetPromptInterceptor implements port.ContentView.
func (v *View) SetPromptInterceptor(i port.PromptInterceptor) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.prompter = i
	return nil
}

// OnLoadFinished implements port.ContentView.
func (v *View) OnLoadFinished(fn port.LoadFinishedFunc) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onLoad = append(v.onLoad, fn)
}

// LoadPage replaces the page with source loaded from url, runs it and then
// the load-finished hooks, in registration order.
func (v *View) LoadPage(ctx context.Context, url, source string) error {
	log := v.log.With().Str("url", url).Logger()

	vm, err := v.newPage(url)
	if err != nil {
		return err
	}
	if _, err := v.run(ctx, vm, url, source); err != nil {
		log.Error().Err(err).Msg("page script failed")
		return fmt.Errorf("load %s: %w", url, err)
	}

	v.mu.Lock()
	hooks := append([]port.LoadFinishedFunc(nil), v.onLoad...)
	v.mu.Unlock()

	for _, hook := range hooks {
		if err := hook(ctx, url); err != nil {
			return fmt.Errorf("load finished %s: %w", url, err)
		}
	}
	log.Debug().Int("hooks", len(hooks)).Msg("page loaded")
	return nil
}

// EvaluateScript implements port.ContentView.
func (v *View) EvaluateScript(ctx context.Context, script string) error {
	_, err := v.Evaluate(ctx, script)
	return err
}

// Evaluate runs script in the current page and returns its exported value.
func (v *View) Evaluate(ctx context.Context, script string) (any, error) {
	v.mu.Lock()
	vm := v.vm
	v.mu.Unlock()
	if vm == nil {
		return nil, errors.New("no page loaded")
	}

	val, err := v.run(ctx, vm, "<eval>", script)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	return val.Export(), nil
}

// Location returns the page URL.
func (v *View) Location() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.location
}

// Navigations lists navigations that were not claimed by the host.
func (v *View) Navigations() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.navigations...)
}

// Console returns the lines written with console.log.
func (v *View) Console() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.console...)
}

func (v *View) newPage(url string) (*sobek.Runtime, error) {
	v.runMu.Lock()
	defer v.runMu.Unlock()

	vm := sobek.New()
	global := vm.GlobalObject()
	if err := global.Set("window", global); err != nil {
		return nil, err
	}
	if err := global.DefineAccessorProperty("location",
		vm.ToValue(func(sobek.FunctionCall) sobek.Value { return vm.ToValue(v.Location()) }),
		vm.ToValue(func(call sobek.FunctionCall) sobek.Value {
			v.navigate(vm, call.Argument(0).String())
			return sobek.Undefined()
		}),
		sobek.FLAG_FALSE, sobek.FLAG_TRUE); err != nil {
		return nil, fmt.Errorf("define location: %w", err)
	}
	if err := vm.Set("prompt", func(call sobek.FunctionCall) sobek.Value {
		return v.prompt(vm, call)
	}); err != nil {
		return nil, err
	}

	console := vm.NewObject()
	if err := console.Set("log", func(call sobek.FunctionCall) sobek.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		line := strings.Join(parts, " ")
		v.mu.Lock()
		v.console = append(v.console, line)
		v.mu.Unlock()
		v.log.Debug().Str("console", line).Msg("page log")
		return sobek.Undefined()
	}); err != nil {
		return nil, err
	}
	if err := vm.Set("console", console); err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, name := range v.bindOrder {
		if err := v.installBinding(vm, name, v.bindings[name]); err != nil {
			return nil, err
		}
	}
	v.vm = vm
	v.location = url
	v.fatal = nil
	return vm, nil
}

// installBinding exposes binding as a page global with one function per
// method. Arguments are converted to strings as the native side only
// accepts string parameters.
func (v *View) installBinding(vm *sobek.Runtime, name string, binding port.NativeBinding) error {
	obj := vm.NewObject()
	for _, m := range binding.Methods() {
		method := m.Name
		err := obj.Set(method, func(call sobek.FunctionCall) sobek.Value {
			args := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				args[i] = arg.String()
			}
			res, err := binding.Invoke(v.context(), method, args)
			if err != nil {
				panic(vm.NewGoError(err))
			}
			if res.Result == nil {
				return sobek.Null()
			}
			return vm.ToValue(*res.Result)
		})
		if err != nil {
			return fmt.Errorf("bind %s.%s: %w", name, method, err)
		}
	}
	return vm.Set(name, obj)
}

func (v *View) navigate(vm *sobek.Runtime, target string) {
	v.mu.Lock()
	navigator := v.navigator
	v.mu.Unlock()

	if navigator != nil {
		claimed, err := navigator.InterceptNavigation(v.context(), target)
		if err != nil {
			v.abort(vm, err)
			return
		}
		if claimed {
			return
		}
	}

	v.mu.Lock()
	v.navigations = append(v.navigations, target)
	v.location = target
	v.mu.Unlock()
	v.log.Debug().Str("target", target).Msg("navigation")
}

func (v *View) prompt(vm *sobek.Runtime, call sobek.FunctionCall) sobek.Value {
	message, defaultValue := "", ""
	if arg := call.Argument(0); !sobek.IsUndefined(arg) {
		message = arg.String()
	}
	if arg := call.Argument(1); !sobek.IsUndefined(arg) {
		defaultValue = arg.String()
	}

	v.mu.Lock()
	prompter, responder := v.prompter, v.responder
	v.mu.Unlock()

	if prompter != nil {
		response, claimed, err := prompter.InterceptPrompt(v.context(), message, defaultValue)
		if err != nil {
			v.abort(vm, err)
			return sobek.Null()
		}
		if claimed {
			return vm.ToValue(response)
		}
	}

	if responder != nil {
		if response, ok := responder(message, defaultValue); ok {
			return vm.ToValue(response)
		}
	}
	return sobek.Null()
}

// abort stops the running script with a host error. The error is returned by
// the LoadPage or Evaluate call that ran the script.
func (v *View) abort(vm *sobek.Runtime, err error) {
	v.mu.Lock()
	if v.fatal == nil {
		v.fatal = err
	}
	v.mu.Unlock()
	v.log.Error().Err(err).Msg("host error, aborting script")
	vm.Interrupt(err)
}

func (v *View) context() context.Context {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.opCtx == nil {
		return context.Background()
	}
	return v.opCtx
}

// run executes src on vm. Cancelling ctx interrupts the script.
func (v *View) run(ctx context.Context, vm *sobek.Runtime, name, src string) (sobek.Value, error) {
	v.runMu.Lock()
	defer v.runMu.Unlock()

	v.mu.Lock()
	v.opCtx = ctx
	v.mu.Unlock()

	stop := make(chan struct{})
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-stop:
		}
	}()

	val, err := vm.RunScript(name, src)
	close(stop)
	<-watcherDone
	vm.ClearInterrupt()

	v.mu.Lock()
	fatal := v.fatal
	v.fatal = nil
	v.opCtx = nil
	v.mu.Unlock()

	if fatal != nil {
		return nil, fatal
	}
	if err == nil {
		return val, nil
	}

	var interrupted *sobek.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			return nil, cause
		}
	}
	var exception *sobek.Exception
	if errors.As(err, &exception) {
		return nil, fmt.Errorf("uncaught exception: %s", exception.Value().String())
	}
	return nil, err
}
