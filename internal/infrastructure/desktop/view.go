//go:build webview

package desktop

import (
	"context"
	"fmt"
	"sync"

	webview "github.com/webview/webview_go"

	"github.com/bnema/jsbridge/internal/application/port"
	"github.com/bnema/jsbridge/internal/logging"
)

// Window size defaults.
const (
	DefaultWidth  = 1040
	DefaultHeight = 768
)

// Options configures a window.
type Options struct {
	Title          string
	Width, Height  int
	Debug          bool
	RuntimeVersion string
}

// View is a native webview window. Run must be called from the main
// goroutine; every other method may be called from any goroutine once the
// window exists.
type View struct {
	w       webview.WebView
	version string
	ctx     context.Context

	mu     sync.Mutex
	onLoad []port.LoadFinishedFunc
}

var _ port.ContentView = (*View)(nil)

// New creates the window. It must be called on the main goroutine.
func New(ctx context.Context, opts Options) (*View, error) {
	if opts.Width == 0 || opts.Height == 0 {
		opts.Width, opts.Height = DefaultWidth, DefaultHeight
	}
	if opts.RuntimeVersion == "" {
		opts.RuntimeVersion = DefaultRuntimeVersion
	}

	w := webview.New(opts.Debug)
	if w == nil {
		return nil, fmt.Errorf("create webview window")
	}
	w.SetTitle(opts.Title)
	w.SetSize(opts.Width, opts.Height, webview.HintNone)

	v := &View{
		w:       w,
		version: opts.RuntimeVersion,
		ctx:     logging.WithComponent(ctx, "webview"),
	}
	if err := w.Bind(loadedBinding, v.loadFinished); err != nil {
		w.Destroy()
		return nil, fmt.Errorf("bind load hook: %w", err)
	}
	w.Init(loadNotifyScript())
	return v, nil
}

func (v *View) RuntimeVersion() string {
	return v.version
}

// AddJavascriptInterface binds every method of binding and defines name in
// each page before its scripts run. Errors returned by a method reject the
// promise returned to the page.
func (v *View) AddJavascriptInterface(name string, binding port.NativeBinding) error {
	methods := binding.Methods()
	for _, m := range methods {
		method := m.Name
		err := v.w.Bind(bindingName(name, method), func(args ...string) (any, error) {
			res, err := binding.Invoke(v.ctx, method, args)
			if err != nil {
				return nil, err
			}
			if res.Result == nil {
				return nil, nil
			}
			return *res.Result, nil
		})
		if err != nil {
			return fmt.Errorf("bind %s.%s: %w", name, method, err)
		}
	}
	v.w.Init(objectScript(name, methods))
	return nil
}

// EvaluateScript queues script on the UI thread and returns immediately.
func (v *View) EvaluateScript(_ context.Context, script string) error {
	v.w.Dispatch(func() { v.w.Eval(script) })
	return nil
}

func (v *View) SetNavigationInterceptor(port.NavigationInterceptor) error {
	return ErrInterceptUnsupported
}

func (v *View) SetPromptInterceptor(port.PromptInterceptor) error {
	return ErrInterceptUnsupported
}

func (v *View) OnLoadFinished(fn port.LoadFinishedFunc) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onLoad = append(v.onLoad, fn)
}

func (v *View) loadFinished(url string) {
	v.mu.Lock()
	hooks := append([]port.LoadFinishedFunc(nil), v.onLoad...)
	v.mu.Unlock()

	ctx := logging.WithURL(v.ctx, url)
	log := logging.FromContext(ctx)
	for _, fn := range hooks {
		if err := fn(ctx, url); err != nil {
			log.Error().Err(err).Msg("load finished hook failed")
		}
	}
}

// Navigate loads url in the window.
func (v *View) Navigate(url string) {
	v.w.Navigate(url)
}

// SetHTML replaces the page with html.
func (v *View) SetHTML(html string) {
	v.w.SetHtml(html)
}

// Run blocks running the UI loop until the window is closed or Terminate
// is called.
func (v *View) Run() {
	v.w.Run()
}

// Terminate stops the UI loop. Safe to call from any goroutine.
func (v *View) Terminate() {
	v.w.Dispatch(v.w.Terminate)
}

// Destroy releases the window.
func (v *View) Destroy() {
	v.w.Destroy()
}
