package port

import (
	"context"

	"github.com/bnema/jsbridge/internal/domain/entity"
)

// ContentView defines the port interface for the embedded web content the
// bridge attaches to. This abstracts the engine (sobek, webview, WebKit).
type ContentView interface {
	// RuntimeVersion reports the engine version used to decide the bridge mode.
	RuntimeVersion() string

	// AddJavascriptInterface installs the native binding under name.
	// Only used in direct mode.
	AddJavascriptInterface(name string, binding NativeBinding) error

	// EvaluateScript runs script in the page's main context.
	EvaluateScript(ctx context.Context, script string) error

	// SetNavigationInterceptor routes navigation attempts through i first.
	SetNavigationInterceptor(i NavigationInterceptor) error

	// SetPromptInterceptor routes modal prompt requests through i first.
	SetPromptInterceptor(i PromptInterceptor) error

	// OnLoadFinished registers fn to run after every page load completes.
	OnLoadFinished(fn LoadFinishedFunc)
}

// LoadFinishedFunc is called once per completed page load.
type LoadFinishedFunc func(ctx context.Context, url string) error

// NativeBinding is a native method surface callable from the page.
type NativeBinding interface {
	// Methods lists the callable methods in declaration order.
	Methods() []entity.MethodDescriptor

	// Invoke calls the named method with positional string arguments.
	Invoke(ctx context.Context, name string, args []string) (entity.ResultMessage, error)
}

// NavigationInterceptor decides whether a navigation is consumed by the host.
// When claimed is false the view must continue with its default handling.
type NavigationInterceptor interface {
	InterceptNavigation(ctx context.Context, url string) (claimed bool, err error)
}

// PromptInterceptor decides whether a modal prompt is consumed by the host.
// When claimed is true, response is the prompt's confirmed text.
type PromptInterceptor interface {
	InterceptPrompt(ctx context.Context, message, defaultValue string) (response string, claimed bool, err error)
}

// PageHost is a content view that can load pages itself, such as the
// headless engine used by the CLI and in tests.
type PageHost interface {
	ContentView

	// LoadPage replaces the current page with source served from url and
	// runs the load-finished hooks.
	LoadPage(ctx context.Context, url, source string) error
}
