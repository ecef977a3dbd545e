package bridge

import (
	"context"
	"errors"
	"strings"

	"github.com/bnema/jsbridge/internal/application/port"
	"github.com/bnema/jsbridge/internal/domain/entity"
)

// Transport carries invocation messages from the proxy to the exchange.
type Transport interface {
	Kind() entity.TransportKind
	// Install registers the transport's interceptor on view.
	Install(view port.ContentView) error
}

// NavigationTransport claims navigations to the reserved URL. Calls are
// fire-and-forget: the navigation is cancelled and nothing is returned.
type NavigationTransport struct {
	reservedURL string
	exchange    *Exchange
}

// NewNavigationTransport creates a navigation transport.
func NewNavigationTransport(reservedURL string, exchange *Exchange) *NavigationTransport {
	if reservedURL == "" {
		reservedURL = DefaultReservedURL
	}
	return &NavigationTransport{reservedURL: reservedURL, exchange: exchange}
}

// Kind reports TransportNavigation.
func (t *NavigationTransport) Kind() entity.TransportKind { return entity.TransportNavigation }

// Install registers the transport as the view's navigation interceptor.
func (t *NavigationTransport) Install(view port.ContentView) error {
	return view.SetNavigationInterceptor(t)
}

// InterceptNavigation implements port.NavigationInterceptor. URLs outside the
// reserved prefix are left to the view.
func (t *NavigationTransport) InterceptNavigation(ctx context.Context, rawURL string) (bool, error) {
	payload, ok, err := DecodeNavigationPayload(t.reservedURL, rawURL)
	if !ok {
		return false, nil
	}
	if err != nil {
		return true, t.exchange.reject(ctx, err)
	}
	return true, t.exchange.Post(ctx, payload)
}

// PromptTransport claims modal prompts whose message starts with the
// signature prefix, and answers them with the encoded result.
type PromptTransport struct {
	prefix   string
	exchange *Exchange
}

// NewPromptTransport creates a prompt transport. prefix must not be empty.
func NewPromptTransport(prefix string, exchange *Exchange) (*PromptTransport, error) {
	if prefix == "" {
		return nil, entity.NewBridgeError(entity.OutcomeConfiguration, "", errors.New("prompt transport requires a signature prefix"))
	}
	return &PromptTransport{prefix: prefix, exchange: exchange}, nil
}

// Kind reports TransportPrompt.
func (t *PromptTransport) Kind() entity.TransportKind { return entity.TransportPrompt }

// Install registers the transport as the view's prompt interceptor.
func (t *PromptTransport) Install(view port.ContentView) error {
	return view.SetPromptInterceptor(t)
}

// InterceptPrompt implements port.PromptInterceptor. Prompts without the
// signature prefix are ordinary dialogs and are not claimed.
func (t *PromptTransport) InterceptPrompt(ctx context.Context, message, _ string) (string, bool, error) {
	if message == "" || !strings.HasPrefix(message, t.prefix) {
		return "", false, nil
	}

	res, err := t.exchange.Call(ctx, message[len(t.prefix):])
	if err != nil {
		return "", true, err
	}
	reply, err := EncodeResult(res)
	if err != nil {
		return "", true, err
	}
	return reply, true, nil
}
