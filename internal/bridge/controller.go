package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/jsbridge/internal/application/port"
	"github.com/bnema/jsbridge/internal/domain/entity"
	"github.com/bnema/jsbridge/internal/logging"
)

type attachOptions struct {
	signaturePrefix string
	reservedURL     string
	brokenRange     entity.VersionRange
	mode            *entity.BridgeMode
	initFunction    string
	policy          FailurePolicy
	metrics         *Metrics
	onFailure       FailureHandler
}

// Option configures Attach.
type Option func(*attachOptions)

// WithSignaturePrefix selects the synchronous prompt transport in shimmed
// mode. Without a prefix the navigation transport is used.
func WithSignaturePrefix(prefix string) Option {
	return func(o *attachOptions) { o.signaturePrefix = prefix }
}

// WithReservedURL overrides the navigation prefix claimed by the host.
func WithReservedURL(u string) Option {
	return func(o *attachOptions) { o.reservedURL = u }
}

// WithBrokenRange overrides the runtime versions that need the shim.
func WithBrokenRange(r entity.VersionRange) Option {
	return func(o *attachOptions) { o.brokenRange = r }
}

// WithMode forces a mode instead of probing the runtime version.
func WithMode(m entity.BridgeMode) Option {
	return func(o *attachOptions) { o.mode = &m }
}

// WithInitFunction overrides the page function called when the bridge is ready.
func WithInitFunction(name string) Option {
	return func(o *attachOptions) { o.initFunction = name }
}

// WithFailurePolicy sets how dispatch failures are handled.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(o *attachOptions) { o.policy = p }
}

// WithMetrics records dispatches on m.
func WithMetrics(m *Metrics) Option {
	return func(o *attachOptions) { o.metrics = m }
}

// WithFailureHandler observes failed dispatches, including one-way calls.
func WithFailureHandler(fn FailureHandler) Option {
	return func(o *attachOptions) { o.onFailure = fn }
}

// ProbeMode picks the bridge mode for a runtime version. Versions inside
// broken need the shim; everything else, including unparsable versions,
// uses the direct binding.
func ProbeMode(version string, broken entity.VersionRange) entity.BridgeMode {
	if broken.Contains(version) {
		return entity.ModeShimmed
	}
	return entity.ModeDirect
}

// Controller owns one bridge attached to one content view.
type Controller struct {
	view        port.ContentView
	registry    *Registry
	exposedName string
	mode        entity.BridgeMode
	version     string

	transport  Transport
	exchange   *Exchange
	script     string
	initScript string

	log       zerolog.Logger
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Attach exposes registry to the page under exposedName. The mode is decided
// here, once: direct mode installs the binding on the view, shimmed mode
// installs a transport and injects the generated proxy after every page load.
// In both modes the page init function is called after each load.
// The registry is sealed by Attach.
func Attach(ctx context.Context, view port.ContentView, registry *Registry, exposedName string, opts ...Option) (*Controller, error) {
	if view == nil {
		return nil, entity.NewBridgeError(entity.OutcomeConfiguration, "", errors.New("content view is nil"))
	}
	if registry == nil {
		return nil, entity.NewBridgeError(entity.OutcomeConfiguration, "", errors.New("registry is nil"))
	}
	if err := ValidateExposedName(exposedName); err != nil {
		return nil, err
	}

	o := attachOptions{
		reservedURL:  DefaultReservedURL,
		brokenRange:  entity.DefaultBrokenRange(),
		initFunction: DefaultInitFunction,
		policy:       PolicyFail,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.brokenRange.Validate(); err != nil {
		return nil, entity.NewBridgeError(entity.OutcomeConfiguration, "", err)
	}
	initScript, err := InitScript(o.initFunction)
	if err != nil {
		return nil, err
	}

	ctx = logging.WithBridge(ctx, exposedName)
	registry.Seal()

	c := &Controller{
		view:        view,
		registry:    registry,
		exposedName: exposedName,
		version:     view.RuntimeVersion(),
		initScript:  initScript,
		log:         logging.FromContext(ctx).With().Str("component", "controller").Logger(),
	}
	if o.mode != nil {
		c.mode = *o.mode
	} else {
		c.mode = ProbeMode(c.version, o.brokenRange)
	}

	switch c.mode {
	case entity.ModeDirect:
		if err := view.AddJavascriptInterface(exposedName, registry); err != nil {
			return nil, fmt.Errorf("install native binding: %w", err)
		}
	case entity.ModeShimmed:
		if err := c.attachShim(ctx, o); err != nil {
			return nil, err
		}
	default:
		return nil, entity.NewBridgeError(entity.OutcomeConfiguration, "", fmt.Errorf("unknown mode %s", c.mode))
	}

	view.OnLoadFinished(c.handleLoadFinished)

	event := c.log.Info().
		Str("mode", c.mode.String()).
		Str("runtime_version", c.version).
		Int("methods", registry.Len())
	if c.transport != nil {
		event = event.Str("transport", c.transport.Kind().String())
	}
	event.Msg("bridge attached")
	return c, nil
}

func (c *Controller) attachShim(ctx context.Context, o attachOptions) error {
	kind := entity.TransportNavigation
	if o.signaturePrefix != "" {
		kind = entity.TransportPrompt
	}

	script, err := GenerateProxy(c.exposedName, c.registry.Methods(), ProxyOptions{
		Transport:       kind,
		ReservedURL:     o.reservedURL,
		SignaturePrefix: o.signaturePrefix,
	})
	if err != nil {
		return err
	}

	dispatcher := NewDispatcher(ctx, c.registry, o.metrics)
	exchange := NewExchange(ctx, dispatcher, o.policy, o.onFailure)

	var transport Transport
	if kind == entity.TransportPrompt {
		pt, err := NewPromptTransport(o.signaturePrefix, exchange)
		if err != nil {
			return err
		}
		transport = pt
	} else {
		transport = NewNavigationTransport(o.reservedURL, exchange)
	}
	if err := transport.Install(c.view); err != nil {
		return fmt.Errorf("install %s transport: %w", kind, err)
	}

	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	exchange.Start(workerCtx)

	c.script = script
	c.transport = transport
	c.exchange = exchange
	c.cancel = cancel
	return nil
}

// handleLoadFinished runs after every page load: it injects the proxy in
// shimmed mode, then calls the page init function.
func (c *Controller) handleLoadFinished(ctx context.Context, url string) error {
	log := c.log.With().Str("url", url).Logger()

	if c.mode == entity.ModeShimmed {
		if err := c.view.EvaluateScript(ctx, c.script); err != nil {
			log.Error().Err(err).Msg("failed to inject bridge proxy")
			return fmt.Errorf("inject bridge proxy: %w", err)
		}
		log.Debug().Int("script_len", len(c.script)).Msg("bridge proxy injected")
	}

	if err := c.view.EvaluateScript(ctx, c.initScript); err != nil {
		log.Error().Err(err).Msg("page init failed")
		return fmt.Errorf("page init: %w", err)
	}
	return nil
}

// Mode returns the mode decided at attach time.
func (c *Controller) Mode() entity.BridgeMode { return c.mode }

// RuntimeVersion returns the version reported by the view at attach time.
func (c *Controller) RuntimeVersion() string { return c.version }

// Transport returns the shim transport, or nil in direct mode.
func (c *Controller) Transport() Transport { return c.transport }

// ProxyScript returns the injected proxy; empty in direct mode.
func (c *Controller) ProxyScript() string { return c.script }

// Err reports the first escalated failure, or entity.ErrBridgeClosed once
// the shim is closed. Always nil in direct mode.
func (c *Controller) Err() error {
	if c.exchange == nil {
		return nil
	}
	return c.exchange.Err()
}

// Close stops the shim worker. Calls arriving afterwards fail with
// entity.ErrBridgeClosed.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() {
		if c.exchange != nil {
			_ = c.exchange.Close()
		}
		if c.cancel != nil {
			c.cancel()
		}
		c.log.Debug().Msg("bridge closed")
	})
	return nil
}
