package bridge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/jsbridge/internal/domain/entity"
	"github.com/bnema/jsbridge/internal/logging"
)

// FailurePolicy decides what the host does with a failed dispatch.
type FailurePolicy int

const (
	// PolicyFail escalates every failure to the host (the default).
	PolicyFail FailurePolicy = iota
	// PolicyIgnore logs failures and answers synchronous callers with null.
	PolicyIgnore
)

func (p FailurePolicy) String() string {
	switch p {
	case PolicyFail:
		return "fail"
	case PolicyIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseFailurePolicy parses "fail" or "ignore".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail", "fatal":
		return PolicyFail, nil
	case "ignore", "log":
		return PolicyIgnore, nil
	default:
		return PolicyFail, fmt.Errorf("unknown failure policy %q (want fail or ignore)", s)
	}
}

// Outcome is the tagged result of one dispatch.
type Outcome struct {
	Kind    entity.Outcome
	Message entity.InvocationMessage
	Result  entity.ResultMessage
	Err     error
	Elapsed time.Duration
}

// OK reports whether the method ran and returned normally.
func (o Outcome) OK() bool {
	return o.Kind == entity.OutcomeOK
}

// Dispatcher decodes invocation payloads and runs them against a registry.
type Dispatcher struct {
	registry *Registry
	metrics  *Metrics
	log      zerolog.Logger
}

// NewDispatcher creates a dispatcher over registry. metrics may be nil.
func NewDispatcher(ctx context.Context, registry *Registry, metrics *Metrics) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		metrics:  metrics,
		log:      logging.FromContext(ctx).With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch decodes payload, resolves the method by name and invokes it.
// It never panics: every failure is reported in the returned Outcome.
// An unknown method name is reported before any argument checks and no
// method is invoked.
func (d *Dispatcher) Dispatch(ctx context.Context, payload string) Outcome {
	start := time.Now()
	out := d.dispatch(ctx, payload)
	out.Elapsed = time.Since(start)

	label := out.Message.Name
	if out.Kind == entity.OutcomeConfiguration || out.Kind == entity.OutcomeDecode {
		label = unknownMethodLabel
	}
	d.metrics.observe(label, out.Kind, out.Elapsed)

	if out.OK() {
		d.log.Debug().
			Str("method", out.Message.Name).
			Int("args", out.Message.Len).
			Dur("elapsed", out.Elapsed).
			Msg("bridge call dispatched")
	} else {
		d.log.Error().
			Err(out.Err).
			Str("method", out.Message.Name).
			Str("outcome", out.Kind.String()).
			Int("payload_len", len(payload)).
			Msg("bridge call failed")
	}
	return out
}

func (d *Dispatcher) dispatch(ctx context.Context, payload string) Outcome {
	msg, decodeErr := DecodeInvocation(payload)
	if entity.OutcomeOf(decodeErr) == entity.OutcomeDecode {
		return Outcome{Kind: entity.OutcomeDecode, Message: msg, Err: decodeErr}
	}

	if _, ok := d.registry.Lookup(msg.Name); !ok {
		return Outcome{
			Kind:    entity.OutcomeConfiguration,
			Message: msg,
			Err: entity.NewBridgeError(entity.OutcomeConfiguration, msg.Name,
				fmt.Errorf("could not find method %q on the native surface", msg.Name)),
		}
	}

	if decodeErr != nil {
		return Outcome{Kind: entity.OutcomeOf(decodeErr), Message: msg, Err: decodeErr}
	}

	res, err := d.registry.Invoke(ctx, msg.Name, msg.Args)
	if err != nil {
		return Outcome{Kind: entity.OutcomeOf(err), Message: msg, Err: err}
	}
	return Outcome{Kind: entity.OutcomeOK, Message: msg, Result: res}
}
