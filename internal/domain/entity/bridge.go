package entity

import (
	"fmt"
	"strings"
)

// BridgeMode describes how native methods reach the web context.
// It is decided once when the bridge is attached and never changes.
type BridgeMode int

const (
	// ModeDirect installs the native binding on the content view.
	ModeDirect BridgeMode = iota
	// ModeShimmed routes every call through an injected proxy and a transport.
	ModeShimmed
)

// String returns the configuration spelling of the mode.
func (m BridgeMode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeShimmed:
		return "shimmed"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseBridgeMode parses a configured mode. "auto" and "" return ok=false,
// meaning the mode must be probed from the runtime version.
func ParseBridgeMode(s string) (mode BridgeMode, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeDirect, false, nil
	case "direct":
		return ModeDirect, true, nil
	case "shimmed", "shim":
		return ModeShimmed, true, nil
	default:
		return ModeDirect, false, fmt.Errorf("unknown bridge mode %q (want auto, direct or shimmed)", s)
	}
}

// TransportKind selects the channel used in shimmed mode.
type TransportKind int

const (
	// TransportNavigation is fire-and-forget, carried by an intercepted navigation.
	TransportNavigation TransportKind = iota
	// TransportPrompt is synchronous, carried by an intercepted modal prompt.
	TransportPrompt
)

func (k TransportKind) String() string {
	switch k {
	case TransportNavigation:
		return "navigation"
	case TransportPrompt:
		return "prompt"
	default:
		return fmt.Sprintf("transport(%d)", int(k))
	}
}

// Synchronous reports whether calls on this transport return a result.
func (k TransportKind) Synchronous() bool {
	return k == TransportPrompt
}

// MethodDescriptor describes one callable method of the native surface.
// Arity is -1 for variadic methods.
type MethodDescriptor struct {
	Name  string
	Arity int
	Void  bool
}

// Variadic reports whether the method accepts any number of arguments.
func (d MethodDescriptor) Variadic() bool {
	return d.Arity < 0
}

// Accepts reports whether n arguments fit the method's arity.
func (d MethodDescriptor) Accepts(n int) bool {
	return d.Variadic() || d.Arity == n
}

// InvocationMessage is the wire form of one proxy call.
// Len must equal len(Args).
type InvocationMessage struct {
	Name string   `json:"name"`
	Len  int      `json:"len"`
	Args []string `json:"args"`
}

// NewInvocation builds a message with a consistent Len.
func NewInvocation(name string, args ...string) InvocationMessage {
	if args == nil {
		args = []string{}
	}
	return InvocationMessage{Name: name, Len: len(args), Args: args}
}

// ResultMessage is the reply to a synchronous invocation.
// A nil Result encodes as JSON null.
type ResultMessage struct {
	Result *string `json:"result"`
}

// NewResult wraps a string result.
func NewResult(s string) ResultMessage {
	return ResultMessage{Result: &s}
}

// NullResult is the reply for void methods and ignored failures.
func NullResult() ResultMessage {
	return ResultMessage{}
}
