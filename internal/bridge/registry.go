// Package bridge implements the web-to-native call bridge: the method
// registry, the wire codec, the proxy script generator, the dispatcher, the
// shimmed transports and the controller that wires them to a content view.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/bnema/jsbridge/internal/domain/entity"
)

// invokeHelper is the private proxy helper; no method may use this name.
const invokeHelper = "__invoke"

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// reservedWords cannot be used as the exposed object name.
var reservedWords = map[string]struct{}{
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {}, "continue": {},
	"debugger": {}, "default": {}, "delete": {}, "do": {}, "else": {}, "enum": {},
	"export": {}, "extends": {}, "false": {}, "finally": {}, "for": {}, "function": {},
	"if": {}, "import": {}, "in": {}, "instanceof": {}, "let": {}, "new": {}, "null": {},
	"return": {}, "super": {}, "switch": {}, "this": {}, "throw": {}, "true": {},
	"try": {}, "typeof": {}, "var": {}, "void": {}, "while": {}, "with": {}, "yield": {},
	"window": {}, "undefined": {},
}

// HandlerFunc is a typed invocation thunk. A nil result means void/null.
type HandlerFunc func(ctx context.Context, args []string) (*string, error)

// Method is a registered callable. Build one with the Fn*, Proc* or Raw helpers.
type Method struct {
	arity int
	void  bool
	call  HandlerFunc
}

// Fn0 wraps a method with no arguments returning a string.
func Fn0(fn func() (string, error)) Method {
	return Method{arity: 0, call: func(_ context.Context, _ []string) (*string, error) {
		return stringResult(fn())
	}}
}

// Fn1 wraps a one-argument method returning a string.
func Fn1(fn func(string) (string, error)) Method {
	return Method{arity: 1, call: func(_ context.Context, args []string) (*string, error) {
		return stringResult(fn(args[0]))
	}}
}

// Fn2 wraps a two-argument method returning a string.
func Fn2(fn func(a, b string) (string, error)) Method {
	return Method{arity: 2, call: func(_ context.Context, args []string) (*string, error) {
		return stringResult(fn(args[0], args[1]))
	}}
}

// FnN wraps a variadic method returning a string.
func FnN(fn func(args ...string) (string, error)) Method {
	return Method{arity: -1, call: func(_ context.Context, args []string) (*string, error) {
		return stringResult(fn(args...))
	}}
}

// Proc0 wraps a void method with no arguments.
func Proc0(fn func() error) Method {
	return Method{arity: 0, void: true, call: func(_ context.Context, _ []string) (*string, error) {
		return nil, fn()
	}}
}

// Proc1 wraps a void one-argument method.
func Proc1(fn func(string) error) Method {
	return Method{arity: 1, void: true, call: func(_ context.Context, args []string) (*string, error) {
		return nil, fn(args[0])
	}}
}

// Proc2 wraps a void two-argument method.
func Proc2(fn func(a, b string) error) Method {
	return Method{arity: 2, void: true, call: func(_ context.Context, args []string) (*string, error) {
		return nil, fn(args[0], args[1])
	}}
}

// ProcN wraps a void variadic method.
func ProcN(fn func(args ...string) error) Method {
	return Method{arity: -1, void: true, call: func(_ context.Context, args []string) (*string, error) {
		return nil, fn(args...)
	}}
}

// Raw wraps a context-aware thunk. arity -1 means variadic.
func Raw(arity int, void bool, fn HandlerFunc) Method {
	return Method{arity: arity, void: void, call: fn}
}

func stringResult(s string, err error) (*string, error) {
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type registeredMethod struct {
	desc   entity.MethodDescriptor
	method Method
}

// Registry is the native method surface exposed to the page: an explicit
// table from method name to thunk, in declaration order.
// It implements port.NativeBinding.
type Registry struct {
	mu      sync.RWMutex
	methods []registeredMethod
	index   map[string]int
	sealed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a method. Invalid, reserved and duplicate names are
// configuration errors; on a duplicate the first registration is kept.
func (r *Registry) Register(name string, m Method) error {
	if err := ValidateMethodName(name); err != nil {
		return err
	}
	if m.call == nil {
		return entity.NewBridgeError(entity.OutcomeConfiguration, name, errors.New("method has no implementation"))
	}
	if m.arity < -1 {
		return entity.NewBridgeError(entity.OutcomeConfiguration, name, fmt.Errorf("invalid arity %d", m.arity))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return entity.NewBridgeError(entity.OutcomeConfiguration, name, errors.New("registry is sealed: the bridge is already attached"))
	}
	if _, exists := r.index[name]; exists {
		return entity.NewBridgeError(entity.OutcomeConfiguration, name, errors.New("duplicate method name, first registration kept"))
	}

	r.index[name] = len(r.methods)
	r.methods = append(r.methods, registeredMethod{
		desc:   entity.MethodDescriptor{Name: name, Arity: m.arity, Void: m.void},
		method: m,
	})
	return nil
}

// MustRegister is Register for static setup code; it panics on error.
func (r *Registry) MustRegister(name string, m Method) *Registry {
	if err := r.Register(name, m); err != nil {
		panic(err)
	}
	return r
}

// Seal freezes the method surface. Further registrations fail.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Len returns the number of registered methods.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.methods)
}

// Methods lists the registered methods in declaration order.
func (r *Registry) Methods() []entity.MethodDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.MethodDescriptor, len(r.methods))
	for i, m := range r.methods {
		out[i] = m.desc
	}
	return out
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (entity.MethodDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return entity.MethodDescriptor{}, false
	}
	return r.methods[i].desc, true
}

// Invoke calls the named method positionally. Errors are tagged:
// unknown name is a configuration error, a wrong argument count an argument
// mismatch, and a failing or panicking method an invocation error.
func (r *Registry) Invoke(ctx context.Context, name string, args []string) (entity.ResultMessage, error) {
	r.mu.RLock()
	i, ok := r.index[name]
	var rm registeredMethod
	if ok {
		rm = r.methods[i]
	}
	r.mu.RUnlock()

	if !ok {
		return entity.NullResult(), entity.NewBridgeError(entity.OutcomeConfiguration, name,
			errors.New("no such method on the native surface"))
	}
	if !rm.desc.Accepts(len(args)) {
		return entity.NullResult(), entity.NewBridgeError(entity.OutcomeArgumentMismatch, name,
			fmt.Errorf("got %d arguments, method takes %d; %s", len(args), rm.desc.Arity, entity.StringParamsGuidance))
	}

	res, err := callRecovered(ctx, rm.method.call, args)
	if err != nil {
		return entity.NullResult(), entity.NewBridgeError(entity.OutcomeInvocation, name, err)
	}
	if rm.desc.Void || res == nil {
		return entity.NullResult(), nil
	}
	return entity.NewResult(*res), nil
}

func callRecovered(ctx context.Context, fn HandlerFunc, args []string) (res *string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("method panicked: %v", p)
		}
	}()
	return fn(ctx, args)
}

// ValidateMethodName checks that name can be used as a proxy property.
func ValidateMethodName(name string) error {
	if !identifierRe.MatchString(name) {
		return entity.NewBridgeError(entity.OutcomeConfiguration, name, errors.New("method name is not a valid identifier"))
	}
	if name == invokeHelper {
		return entity.NewBridgeError(entity.OutcomeConfiguration, name, errors.New("method name is reserved by the proxy"))
	}
	return nil
}

// ValidateExposedName checks that name can be declared as a page global.
func ValidateExposedName(name string) error {
	if !identifierRe.MatchString(name) {
		return entity.NewBridgeError(entity.OutcomeConfiguration, "", fmt.Errorf("exposed name %q is not a valid identifier", name))
	}
	if _, reserved := reservedWords[name]; reserved {
		return entity.NewBridgeError(entity.OutcomeConfiguration, "", fmt.Errorf("exposed name %q is a reserved word", name))
	}
	return nil
}
