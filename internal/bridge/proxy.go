package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/jsbridge/internal/domain/entity"
)

const (
	// DefaultReservedURL is the navigation prefix claimed by the host.
	DefaultReservedURL = "http://gbjsfix/"
	// DefaultInitFunction is the page entry point called once the bridge is ready.
	DefaultInitFunction = "android_init"
)

// proxyHeaderScript declares the exposed object and its private helper.
// %[1]s is the exposed name, %[2]s the helper name, %[3]s the transport send body.
const proxyHeaderScript = `var %[1]s = (function(global) {
  var bridge = {};
  bridge.%[2]s = function(name, xargs) {
    var args = [];
    for (var i = 0; i < xargs.length; i++) {
      args.push(xargs[i].toString());
    }
    var data = { name: name, len: args.length, args: args };
%[3]s
  };
  return bridge;
})(this);
`

// navigationSendScript posts the message by navigating to the reserved URL.
// %[1]s is the reserved URL as a JS string literal.
const navigationSendScript = `    global.location = %[1]s + encodeURIComponent(JSON.stringify(data));
    return undefined;`

// promptSendScript blocks on a modal prompt and returns the reply's result.
// %[1]s is the signature prefix as a JS string literal.
const promptSendScript = `    var reply = global.prompt(%[1]s + JSON.stringify(data));
    if (reply === null || reply === undefined) {
      return null;
    }
    return JSON.parse(reply).result;`

// proxyMethodScript forwards one method through the helper.
const proxyMethodScript = "%[1]s.%[2]s = function() { return %[1]s.%[3]s(%[4]s, arguments); };\n"

// initCallScript calls the page init function once the bridge is ready.
const initCallScript = `if (typeof %[1]s === "function") { %[1]s(); }`

// ProxyOptions selects the transport the generated proxy talks to.
type ProxyOptions struct {
	Transport       entity.TransportKind
	ReservedURL     string
	SignaturePrefix string
}

// GenerateProxy emits the script that defines exposedName in the page with
// one proxy function per method. Each proxy stringifies its arguments, builds
// an invocation message and hands it to the selected transport. Navigation
// proxies return undefined immediately; prompt proxies return the result.
func GenerateProxy(exposedName string, methods []entity.MethodDescriptor, opts ProxyOptions) (string, error) {
	if err := ValidateExposedName(exposedName); err != nil {
		return "", err
	}

	var send string
	switch opts.Transport {
	case entity.TransportNavigation:
		reserved := opts.ReservedURL
		if reserved == "" {
			reserved = DefaultReservedURL
		}
		send = fmt.Sprintf(navigationSendScript, jsString(reserved))
	case entity.TransportPrompt:
		if opts.SignaturePrefix == "" {
			return "", entity.NewBridgeError(entity.OutcomeConfiguration, "", errors.New("prompt transport requires a signature prefix"))
		}
		send = fmt.Sprintf(promptSendScript, jsString(opts.SignaturePrefix))
	default:
		return "", entity.NewBridgeError(entity.OutcomeConfiguration, "", fmt.Errorf("unknown transport %s", opts.Transport))
	}

	var b strings.Builder
	fmt.Fprintf(&b, proxyHeaderScript, exposedName, invokeHelper, send)
	for _, m := range methods {
		if err := ValidateMethodName(m.Name); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, proxyMethodScript, exposedName, m.Name, invokeHelper, jsString(m.Name))
	}
	return b.String(), nil
}

// InitScript returns the script that signals the page's init entry point.
func InitScript(initFunction string) (string, error) {
	if initFunction == "" {
		initFunction = DefaultInitFunction
	}
	if !identifierRe.MatchString(initFunction) {
		return "", entity.NewBridgeError(entity.OutcomeConfiguration, "", fmt.Errorf("init function %q is not a valid identifier", initFunction))
	}
	return fmt.Sprintf(initCallScript, initFunction), nil
}

// jsString renders s as a JavaScript string literal.
func jsString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
