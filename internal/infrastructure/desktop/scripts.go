// Package desktop adapts a native webview window (webview_go) to the
// bridge content view port. The window is only built with the webview
// build tag; the page scripts below are shared and engine independent.
package desktop

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/jsbridge/internal/domain/entity"
)

// ErrInterceptUnsupported is returned by the interceptor setters. A webview
// window only supports the direct binding.
var ErrInterceptUnsupported = errors.New("webview does not support navigation or prompt interception")

// DefaultRuntimeVersion is reported to the mode probe. It never parses as a
// version, so the probe always picks direct mode.
const DefaultRuntimeVersion = "webview"

const loadedBinding = "__jsbridge_loaded"

// objectHeaderScript assembles the exposed object from the bound globals.
// %[1]s is the exposed name as a JS string literal.
const objectHeaderScript = `(function(global) {
  var obj = global[%[1]s] || {};
  var call = function(fn, xargs) {
    var args = [];
    for (var i = 0; i < xargs.length; i++) {
      args.push(String(xargs[i]));
    }
    return global[fn].apply(global, args);
  };
`

const objectMethodScript = "  obj[%[1]s] = function() { return call(%[2]s, arguments); };\n"

const objectFooterScript = `  global[%[1]s] = obj;
})(this);
`

// loadScript reports every finished load to the host.
const loadScript = `window.addEventListener("load", function() { window[%[1]s](String(window.location.href)); });`

// bindingName is the global webview binds for one method of one object.
func bindingName(exposedName, method string) string {
	return "__jsbridge_" + exposedName + "_" + method
}

// objectScript defines exposedName with one function per method. Each
// function stringifies its arguments and calls the bound global, so calls
// return promises resolving to the method result.
func objectScript(exposedName string, methods []entity.MethodDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, objectHeaderScript, jsString(exposedName))
	for _, m := range methods {
		fmt.Fprintf(&b, objectMethodScript, jsString(m.Name), jsString(bindingName(exposedName, m.Name)))
	}
	fmt.Fprintf(&b, objectFooterScript, jsString(exposedName))
	return b.String()
}

func loadNotifyScript() string {
	return fmt.Sprintf(loadScript, jsString(loadedBinding))
}

func jsString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
