package bridge_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/jsbridge/internal/bridge"
	"github.com/bnema/jsbridge/internal/domain/entity"
)

var proxyMethods = []entity.MethodDescriptor{
	{Name: "greet", Arity: 1},
	{Name: "logEvent", Arity: 1, Void: true},
}

func TestGenerateProxy_Navigation(t *testing.T) {
	script, err := bridge.GenerateProxy("Android", proxyMethods, bridge.ProxyOptions{
		Transport: entity.TransportNavigation,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(script, "var Android = (function(global) {"))
	assert.Contains(t, script, `global.location = "http://gbjsfix/" + encodeURIComponent(JSON.stringify(data));`)
	assert.Contains(t, script, `Android.greet = function() { return Android.__invoke("greet", arguments); };`)
	assert.Contains(t, script, `Android.logEvent = function() { return Android.__invoke("logEvent", arguments); };`)
	assert.NotContains(t, script, "prompt(")
}

func TestGenerateProxy_Prompt(t *testing.T) {
	script, err := bridge.GenerateProxy("Android", proxyMethods, bridge.ProxyOptions{
		Transport:       entity.TransportPrompt,
		SignaturePrefix: "jsbridge:",
	})
	require.NoError(t, err)

	assert.Contains(t, script, `global.prompt("jsbridge:" + JSON.stringify(data))`)
	assert.Contains(t, script, "JSON.parse(reply).result")
	assert.NotContains(t, script, "global.location")
}

func TestGenerateProxy_CustomReservedURL(t *testing.T) {
	script, err := bridge.GenerateProxy("B", nil, bridge.ProxyOptions{
		Transport:   entity.TransportNavigation,
		ReservedURL: "jsbridge://call/",
	})
	require.NoError(t, err)
	assert.Contains(t, script, `"jsbridge://call/"`)
	assert.NotContains(t, script, "B.__invoke(\"")
}

func TestGenerateProxy_Errors(t *testing.T) {
	_, err := bridge.GenerateProxy("Android", proxyMethods, bridge.ProxyOptions{Transport: entity.TransportPrompt})
	assert.ErrorIs(t, err, entity.ErrConfiguration)

	_, err = bridge.GenerateProxy("not valid", proxyMethods, bridge.ProxyOptions{})
	assert.ErrorIs(t, err, entity.ErrConfiguration)

	_, err = bridge.GenerateProxy("Android", []entity.MethodDescriptor{{Name: "__invoke"}}, bridge.ProxyOptions{})
	assert.ErrorIs(t, err, entity.ErrConfiguration)
}

func TestInitScript(t *testing.T) {
	script, err := bridge.InitScript("")
	require.NoError(t, err)
	assert.Equal(t, `if (typeof android_init === "function") { android_init(); }`, script)

	script, err = bridge.InitScript("onBridgeReady")
	require.NoError(t, err)
	assert.Contains(t, script, "onBridgeReady();")

	_, err = bridge.InitScript("alert('x')")
	assert.ErrorIs(t, err, entity.ErrConfiguration)
}
