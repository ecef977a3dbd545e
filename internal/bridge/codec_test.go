package bridge_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/jsbridge/internal/bridge"
	"github.com/bnema/jsbridge/internal/domain/entity"
)

func TestEncodeInvocation(t *testing.T) {
	payload, err := bridge.EncodeInvocation(entity.NewInvocation("greet", "World"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"greet","len":1,"args":["World"]}`, payload)

	payload, err = bridge.EncodeInvocation(entity.InvocationMessage{Name: "ping"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ping","len":0,"args":[]}`, payload)

	_, err = bridge.EncodeInvocation(entity.InvocationMessage{Name: "bad", Len: 2, Args: []string{"x"}})
	assert.ErrorIs(t, err, entity.ErrDecode)
}

func TestDecodeInvocation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    entity.InvocationMessage
		outcome entity.Outcome
	}{
		{
			name:    "valid",
			payload: `{"name":"greet","len":1,"args":["World"]}`,
			want:    entity.InvocationMessage{Name: "greet", Len: 1, Args: []string{"World"}},
		},
		{
			name:    "no args",
			payload: `{"name":"ping","len":0,"args":[]}`,
			want:    entity.InvocationMessage{Name: "ping", Len: 0, Args: []string{}},
		},
		{
			name:    "unicode and quotes survive",
			payload: `{"name":"say","len":1,"args":["\"héllo\" & 🌍"]}`,
			want:    entity.InvocationMessage{Name: "say", Len: 1, Args: []string{`"héllo" & 🌍`}},
		},
		{name: "empty", payload: "", outcome: entity.OutcomeDecode},
		{name: "not json", payload: "greet(World)", outcome: entity.OutcomeDecode},
		{name: "missing len", payload: `{"name":"greet","args":["a"]}`, outcome: entity.OutcomeDecode},
		{name: "empty name", payload: `{"name":"","len":0,"args":[]}`, outcome: entity.OutcomeDecode},
		{name: "len mismatch", payload: `{"name":"greet","len":2,"args":["a"]}`, outcome: entity.OutcomeDecode},
		{name: "trailing data", payload: `{"name":"a","len":0,"args":[]} {}`, outcome: entity.OutcomeDecode},
		{
			name:    "number argument",
			payload: `{"name":"greet","len":1,"args":[42]}`,
			want:    entity.InvocationMessage{Name: "greet", Len: 1, Args: []string{"42"}},
			outcome: entity.OutcomeArgumentMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bridge.DecodeInvocation(tt.payload)
			assert.Equal(t, tt.outcome, entity.OutcomeOf(err))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResultCodec(t *testing.T) {
	payload, err := bridge.EncodeResult(entity.NewResult("Hello, World"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":"Hello, World"}`, payload)

	payload, err = bridge.EncodeResult(entity.NullResult())
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":null}`, payload)

	res, err := bridge.DecodeResult(`{"result":"ok"}`)
	require.NoError(t, err)
	require.NotNil(t, res.Result)
	assert.Equal(t, "ok", *res.Result)

	_, err = bridge.DecodeResult(`{result}`)
	assert.ErrorIs(t, err, entity.ErrDecode)
}

func TestNavigationURLRoundTrip(t *testing.T) {
	msg := entity.NewInvocation("logEvent", "a b/c?d=e&f+g", "100%")

	u, err := bridge.EncodeNavigationURL(bridge.DefaultReservedURL, msg)
	require.NoError(t, err)
	assert.Equal(t, bridge.DefaultReservedURL, u[:len(bridge.DefaultReservedURL)])
	assert.NotContains(t, u[len(bridge.DefaultReservedURL):], " ")

	payload, ok, err := bridge.DecodeNavigationPayload(bridge.DefaultReservedURL, u)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := bridge.DecodeInvocation(payload)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestDecodeNavigationPayload_NotReserved(t *testing.T) {
	_, ok, err := bridge.DecodeNavigationPayload(bridge.DefaultReservedURL, "https://example.com/page")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = bridge.DecodeNavigationPayload(bridge.DefaultReservedURL, bridge.DefaultReservedURL+"%zz")
	assert.True(t, ok)
	assert.ErrorIs(t, err, entity.ErrDecode)
}

func TestSchema(t *testing.T) {
	data, err := bridge.Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "object", doc["type"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "name")
	assert.Contains(t, props, "len")
	assert.Contains(t, props, "args")
	assert.ElementsMatch(t, []any{"name", "len", "args"}, doc["required"])
}
