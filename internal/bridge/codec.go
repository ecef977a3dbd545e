package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/jsbridge/internal/domain/entity"
)

// wireInvocation keeps arguments raw so non-string values can be reported
// as argument mismatches instead of decode failures.
type wireInvocation struct {
	Name string            `json:"name"`
	Len  int               `json:"len"`
	Args []json.RawMessage `json:"args"`
}

// EncodeInvocation serializes msg to the wire JSON shape
// {"name": ..., "len": ..., "args": [...]}.
func EncodeInvocation(msg entity.InvocationMessage) (string, error) {
	if msg.Args == nil {
		msg.Args = []string{}
	}
	if msg.Len != len(msg.Args) {
		return "", entity.NewBridgeError(entity.OutcomeDecode, msg.Name,
			fmt.Errorf("len %d does not match %d args", msg.Len, len(msg.Args)))
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal invocation: %w", err)
	}
	return string(data), nil
}

// DecodeInvocation parses a wire payload.
//
// Structural problems (invalid JSON, schema violations, len != len(args))
// are decode errors and return a zero message. Arguments that are not JSON
// strings yield an argument mismatch error together with the decoded message,
// whose Args then hold the raw JSON text of every argument.
func DecodeInvocation(payload string) (entity.InvocationMessage, error) {
	if strings.TrimSpace(payload) == "" {
		return entity.InvocationMessage{}, entity.NewBridgeError(entity.OutcomeDecode, "", errors.New("empty payload"))
	}

	if err := validateInvocationPayload([]byte(payload)); err != nil {
		return entity.InvocationMessage{}, entity.NewBridgeError(entity.OutcomeDecode, "", err)
	}

	var wire wireInvocation
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return entity.InvocationMessage{}, entity.NewBridgeError(entity.OutcomeDecode, "", fmt.Errorf("unmarshal invocation: %w", err))
	}
	if wire.Len != len(wire.Args) {
		return entity.InvocationMessage{}, entity.NewBridgeError(entity.OutcomeDecode, wire.Name,
			fmt.Errorf("len %d does not match %d args", wire.Len, len(wire.Args)))
	}

	msg := entity.InvocationMessage{Name: wire.Name, Len: wire.Len, Args: make([]string, len(wire.Args))}
	var badArgs []string
	for i, raw := range wire.Args {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || !isJSONString(raw) {
			badArgs = append(badArgs, fmt.Sprintf("argument %d is %s", i, jsonKind(raw)))
			msg.Args[i] = string(bytes.TrimSpace(raw))
			continue
		}
		msg.Args[i] = s
	}
	if len(badArgs) > 0 {
		return msg, entity.NewBridgeError(entity.OutcomeArgumentMismatch, msg.Name,
			fmt.Errorf("%s; %s", strings.Join(badArgs, ", "), entity.StringParamsGuidance))
	}
	return msg, nil
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}

func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "empty"
	}
	switch trimmed[0] {
	case '"':
		return "a string"
	case '{':
		return "an object"
	case '[':
		return "an array"
	case 't', 'f':
		return "a boolean"
	case 'n':
		return "null"
	default:
		return "a number"
	}
}

// EncodeResult serializes a reply as {"result": <string-or-null>}.
func EncodeResult(res entity.ResultMessage) (string, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data), nil
}

// DecodeResult parses a reply produced by EncodeResult.
func DecodeResult(payload string) (entity.ResultMessage, error) {
	var res entity.ResultMessage
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return entity.ResultMessage{}, entity.NewBridgeError(entity.OutcomeDecode, "", fmt.Errorf("unmarshal result: %w", err))
	}
	return res, nil
}

// EncodeNavigationURL builds the navigation target carrying msg:
// <reservedURL><percent-encoded JSON>.
func EncodeNavigationURL(reservedURL string, msg entity.InvocationMessage) (string, error) {
	payload, err := EncodeInvocation(msg)
	if err != nil {
		return "", err
	}
	return reservedURL + encodeURIComponent(payload), nil
}

// DecodeNavigationPayload strips reservedURL from rawURL and percent-decodes
// the rest. ok is false when rawURL does not carry the reserved prefix.
func DecodeNavigationPayload(reservedURL, rawURL string) (payload string, ok bool, err error) {
	if reservedURL == "" || !strings.HasPrefix(rawURL, reservedURL) {
		return "", false, nil
	}
	decoded, err := url.PathUnescape(rawURL[len(reservedURL):])
	if err != nil {
		return "", true, entity.NewBridgeError(entity.OutcomeDecode, "", fmt.Errorf("unescape navigation payload: %w", err))
	}
	return decoded, true, nil
}

// encodeURIComponent mirrors the JavaScript function of the same name so
// that host-built URLs match what the proxy emits.
func encodeURIComponent(s string) string {
	const unreserved = "-_.!~*'()"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', strings.IndexByte(unreserved, c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
