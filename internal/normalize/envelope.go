// Package normalize turns the backend's inconsistently nested payloads into one canonical shape.
//
// Every resource may arrive either flat, {"shifts": [...]}, or nested one level under
// "data", {"code": 200, "data": {"shifts": [...]}}. The flat shape is tried first; anything
// else is a MalformedResponse and nothing partial is returned.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SuccessCode is the envelope code the backend uses for a successful result.
const SuccessCode = 200

var (
	// ErrMalformedResponse means the payload matched neither accepted envelope shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrPushFrame means a push frame was undecodable or carried a non-success code.
	ErrPushFrame = errors.New("push frame rejected")
)

// Envelope is the backend's result wrapper.
type Envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Collection extracts the array stored under field.
func Collection[T any](payload []byte, field string) ([]T, error) {
	raw, err := locate(payload, field, '[')
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, field, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Object extracts the single object stored under field.
func Object[T any](payload []byte, field string) (T, error) {
	var out T
	raw, err := locate(payload, field, '{')
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, field, err)
	}
	return out, nil
}

// PushCollection decodes one push frame: the envelope code must be SuccessCode and the
// data must hold the full replacement collection under field.
func PushCollection[T any](frame []byte, field string) ([]T, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPushFrame, err)
	}
	if env.Code != SuccessCode {
		msg := env.Msg
		if msg == "" {
			msg = "no message"
		}
		return nil, fmt.Errorf("%w: code %d: %s", ErrPushFrame, env.Code, msg)
	}
	if kind(env.Data) != '{' {
		return nil, fmt.Errorf("%w: missing data", ErrPushFrame)
	}
	items, err := Collection[T](env.Data, field)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPushFrame, err)
	}
	return items, nil
}

// locate returns the raw JSON under field at the top level or under "data",
// requiring it to start with want ('[' or '{').
func locate(payload []byte, field string, want byte) (json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw, ok := top[field]; ok && kind(raw) == want {
		return raw, nil
	}

	if data, ok := top["data"]; ok && kind(data) == '{' {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(data, &nested); err == nil {
			if raw, ok := nested[field]; ok && kind(raw) == want {
				return raw, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no %q in payload or payload.data", ErrMalformedResponse, field)
}

// kind returns the first significant byte of a JSON value.
func kind(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
