// Package protocol defines the RifsRedis wire protocol.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Action is the operation requested by a client.
type Action string

const (
	ActionSet Action = "SET"
	ActionGet Action = "GET"
)

// ErrUnknownAction is returned by Action.Validate for anything other than SET or GET.
var ErrUnknownAction = errors.New("protocol: unknown action")

// ErrInvalidUTF8 rejects keys and values that JSON cannot carry unchanged.
var ErrInvalidUTF8 = errors.New("protocol: key or value is not valid UTF-8")

// Validate reports whether the action is one the server understands.
func (a Action) Validate() error {
	switch a {
	case ActionSet, ActionGet:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, string(a))
	}
}

// Request is sent by a client.
// Value is empty and ignored for GET.
type Request struct {
	Action        Action `json:"action"`
	Key           string `json:"key"`
	Value         string `json:"value"`
	CorrelationID string `json:"correlationId"`
}

// Response is sent by the server, exactly one per decoded request.
//
// Response is nil when the server has nothing to return (GET of a missing
// key, unknown action) and is encoded as JSON null. Error is set only on
// failures that are not about the key itself and is omitted otherwise.
type Response struct {
	Action        Action  `json:"action"`
	Response      *string `json:"response"`
	Success       bool    `json:"success"`
	CorrelationID string  `json:"correlationId"`
	Error         string  `json:"error,omitempty"`
}

// Error codes carried in Response.Error.
const (
	ErrCodeRateLimited = "rate_limited"
)

// Value returns the response payload, or "" when it is null.
func (r *Response) Value() string {
	if r.Response == nil {
		return ""
	}
	return *r.Response
}

// NewSetRequest builds a SET request with a fresh correlation id.
// Key and value must be valid UTF-8.
func NewSetRequest(key, value string) (*Request, error) {
	if !utf8.ValidString(key) || !utf8.ValidString(value) {
		return nil, ErrInvalidUTF8
	}
	id, err := NewCorrelationID()
	if err != nil {
		return nil, err
	}
	return &Request{
		Action:        ActionSet,
		Key:           key,
		Value:         value,
		CorrelationID: id,
	}, nil
}

// NewGetRequest builds a GET request with a fresh correlation id.
// The key must be valid UTF-8.
func NewGetRequest(key string) (*Request, error) {
	if !utf8.ValidString(key) {
		return nil, ErrInvalidUTF8
	}
	id, err := NewCorrelationID()
	if err != nil {
		return nil, err
	}
	return &Request{
		Action:        ActionGet,
		Key:           key,
		CorrelationID: id,
	}, nil
}

// SetEcho returns the JSON object {key: value} that a SET response carries.
func SetEcho(key, value string) string {
	data, err := json.Marshal(map[string]string{key: value})
	if err != nil {
		// map[string]string cannot fail to marshal.
		return "{}"
	}
	return string(data)
}

// StringPtr returns a pointer to s, for building responses.
func StringPtr(s string) *string {
	return &s
}

// EncodeRequest encodes a request frame, including the trailing newline.
func EncodeRequest(req *Request) ([]byte, error) {
	return encode(req)
}

// EncodeResponse encodes a response frame, including the trailing newline.
func EncodeResponse(resp *Response) ([]byte, error) {
	return encode(resp)
}

// DecodeRequest decodes a single request frame.
func DecodeRequest(frame []byte) (*Request, error) {
	var req Request
	if err := decode(frame, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeResponse decodes a single response frame.
func DecodeResponse(frame []byte) (*Response, error) {
	var resp Response
	if err := decode(frame, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode: %w", err)
	}
	return append(data, '\n'), nil
}

func decode(frame []byte, v any) error {
	body := strings.TrimSpace(string(frame))
	if body == "" {
		return ErrEmptyFrame
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
