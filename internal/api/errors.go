package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// ErrorKind classifies a gateway failure.
type ErrorKind int

const (
	// KindUnknown is reported for errors that did not come from the gateway.
	KindUnknown ErrorKind = iota
	// KindNetwork means the request never produced a readable response.
	KindNetwork
	// KindValidation means the request was rejected for its content.
	KindValidation
	// KindNotFound means the backend answered 404.
	KindNotFound
	// KindServer covers every other non-2xx response.
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Error is the single error type produced at the gateway boundary.
// Message is always fit for display.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// Message returns a display string for err, using fallback when err carries
// no message of its own.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "Unable to reach the server: " + err.Error(), Err: err}
}

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: msg}
}

// errorEnvelope covers the body shapes the backend uses for failures.
type errorEnvelope struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

type errorData struct {
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// errorFromResponse builds an Error from a non-2xx response body.
func errorFromResponse(status int, body []byte, fallback string) *Error {
	msg, fields := extractMessage(body)
	if msg == "" {
		msg = fallback
	}

	kind := KindServer
	switch {
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status >= 400 && status < 500 && len(fields) > 0:
		kind = KindValidation
	}
	return &Error{Kind: kind, Status: status, Message: msg, Fields: fields}
}

// extractMessage reads the display message and field errors from a failure
// body. The message is taken from data.message, then error, then message.
func extractMessage(body []byte) (string, map[string]string) {
	var env errorEnvelope
	if len(body) == 0 || json.Unmarshal(body, &env) != nil {
		return "", nil
	}

	var data errorData
	if len(env.Data) > 0 && env.Data[0] == '{' {
		_ = json.Unmarshal(env.Data, &data)
	}

	fields := fieldMap(env.Errors)
	if nested := fieldMap(data.Errors); len(nested) > 0 {
		fields = nested
	}

	if data.Message != "" {
		return data.Message, fields
	}
	if s := rawString(env.Error); s != "" {
		return s, fields
	}
	return strings.TrimSpace(env.Message), fields
}

// rawString returns the value of a JSON string, or the "message" of a JSON
// object. Anything else yields "".
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Message
	}
	return ""
}

// fieldMap decodes an object of field name to message. Other shapes are
// ignored.
func fieldMap(raw json.RawMessage) map[string]string {
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var fields map[string]string
	if json.Unmarshal(raw, &fields) != nil || len(fields) == 0 {
		return nil
	}
	return fields
}
