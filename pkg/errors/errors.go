package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// CustomizedError carries a call trace, an i18n message key and the http
// status the response layer should use. The message is the key, not the
// final text, localization happens at render time.
type CustomizedError struct {
	cause error
	key   string
	trace []string
	wrap  error
	code  int
	data  map[string]interface{}
}

// New builds an error rooted at trace. The status defaults to 500, chain
// Code to override it.
func New(trace, messageKey string, err error) *CustomizedError {
	return &CustomizedError{
		cause: err,
		key:   messageKey,
		trace: []string{trace},
		code:  http.StatusInternalServerError,
	}
}

// Wrap nests err under a new trace entry, keeping the inner status when err
// is itself a CustomizedError.
func Wrap(err error, trace, messageKey string) *CustomizedError {
	ce := &CustomizedError{
		cause: err,
		key:   messageKey,
		trace: []string{trace},
		wrap:  err,
	}
	if inner, ok := err.(*CustomizedError); ok {
		ce.code = inner.code
	}
	return ce
}

// Trace appends a trace entry to err, wrapping foreign errors on the way.
func Trace(trace string, err error) *CustomizedError {
	if ce, ok := err.(*CustomizedError); ok {
		ce.trace = append(ce.trace, trace)
		return ce
	}
	return Wrap(err, trace, err.Error())
}

func (e *CustomizedError) Trace(trace string) *CustomizedError {
	e.trace = append(e.trace, trace)
	return e
}

func (e *CustomizedError) Code(c int) *CustomizedError {
	e.code = c
	return e
}

func (e *CustomizedError) GetCode() int {
	return e.code
}

func (e *CustomizedError) WithData(data map[string]interface{}) *CustomizedError {
	e.data = data
	return e
}

func (e *CustomizedError) Unwrap() error {
	return e.wrap
}

// Message returns the i18n key, or the raw cause when no key was set.
func (e *CustomizedError) Message() string {
	if e.key == "" {
		return e.cause.Error()
	}
	return e.key
}

// Error renders the chain as a single json-ish log line.
func (e *CustomizedError) Error() string {
	wrapped := `""`
	switch inner := e.wrap.(type) {
	case *CustomizedError:
		wrapped = inner.Error()
	case nil:
	default:
		wrapped = fmt.Sprintf("%q", inner.Error())
	}
	return fmt.Sprintf(`{"trace":"%s","code":%d,"msg":"%s","error":"%v","wrapped":%s}`,
		strings.Join(e.trace, "->"), e.code, e.key, e.cause, wrapped)
}
