// Package errors defines the error returned by failed API calls: the HTTP
// status code plus the message the server put in its JSON error payload.
package errors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// UnknownCode is used by FromError for errors that carry no status.
const UnknownCode = 500

// Status is the decoded failure payload of an API call
type Status struct {
	Code     int               `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Error is the single error kind returned for failed API calls.
// Values are never mutated after creation; the With* methods return copies.
type Error struct {
	Status
	cause error
}

var _ zerolog.LogObjectMarshaler = (*Error)(nil)

// New creates an error with the given code and formatted message.
func New(code int, format string, args ...any) *Error {
	return NewMessage(code, fmt.Sprintf(format, args...))
}

// NewMessage creates an error carrying msg as is. Use it for text that did
// not come from the program, such as a server-supplied message.
func NewMessage(code int, msg string) *Error {
	return &Error{Status: Status{Code: code, Message: msg}}
}

// Wrap returns nil for a nil err, otherwise a new *Error caused by err.
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return New(code, format, args...).WithCause(err)
}

// FromError returns the first *Error in err's chain, or wraps err with UnknownCode.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(UnknownCode, "%v", err)
}

// Error returns the message, followed by the cause when there is one.
func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches another *Error with the same code and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code && t.Message == e.Message
}

// WithMetadata returns a copy carrying m in addition to the existing metadata.
func (e *Error) WithMetadata(m map[string]string) *Error {
	if len(m) == 0 {
		return e
	}
	c := e.copy()
	if c.Metadata == nil {
		c.Metadata = make(map[string]string, len(m))
	}
	maps.Copy(c.Metadata, m)
	return c
}

// WithCause returns a copy wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}
	c := e.copy()
	c.cause = cause
	return c
}

func (e *Error) copy() *Error {
	c := &Error{Status: e.Status, cause: e.cause}
	c.Metadata = maps.Clone(e.Metadata)
	return c
}

func (e *Error) GetCode() int       { return e.Code }
func (e *Error) GetMessage() string { return e.Message }
func (e *Error) GetCause() error    { return e.cause }

// GetMetadata returns a copy of the metadata
func (e *Error) GetMetadata() map[string]string {
	return maps.Clone(e.Metadata)
}

// Detail renders every field on one line with metadata keys sorted,
// e.g. "code=404 message=Not found endpoint=/items method=GET".
func (e *Error) Detail() string {
	var b strings.Builder
	b.WriteString("code=")
	b.WriteString(strconv.Itoa(e.Code))
	b.WriteString(" message=")
	b.WriteString(e.Message)
	for _, k := range slices.Sorted(maps.Keys(e.Metadata)) {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(e.Metadata[k])
	}
	if e.cause != nil {
		b.WriteString(" cause=")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// MarshalZerologObject lets the error be logged with Event.Object.
func (e *Error) MarshalZerologObject(ev *zerolog.Event) {
	ev.Int("code", e.Code).Str("message", e.Message)
	for _, k := range slices.Sorted(maps.Keys(e.Metadata)) {
		ev.Str(k, e.Metadata[k])
	}
	if e.cause != nil {
		ev.AnErr("cause", e.cause)
	}
}
