package http

import (
	"io"
	"net/http"
)

// Doer is the subset of *http.Client used by Client, so callers can supply
// custom transports or record fixtures in tests.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Validator checks a decoded response value, see WithValidator
type Validator interface {
	Struct(s any) error
}

// Multipart is an opaque multipart/form-data payload. Encode writes the body
// to w and returns the Content-Type carrying the boundary.
type Multipart interface {
	Encode(w io.Writer) (contentType string, err error)
}
