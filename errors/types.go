package errors

import "net/http"

// Code returns the status code carried by err, or 0 when err is not an *Error.
func Code(err error) int {
	var ge *Error
	if As(err, &ge) {
		return ge.Code
	}
	return 0
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	return Code(err) == code
}

// IsUnauthorized reports a 401 from the server, usually a missing or stale token.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsClientError reports a 4xx status.
func IsClientError(err error) bool {
	c := Code(err)
	return c >= 400 && c < 500
}

// IsServerError reports a 5xx status.
func IsServerError(err error) bool {
	c := Code(err)
	return c >= 500 && c < 600
}
