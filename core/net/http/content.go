package http

import "errors"

// Common Content-Types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
	ContentTypeOctet     = "application/octet-stream"
)

// Header names set by the client
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
)

// Methods used as operation defaults
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodPatch  = "PATCH"
	MethodDelete = "DELETE"
)

// ErrNilForm is returned by Upload when no form is given
var ErrNilForm = errors.New("upload: form is nil")

// Default failure messages used when the server does not supply one
const (
	DefaultRequestError = "Something went wrong."
	DefaultUploadError  = "File upload failed."
)
