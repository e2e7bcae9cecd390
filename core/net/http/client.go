package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/kochabx/apiclient/core/credential"
	"github.com/kochabx/apiclient/errors"
	"github.com/kochabx/apiclient/log"
)

// Client calls one backend API. It is safe for concurrent use.
type Client struct {
	baseURL     string
	client      Doer
	credentials credential.Provider
	validate    Validator
	metrics     *Metrics
	logger      *log.Logger
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client Doer) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithCredentials sets the token provider. Without it requests are anonymous.
func WithCredentials(p credential.Provider) Option {
	return func(c *Client) {
		c.credentials = p
	}
}

// WithValidator validates every successfully decoded struct response
func WithValidator(v Validator) Option {
	return func(c *Client) {
		c.validate = v
	}
}

// WithMetrics records request counts and latencies
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger enables debug logging of each exchange. Silent by default.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the API at baseURL. Endpoints are appended to
// baseURL verbatim, so they should start with "/".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		client:      &http.Client{},
		credentials: credential.None,
		logger:      log.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.credentials == nil {
		c.credentials = credential.None
	}
	return c
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOption holds options for individual requests
type RequestOption func(*requestOptions)

type requestOptions struct {
	method string
	body   any
}

// WithMethod sets the HTTP method. Request defaults to GET, Upload to POST.
func WithMethod(method string) RequestOption {
	return func(o *requestOptions) {
		o.method = method
	}
}

// WithBody sets the value JSON-encoded as the request body. A nil value sends
// no body. Ignored by Upload.
func WithBody(body any) RequestOption {
	return func(o *requestOptions) {
		o.body = body
	}
}

func newRequestOptions(method string, opts []RequestOption) *requestOptions {
	o := &requestOptions{method: method}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Request sends a JSON request to endpoint and decodes the JSON response into T.
//
// Content-Type: application/json is always sent. A non-2xx status yields an
// *errors.Error carrying the response's "message" field, or
// DefaultRequestError when there is none. Transport and JSON decoding errors
// are returned unchanged.
func Request[T any](ctx context.Context, c *Client, endpoint string, opts ...RequestOption) (T, error) {
	var out T
	o := newRequestOptions(MethodGet, opts)

	var body io.Reader
	if o.body != nil {
		raw, err := json.Marshal(o.body)
		if err != nil {
			return out, err
		}
		body = bytes.NewReader(raw)
	}

	err := c.exchange(ctx, exchange{
		operation:   "request",
		method:      o.method,
		endpoint:    endpoint,
		body:        body,
		contentType: ContentTypeJSON,
		fallback:    DefaultRequestError,
	}, &out)
	return out, err
}

// Upload sends form as a multipart/form-data body to endpoint and decodes the
// JSON response into T.
//
// No Content-Type other than the one produced by form (with its boundary) is
// set. Errors follow Request, with DefaultUploadError as the fallback message.
func Upload[T any](ctx context.Context, c *Client, endpoint string, form Multipart, opts ...RequestOption) (T, error) {
	var out T
	if form == nil {
		return out, ErrNilForm
	}
	o := newRequestOptions(MethodPost, opts)

	var buf bytes.Buffer
	contentType, err := form.Encode(&buf)
	if err != nil {
		return out, err
	}

	err = c.exchange(ctx, exchange{
		operation:   "upload",
		method:      o.method,
		endpoint:    endpoint,
		body:        &buf,
		contentType: contentType,
		fallback:    DefaultUploadError,
	}, &out)
	return out, err
}

type exchange struct {
	operation   string
	method      string
	endpoint    string
	body        io.Reader
	contentType string
	fallback    string
}

// exchange performs build headers -> send -> decode -> branch on status.
func (c *Client) exchange(ctx context.Context, x exchange, dest any) error {
	req, err := http.NewRequestWithContext(ctx, x.method, c.baseURL+x.endpoint, x.body)
	if err != nil {
		return err
	}

	if x.contentType != "" {
		req.Header.Set(HeaderContentType, x.contentType)
	}
	// read at call time so a token change only affects later calls
	if token := c.credentials.Token(ctx); token != "" {
		req.Header.Set(HeaderAuthorization, "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.observe(x.operation, x.method, 0, time.Since(start))
		c.logger.Debug().Err(err).Str("method", x.method).Str("endpoint", x.endpoint).Msg("request failed")
		return err
	}
	defer resp.Body.Close()

	c.metrics.observe(x.operation, x.method, resp.StatusCode, time.Since(start))
	c.logger.Debug().
		Str("operation", x.operation).
		Str("method", x.method).
		Str("endpoint", x.endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("response received")

	return c.processResponse(resp, x, dest)
}

// processResponse parses the body as JSON regardless of status; error
// messages live in the JSON error payload.
func (c *Client) processResponse(resp *http.Response, x exchange, dest any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload any
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		apiErr := errors.NewMessage(resp.StatusCode, failureMessage(payload, x.fallback)).
			WithMetadata(map[string]string{"method": x.method, "endpoint": x.endpoint})
		c.logger.Debug().Object("error", apiErr).Msg("api call failed")
		return apiErr
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return err
	}

	if c.validate == nil {
		return nil
	}
	if target, ok := structTarget(dest); ok {
		if err := c.validate.Struct(target); err != nil {
			return errors.Wrap(err, http.StatusBadGateway, "invalid response from %s %s", x.method, x.endpoint)
		}
	}
	return nil
}

// failureMessage returns payload.message when it is a non-empty string.
func failureMessage(payload any, fallback string) string {
	if m, ok := payload.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return fallback
}

// structTarget returns the pointer to the struct dest refers to, following
// any chain of pointers, or false when dest does not hold a struct.
func structTarget(dest any) (any, bool) {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, false
	}
	for v.Elem().Kind() == reflect.Pointer {
		if v.Elem().IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Elem().Kind() != reflect.Struct {
		return nil, false
	}
	return v.Interface(), true
}
