package http

import "context"

// Get performs a GET request
func Get[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	return Request[T](ctx, c, endpoint)
}

// Post performs a POST request with JSON body
func Post[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	return Request[T](ctx, c, endpoint, WithMethod(MethodPost), WithBody(body))
}

// Put performs a PUT request with JSON body
func Put[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	return Request[T](ctx, c, endpoint, WithMethod(MethodPut), WithBody(body))
}

// Patch performs a PATCH request with JSON body
func Patch[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	return Request[T](ctx, c, endpoint, WithMethod(MethodPatch), WithBody(body))
}

// Delete performs a DELETE request
func Delete[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	return Request[T](ctx, c, endpoint, WithMethod(MethodDelete))
}
