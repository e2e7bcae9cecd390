// Package credential provides the bearer token attached to API requests.
//
// A Provider never fails: an absent token and an unreadable backend both
// yield the empty string, and the request is then sent without an
// Authorization header.
package credential

import (
	"context"
	"os"
)

// DefaultKey is the storage key the token lives under.
const DefaultKey = "token"

// Provider returns the current token, or "" when there is none.
type Provider interface {
	Token(ctx context.Context) string
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(ctx context.Context) string

// Token implements Provider
func (f ProviderFunc) Token(ctx context.Context) string {
	return f(ctx)
}

// None never returns a token
var None Provider = ProviderFunc(func(context.Context) string { return "" })

// Static always returns token
func Static(token string) Provider {
	return ProviderFunc(func(context.Context) string { return token })
}

// Env reads the named environment variable on every call, so changes made
// between requests are picked up. The value is used as is, like a stored token.
func Env(name string) Provider {
	return ProviderFunc(func(context.Context) string {
		return os.Getenv(name)
	})
}
