package credential

import (
	"context"
	"errors"

	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/store"
)

// Getter is the read side of a key/value store
type Getter interface {
	Get(ctx context.Context, key string) (string, error)
}

// StoreProvider reads the token from a key/value store on every call
type StoreProvider struct {
	store  Getter
	key    string
	logger *log.Logger
}

// StoreOption configures a StoreProvider
type StoreOption func(*StoreProvider)

// WithKey overrides DefaultKey
func WithKey(key string) StoreOption {
	return func(p *StoreProvider) {
		p.key = key
	}
}

// WithLogger sets the logger used to report read failures, log.G by default
func WithLogger(l *log.Logger) StoreOption {
	return func(p *StoreProvider) {
		p.logger = l
	}
}

// FromStore returns a Provider backed by s
func FromStore(s Getter, opts ...StoreOption) *StoreProvider {
	p := &StoreProvider{store: s, key: DefaultKey, logger: log.G}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token implements Provider. Read failures are logged and reported as no token.
func (p *StoreProvider) Token(ctx context.Context) string {
	if p.store == nil {
		return ""
	}
	token, err := p.store.Get(ctx, p.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			p.logger.Debug().Err(err).Str("key", p.key).Msg("token store unavailable, continuing without token")
		}
		return ""
	}
	return token
}
