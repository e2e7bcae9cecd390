// Package bolt is a file-backed key/value store built on bbolt. It plays the
// role browser local storage plays for a web front-end: a small, process-local,
// persisted map of strings.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/store"
)

var _ store.KV = (*Store)(nil)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("bolt: store is closed")

const (
	DefaultBucket  = "storage"
	DefaultTimeout = time.Second
)

// Config for Open
type Config struct {
	Path string
	// Bucket holding the values, DefaultBucket when empty
	Bucket string
	// Timeout waiting for the file lock held by another process
	Timeout time.Duration
	// ReadOnly opens with a shared lock. The file must already exist.
	ReadOnly bool
}

// Store is a bbolt-backed store.KV
type Store struct {
	mu     sync.RWMutex // guards db against Close
	db     *bbolt.DB
	bucket []byte
	logger *log.Logger
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger, log.G by default
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// Open opens (or creates) the database file and makes sure the bucket exists.
func Open(cfg Config, opts ...Option) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("bolt: path is required")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &Store{bucket: []byte(cfg.Bucket), logger: log.G}
	for _, opt := range opts {
		opt(s)
	}

	if !cfg.ReadOnly {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("bolt: create directory: %w", err)
			}
		}
	}

	// 0600: the file holds credentials
	db, err := bbolt.Open(cfg.Path, 0o600, &bbolt.Options{Timeout: cfg.Timeout, ReadOnly: cfg.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", cfg.Path, err)
	}
	s.db = db

	if !cfg.ReadOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(s.bucket)
			return err
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bolt: create bucket %s: %w", cfg.Bucket, err)
		}
	}

	s.logger.Debug().Str("path", cfg.Path).Str("bucket", cfg.Bucket).Bool("read_only", cfg.ReadOnly).Msg("bolt store opened")
	return s, nil
}

// Get returns the value stored under key or store.ErrNotFound.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return "", ErrClosed
	}

	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return store.ErrNotFound
		}
		data := b.Get([]byte(key))
		if data == nil {
			return store.ErrNotFound
		}
		// data is only valid inside the transaction
		value = string(data)
		return nil
	})
	return value, err
}

// Set stores value under key
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return ErrClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return ErrClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// Close the database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
