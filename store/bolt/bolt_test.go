package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/store"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "apiclient.db")
	s, err := Open(Config{Path: path}, WithLogger(log.Nop()))
	require.NoError(t, err)
	return s, path
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	defer s.Close()

	_, err := s.Get(ctx, "token")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "token", "abc123"))
	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc123", v)

	require.NoError(t, s.Set(ctx, "token", "def456"))
	v, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "def456", v)

	require.NoError(t, s.Delete(ctx, "token"))
	require.NoError(t, s.Delete(ctx, "token"))
	_, err = s.Get(ctx, "token")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	require.NoError(t, s.Set(ctx, "token", "persisted"))
	require.NoError(t, s.Close())

	ro, err := Open(Config{Path: path, ReadOnly: true}, WithLogger(log.Nop()))
	require.NoError(t, err)
	defer ro.Close()

	v, err := ro.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "persisted", v)
}

func TestStoreClosed(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Set(ctx, "token", "x"), ErrClosed)
	assert.ErrorIs(t, s.Delete(ctx, "token"), ErrClosed)
}

func TestStoreCloseConcurrent(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	require.NoError(t, s.Set(ctx, "token", "abc"))

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 50; j++ {
				if _, err := s.Get(ctx, "token"); err != nil && !errors.Is(err, ErrClosed) {
					return err
				}
				if err := s.Set(ctx, "token", "abc"); err != nil && !errors.Is(err, ErrClosed) {
					return err
				}
			}
			return nil
		})
	}
	g.Go(s.Close)

	require.NoError(t, g.Wait())
	_, err := s.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestOpenReadOnlyMissingFile(t *testing.T) {
	_, err := Open(Config{Path: filepath.Join(t.TempDir(), "missing.db"), ReadOnly: true}, WithLogger(log.Nop()))
	assert.Error(t, err)
}
