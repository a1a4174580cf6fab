package loadercache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/utils/cache"
)

func TestLoaderCache_GetCachesValue(t *testing.T) {
	calls := 0
	c := New(
		WithLoader[string, int](func(_ context.Context, key string) (*int, error) {
			calls++
			v := len(key)
			return &v, nil
		}),
		WithExpiration[string, int](time.Hour),
	)
	ctx := context.Background()

	got, err := c.Get(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, 5, *got)

	_, err = c.Get(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestLoaderCache_ExpiredEntryReloaded(t *testing.T) {
	calls := 0
	// negative expiration: every cached entry is stale on next access
	c := New(
		WithLoader[string, int](func(_ context.Context, _ string) (*int, error) {
			calls++
			v := calls
			return &v, nil
		}),
		WithExpiration[string, int](-time.Nanosecond),
	)
	ctx := context.Background()

	first, err := c.Get(ctx, "key")
	require.NoError(t, err)
	second, err := c.Get(ctx, "key")
	require.NoError(t, err)

	assert.Equal(t, 1, *first)
	assert.Equal(t, 2, *second)
}

func TestLoaderCache_Invalidate(t *testing.T) {
	calls := 0
	c := New(
		WithLoader[string, int](func(_ context.Context, _ string) (*int, error) {
			calls++
			v := calls
			return &v, nil
		}),
		WithExpiration[string, int](time.Hour),
	)
	ctx := context.Background()

	_, err := c.Get(ctx, "key")
	require.NoError(t, err)
	c.Invalidate(ctx, "key")
	_, err = c.Get(ctx, "key")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestLoaderCache_NoLoader(t *testing.T) {
	c := New[string, int]()

	_, err := c.Get(context.Background(), "key")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestLoaderCache_LoaderErrorNotCached(t *testing.T) {
	calls := 0
	wantErr := errors.New("load failed")
	c := New(
		WithLoader[string, int](func(_ context.Context, _ string) (*int, error) {
			calls++
			return nil, wantErr
		}),
	)
	ctx := context.Background()

	_, err := c.Get(ctx, "key")
	assert.ErrorIs(t, err, wantErr)
	_, err = c.Get(ctx, "key")
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 2, calls)
}
