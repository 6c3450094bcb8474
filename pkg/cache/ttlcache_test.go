package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affreight/shipengine/pkg/domain"
)

func TestTTLCache_SetThenGet(t *testing.T) {
	c := New[string, int](time.Minute)
	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestTTLCache_MissReturnsZeroValue(t *testing.T) {
	c := New[string, int](time.Minute)
	v, ok := c.Get("missing")
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestTTLCache_ExpiresAfterTTL(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewWithClock[string, int](time.Minute, func() time.Time { return clock })
	c.Set("a", 1)

	clock = clock.Add(61 * time.Second)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_DeleteRemovesEntry(t *testing.T) {
	c := New[string, int](time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestPortsCache_LoadsOnceAndCaches(t *testing.T) {
	calls := 0
	loader := func(ctx context.Context) ([]domain.Port, error) {
		calls++
		return []domain.Port{{UNCode: "USLAX", Name: "Los Angeles"}}, nil
	}
	pc := NewPortsCache(loader)

	ports, err := pc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, ports, 1)

	_, err = pc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPortsCache_InvalidateForcesReload(t *testing.T) {
	calls := 0
	loader := func(ctx context.Context) ([]domain.Port, error) {
		calls++
		return nil, nil
	}
	pc := NewPortsCache(loader)
	_, _ = pc.GetAll(context.Background())
	pc.Invalidate()
	_, _ = pc.GetAll(context.Background())
	assert.Equal(t, 2, calls)
}

func TestPortsCache_PropagatesLoaderError(t *testing.T) {
	pc := NewPortsCache(func(ctx context.Context) ([]domain.Port, error) {
		return nil, errors.New("db unavailable")
	})
	_, err := pc.GetAll(context.Background())
	assert.Error(t, err)
}

func TestCompanyNamesCache_LookupFromLoadedMap(t *testing.T) {
	cc := NewCompanyNamesCache(func(ctx context.Context) (map[string]string, error) {
		return map[string]string{"co-1": "Acme Freight"}, nil
	})
	name, ok, err := cc.Lookup(context.Background(), "co-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Acme Freight", name)

	_, ok, err = cc.Lookup(context.Background(), "co-missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
