package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetRoundTrip(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.Set(ctx, "k", payload{Name: "value"}))

	var got payload
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "value", got.Name)
}

func TestMemoryMiss(t *testing.T) {
	c := NewMemory(time.Minute)

	var got string
	hit, err := c.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory(time.Minute)
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v"))

	var got string
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, hit)

	now = now.Add(61 * time.Second)
	hit, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit, "entries expire after the TTL")
}

func TestMemorySetOverwrites(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "old"))
	require.NoError(t, c.Set(ctx, "k", "new"))

	var got string
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "new", got)
}
