package cache

import (
	"context"
	"testing"
	"time"

	"reservation-backoffice/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, time.Minute), mr
}

func TestRedisCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	var miss domain.AdminDashboard
	ok, err := c.Get(ctx, "admin:2026-05-20", &miss)
	require.NoError(t, err)
	assert.False(t, ok)

	in := domain.AdminDashboard{
		Overview:     domain.StatusCounts{Total: 4, Pending: 1, Accepted: 3},
		Temporal:     domain.TemporalStats{ThisMonth: 5, LastMonth: 4, MonthGrowth: 25},
		TopLocations: []domain.LocationCount{{ID: 5, Name: "Salle B12", Count: 3}},
	}
	require.NoError(t, c.Set(ctx, "admin:2026-05-20", in))

	var out domain.AdminDashboard
	ok, err = c.Get(ctx, "admin:2026-05-20", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)

	assert.Equal(t, time.Minute, mr.TTL(defaultPrefix+"admin:2026-05-20"))
	mr.FastForward(2 * time.Minute)
	ok, err = c.Get(ctx, "admin:2026-05-20", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	for _, k := range []string{"admin:a", "cee:c10:u2:a", "series:all:a"} {
		require.NoError(t, c.Set(ctx, k, []int{1}))
	}
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, c.Invalidate(ctx))

	var v []int
	ok, err := c.Get(ctx, "cee:c10:u2:a", &v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(defaultPrefix+"admin:x", "{not json"))

	var out domain.AdminDashboard
	_, err := c.Get(ctx, "admin:x", &out)
	assert.Error(t, err)
}
