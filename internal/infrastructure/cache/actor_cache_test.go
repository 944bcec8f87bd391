package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/internal/infrastructure/cache"
	"github.com/jhoicas/stocktransfer-api/pkg/metrics"
)

type fakeResolver struct {
	calls int
	role  rbac.Role
	err   error
}

func (f *fakeResolver) ResolveActor(_ context.Context, userID string) (rbac.Actor, error) {
	f.calls++
	if f.err != nil {
		return rbac.Actor{}, f.err
	}
	return rbac.Actor{UserID: userID, Role: f.role}, nil
}

func TestActorCache_HitMissEInvalidate(t *testing.T) {
	next := &fakeResolver{role: rbac.RoleInventoryClerk}
	m := metrics.New("test")
	c := cache.NewActorCache(next, 10, time.Minute, m)
	ctx := context.Background()

	a, err := c.ResolveActor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleInventoryClerk, a.Role)
	_, err = c.ResolveActor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)

	next.role = rbac.RoleTechnician
	c.Invalidate("u1")
	a, err = c.ResolveActor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleTechnician, a.Role)
	assert.Equal(t, 2, next.calls)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActorCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ActorCacheTotal.WithLabelValues("miss")))
}

func TestActorCache_NoCacheaErrores(t *testing.T) {
	next := &fakeResolver{err: errors.New("db down")}
	c := cache.NewActorCache(next, 0, time.Minute, nil)

	_, err := c.ResolveActor(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	next.err = nil
	_, err = c.ResolveActor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestActorCache_Expira(t *testing.T) {
	next := &fakeResolver{role: rbac.RoleAdmin}
	c := cache.NewActorCache(next, 10, 20*time.Millisecond, nil)

	_, err := c.ResolveActor(context.Background(), "u1")
	require.NoError(t, err)
	time.Sleep(60 * time.Millisecond)
	_, err = c.ResolveActor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}
