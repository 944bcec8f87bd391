// Package cache guarda en memoria las identidades resueltas por el middleware de auth.
package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/pkg/metrics"
)

// ActorResolver resuelve un userID a su identidad de autorización.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (rbac.Actor, error)
}

// ActorCache LRU con TTL delante de un ActorResolver. Los errores no se cachean.
// Invalidate se llama cuando un usuario cambia de rol, bodega o estado.
type ActorCache struct {
	next    ActorResolver
	cache   *lru.LRU[string, rbac.Actor]
	metrics *metrics.Metrics
}

// NewActorCache construye la caché. size <= 0 usa 1024 entradas.
func NewActorCache(next ActorResolver, size int, ttl time.Duration, m *metrics.Metrics) *ActorCache {
	if size <= 0 {
		size = 1024
	}
	return &ActorCache{
		next:    next,
		cache:   lru.NewLRU[string, rbac.Actor](size, nil, ttl),
		metrics: m,
	}
}

// ResolveActor devuelve el actor cacheado o lo resuelve y lo guarda.
func (c *ActorCache) ResolveActor(ctx context.Context, userID string) (rbac.Actor, error) {
	if actor, ok := c.cache.Get(userID); ok {
		c.metrics.ActorCache(true)
		return actor, nil
	}
	c.metrics.ActorCache(false)
	actor, err := c.next.ResolveActor(ctx, userID)
	if err != nil {
		return rbac.Actor{}, err
	}
	c.cache.Add(userID, actor)
	return actor, nil
}

// Invalidate descarta la entrada del usuario.
func (c *ActorCache) Invalidate(userID string) {
	c.cache.Remove(userID)
}

// Len número de entradas vivas.
func (c *ActorCache) Len() int { return c.cache.Len() }
