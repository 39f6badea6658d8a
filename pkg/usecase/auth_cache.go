package usecase

import (
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

const (
	keySetCacheTTL = 5 * time.Minute
)

type cachedKeySet struct {
	set       jwk.Set
	expiresAt time.Time
}

// keySetCache keeps fetched JWKS documents so that each request does not hit the provider
type keySetCache struct {
	cache sync.Map
}

func newKeySetCache() *keySetCache {
	return &keySetCache{}
}

func (c *keySetCache) get(url string) (jwk.Set, bool) {
	val, ok := c.cache.Load(url)
	if !ok {
		return nil, false
	}

	cached := val.(*cachedKeySet)
	if time.Now().After(cached.expiresAt) {
		c.cache.Delete(url)
		return nil, false
	}

	return cached.set, true
}

func (c *keySetCache) set(url string, set jwk.Set) {
	c.cache.Store(url, &cachedKeySet{
		set:       set,
		expiresAt: time.Now().Add(keySetCacheTTL),
	})
}
