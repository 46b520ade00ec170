package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cached memoises single-text embeddings, which is what repeated questions hit.
// Batch calls go straight to the wrapped embedder.
type Cached struct {
	inner Embedder
	cache *gocache.Cache
}

// NewCached wraps inner with a cache whose entries expire after ttl.
func NewCached(inner Embedder, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cached{inner: inner, cache: gocache.New(ttl, 2*ttl)}
}

// Name returns the wrapped embedder's name.
func (c *Cached) Name() string { return c.inner.Name() }

// Dimension returns the wrapped embedder's dimension.
func (c *Cached) Dimension() int { return c.inner.Dimension() }

// Prepare forwards to the wrapped embedder when it needs preparation.
func (c *Cached) Prepare(corpus []string) error {
	p, ok := c.inner.(Preparer)
	if !ok {
		return nil
	}
	c.cache.Flush()
	return p.Prepare(corpus)
}

func (c *Cached) Embed(ctx context.Context, text string) ([]float64, error) {
	key := c.key(text)
	if v, ok := c.cache.Get(key); ok {
		return v.([]float64), nil
	}
	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, vec)
	return vec, nil
}

func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	return c.inner.EmbedBatch(ctx, texts)
}

// ItemCount returns the number of cached embeddings.
func (c *Cached) ItemCount() int { return c.cache.ItemCount() }

func (c *Cached) key(text string) string {
	h := sha256.Sum256([]byte(c.inner.Name() + ":" + text))
	return hex.EncodeToString(h[:16])
}
