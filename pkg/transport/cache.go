package transport

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matst80/slask-discovery/pkg/common/jsoncompat"
	"github.com/matst80/slask-discovery/pkg/types"
)

// CachedTransport serves pages from redis and falls back to the wrapped
// transport. Redis failures are logged and never fail a search.
type CachedTransport struct {
	inner  Fetcher
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewCachedTransport(inner Fetcher, client *redis.Client, ttl time.Duration) *CachedTransport {
	return &CachedTransport{
		inner:  inner,
		client: client,
		ttl:    ttl,
		prefix: "discovery:page:",
	}
}

type cacheKey struct {
	Query string             `json:"q"`
	Terms []types.FilterTerm `json:"t"`
	Page  int                `json:"p"`
}

// CacheKey is independent of the order of terms since they are combined conjunctively.
func (c *CachedTransport) CacheKey(query string, terms []types.FilterTerm, page int) string {
	sorted := slices.Clone(terms)
	slices.SortFunc(sorted, func(a, b types.FilterTerm) int {
		if r := strings.Compare(a.Type, b.Type); r != 0 {
			return r
		}
		return strings.Compare(a.Query, b.Query)
	})
	for i := range sorted {
		sorted[i].Name = ""
	}
	data, _ := jsoncompat.Marshal(cacheKey{Query: query, Terms: sorted, Page: page})
	sum := sha1.Sum(data)
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *CachedTransport) Fetch(ctx context.Context, query string, terms []types.FilterTerm, page int) (*types.SearchPage, error) {
	key := c.CacheKey(query, terms, page)
	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached types.SearchPage
		if err = jsoncompat.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		log.Printf("dropping unreadable cache entry %s: %v", key, err)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("cache get failed: %v", err)
	}

	result, err := c.inner.Fetch(ctx, query, terms, page)
	if err != nil {
		return nil, err
	}
	if data, err = jsoncompat.Marshal(result); err == nil {
		err = c.client.Set(ctx, key, data, c.ttl).Err()
	}
	if err != nil {
		log.Printf("cache set failed: %v", err)
	}
	return result, nil
}

func (c *CachedTransport) Close() error {
	return c.client.Close()
}
