// Package cache puts a request-deduplicating, time-bounded cache in front
// of the stage schema store so repeated renders of one stage's deals do not
// re-issue fetches.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/rotacarga/freight-crm/internal/model"
)

// DefaultTTL is the freshness window for cached schemas.
const DefaultTTL = 5 * time.Minute

const keyPrefix = "stage_schema:"

// nullPayload marks a stage with no persisted schema, so "nothing there" is
// cached just like a real document.
var nullPayload = []byte("null")

// FetchFunc loads the persisted schema for a stage, returning nil when the
// stage has none.
type FetchFunc func(ctx context.Context, stageID string) (*model.StageFormSchema, error)

type entry struct {
	payload []byte
	expires time.Time
}

// SchemaCache caches schema documents per stage id.  A shared Redis client
// is used when available, with an in-process map as fallback; either way a
// singleflight group collapses concurrent fetches for the same stage into
// one underlying call.
type SchemaCache struct {
	rdb   *redis.Client // may be nil; the cache degrades to local-only
	ttl   time.Duration
	fetch FetchFunc
	group singleflight.Group

	mu    sync.Mutex
	local map[string]entry
	now   func() time.Time
}

// NewSchemaCache builds a cache over the given fetch function.  ttl <= 0
// selects DefaultTTL.
func NewSchemaCache(rdb *redis.Client, ttl time.Duration, fetch FetchFunc) *SchemaCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SchemaCache{
		rdb:   rdb,
		ttl:   ttl,
		fetch: fetch,
		local: make(map[string]entry),
		now:   time.Now,
	}
}

// Get returns the schema for a stage, or nil when the stage id is empty or
// nothing is persisted.  Results are cached for the freshness window and
// keyed strictly by the requested stage id.
func (c *SchemaCache) Get(ctx context.Context, stageID string) (*model.StageFormSchema, error) {
	if stageID == "" {
		return nil, nil
	}
	if payload, ok := c.lookup(ctx, stageID); ok {
		return decode(payload)
	}
	payload, err, _ := c.group.Do(stageID, func() (any, error) {
		// Re-check under the group: a concurrent caller may have filled
		// the cache while this one waited.
		if p, ok := c.lookup(ctx, stageID); ok {
			return p, nil
		}
		s, err := c.fetch(ctx, stageID)
		if err != nil {
			return nil, err
		}
		p := nullPayload
		if s != nil {
			p, err = json.Marshal(s)
			if err != nil {
				return nil, err
			}
		}
		c.store(ctx, stageID, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return decode(payload.([]byte))
}

// Invalidate drops the cache entry for a stage.  Called after that stage's
// schema was saved so subsequent reads observe the new document.
func (c *SchemaCache) Invalidate(ctx context.Context, stageID string) {
	if stageID == "" {
		return
	}
	c.mu.Lock()
	delete(c.local, stageID)
	c.mu.Unlock()
	if c.rdb != nil {
		_ = c.rdb.Del(ctx, keyPrefix+stageID).Err()
	}
}

func (c *SchemaCache) lookup(ctx context.Context, stageID string) ([]byte, bool) {
	if c.rdb != nil {
		if bs, err := c.rdb.Get(ctx, keyPrefix+stageID).Bytes(); err == nil {
			return bs, true
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.local[stageID]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.payload, true
}

func (c *SchemaCache) store(ctx context.Context, stageID string, payload []byte) {
	c.mu.Lock()
	c.local[stageID] = entry{payload: payload, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	if c.rdb != nil {
		_ = c.rdb.SetEx(ctx, keyPrefix+stageID, payload, c.ttl).Err()
	}
}

func decode(payload []byte) (*model.StageFormSchema, error) {
	if string(payload) == "null" {
		return nil, nil
	}
	var s model.StageFormSchema
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
