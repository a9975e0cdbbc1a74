package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kode4food/docket/pkg/api"
	"github.com/kode4food/docket/pkg/log"
)

// SchemaCache keeps resolved source schemas in Redis so repeated target
// resolution does not hammer the record store. Cache failures are logged
// and treated as misses; the cache is never authoritative
type SchemaCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSchemaCache creates a schema cache on the provided Redis client
func NewSchemaCache(
	rdb *redis.Client, prefix string, ttl time.Duration,
) *SchemaCache {
	return &SchemaCache{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get retrieves a cached schema for a source. The second return is false on
// miss, decode failure, or Redis error
func (c *SchemaCache) Get(
	ctx context.Context, sourceID api.SourceID,
) (*Schema, bool) {
	raw, err := c.rdb.Get(ctx, c.key(sourceID)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Schema cache read failed",
				log.SourceID(sourceID),
				log.Error(err))
		}
		return nil, false
	}

	var schema Schema
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		slog.Warn("Schema cache entry corrupt",
			log.SourceID(sourceID),
			log.Error(err))
		return nil, false
	}
	return &schema, true
}

// Put stores a schema for a source with the configured TTL
func (c *SchemaCache) Put(
	ctx context.Context, sourceID api.SourceID, schema *Schema,
) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return
	}
	if err := c.rdb.Set(
		ctx, c.key(sourceID), raw, c.ttl,
	).Err(); err != nil {
		slog.Warn("Schema cache write failed",
			log.SourceID(sourceID),
			log.Error(err))
	}
}

// Invalidate drops the cached schema for a source
func (c *SchemaCache) Invalidate(ctx context.Context, sourceID api.SourceID) {
	if err := c.rdb.Del(ctx, c.key(sourceID)).Err(); err != nil {
		slog.Warn("Schema cache invalidation failed",
			log.SourceID(sourceID),
			log.Error(err))
	}
}

func (c *SchemaCache) key(sourceID api.SourceID) string {
	return fmt.Sprintf("%s:schema:%s", c.prefix, sourceID)
}
