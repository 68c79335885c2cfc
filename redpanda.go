// Package redpanda provides a pandas-DataFrame-like facade whose state
// lives entirely in a Redis database.
//
// Each cell (column, row) is stored under its own key (see engine/keys),
// and two sets, "rows" and "columns", index which labels exist. Every
// operation is a direct pass-through to Redis primitives: the facade adds a
// key-naming convention and the label index, nothing more. Consistency and
// durability are whatever the Redis server provides.
package redpanda

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/redpanda-kv/redpanda/engine/keys"
)

// Version is the layout version stamped under keys.VersionKey.
const Version = 1

// Client is the subset of redis.Client the facade uses. It exists so tests
// can substitute an in-memory implementation; *redis.Client satisfies it.
type Client interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	MSet(ctx context.Context, values ...interface{}) *redis.StatusCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SScan(ctx context.Context, key string, cursor uint64, match string, count int64) *redis.ScanCmd
	DBSize(ctx context.Context) *redis.IntCmd
	FlushDB(ctx context.Context) *redis.StatusCmd
}

// Keyspacer reports the server keyspace, as redis.Client does.
type Keyspacer interface {
	Info(ctx context.Context, section ...string) *redis.StringCmd
}

// Wrap attaches a DataFrame to an already-connected Redis client.
//
// The selected database must either carry the version marker left by a
// previous redpanda session or hold no keys at all; attaching to a database
// with unrelated content returns ErrInitializationConflict. A fresh
// database is stamped with the marker before the DataFrame is returned.
func Wrap(client Client) (*DataFrame, error) {
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}

	_, err := client.Get(ctx, keys.VersionKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		size, err := client.DBSize(ctx).Result()
		if err != nil {
			return nil, fmt.Errorf("sizing database: %w", err)
		}
		if size > 0 {
			return nil, fmt.Errorf("%w: database holds %d unrelated keys", ErrInitializationConflict, size)
		}
		if err := client.Set(ctx, keys.VersionKey, Version, 0).Err(); err != nil {
			return nil, fmt.Errorf("writing version marker: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("reading version marker: %w", err)
	}

	return &DataFrame{redis: client, ctx: ctx}, nil
}

// Open dials Redis at addr, selects the db index, and wraps it.
func Open(addr string, db int) (*DataFrame, error) {
	return Wrap(redis.NewClient(&redis.Options{Addr: addr, DB: db}))
}

// FreeDB scans the server keyspace and returns the index of the first
// database holding no keys. It is the explicit form of picking a database
// automatically; Wrap and Open never do this on their own.
func FreeDB(ctx context.Context, client Keyspacer) (int, error) {
	info, err := client.Info(ctx, "keyspace").Result()
	if err != nil {
		return 0, fmt.Errorf("reading keyspace info: %w", err)
	}

	populated := make(map[int]bool)
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "db") {
			continue
		}
		name, _, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(name[2:])
		if err != nil {
			continue
		}
		populated[n] = true
	}

	db := 0
	for populated[db] {
		db++
	}
	return db, nil
}
