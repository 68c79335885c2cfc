package redpanda

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var errDown = errors.New("connection refused")

// fakeRedis is an in-memory stand-in for the slice of Redis the facade
// uses. Commands answer through the go-redis result constructors so the
// facade code runs unmodified against it.
type fakeRedis struct {
	strings map[string]string
	sets    map[string]map[string]struct{}
	down    bool // every command fails while set
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		strings: make(map[string]string),
		sets:    make(map[string]map[string]struct{}),
	}
}

func (f *fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	if f.down {
		return redis.NewStatusResult("", errDown)
	}
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.down {
		return redis.NewStringResult("", errDown)
	}
	v, ok := f.strings[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.down {
		return redis.NewStatusResult("", errDown)
	}
	f.strings[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) MGet(ctx context.Context, keys ...string) *redis.SliceCmd {
	if f.down {
		return redis.NewSliceResult(nil, errDown)
	}
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		if v, ok := f.strings[k]; ok {
			out[i] = v
		}
	}
	return redis.NewSliceResult(out, nil)
}

func (f *fakeRedis) MSet(ctx context.Context, values ...interface{}) *redis.StatusCmd {
	if f.down {
		return redis.NewStatusResult("", errDown)
	}
	// The facade passes a single map; flat pairs are handled for
	// completeness.
	if len(values) == 1 {
		if m, ok := values[0].(map[string]string); ok {
			for k, v := range m {
				f.strings[k] = v
			}
			return redis.NewStatusResult("OK", nil)
		}
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.strings[fmt.Sprint(values[i])] = fmt.Sprint(values[i+1])
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd {
	if f.down {
		return redis.NewIntResult(0, errDown)
	}
	set := f.sets[key]
	if set == nil {
		set = make(map[string]struct{})
		f.sets[key] = set
	}
	var added int64
	for _, m := range members {
		s := fmt.Sprint(m)
		if _, ok := set[s]; !ok {
			set[s] = struct{}{}
			added++
		}
	}
	return redis.NewIntResult(added, nil)
}

func (f *fakeRedis) SScan(ctx context.Context, key string, cursor uint64, match string, count int64) *redis.ScanCmd {
	if f.down {
		return redis.NewScanCmdResult(nil, 0, errDown)
	}
	members := make([]string, 0, len(f.sets[key]))
	for m := range f.sets[key] {
		members = append(members, m)
	}
	return redis.NewScanCmdResult(members, 0, nil)
}

func (f *fakeRedis) DBSize(ctx context.Context) *redis.IntCmd {
	if f.down {
		return redis.NewIntResult(0, errDown)
	}
	return redis.NewIntResult(int64(len(f.strings)+len(f.sets)), nil)
}

func (f *fakeRedis) FlushDB(ctx context.Context) *redis.StatusCmd {
	if f.down {
		return redis.NewStatusResult("", errDown)
	}
	f.strings = make(map[string]string)
	f.sets = make(map[string]map[string]struct{})
	return redis.NewStatusResult("OK", nil)
}

// fakeKeyspace answers INFO keyspace with a canned payload for FreeDB
// tests.
type fakeKeyspace struct {
	info string
	err  error
}

func (f *fakeKeyspace) Info(ctx context.Context, section ...string) *redis.StringCmd {
	return redis.NewStringResult(f.info, f.err)
}
