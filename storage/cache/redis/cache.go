package rediscache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

const (
	classesKey    = "buscativa:classes"
	generationKey = "buscativa:classes:generation"
)

// ClassCache keeps the distinct class list in Redis as JSON, tagged with the
// generation it was read under. Invalidate bumps the generation counter.
type ClassCache struct {
	client redis.Cmdable
	ttl    time.Duration
	key    string
	genKey string
}

var _ attendance.ClassCache = (*ClassCache)(nil)

type cachedClasses struct {
	Generation int64    `json:"generation"`
	Classes    []string `json:"classes"`
}

// New connects to the Redis server at url (redis://[:password@]host:port/db).
func New(url string, ttl time.Duration) (*ClassCache, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing redis url")
	}
	client := redis.NewClient(opts)
	return NewClassCache(client, ttl), client, nil
}

func NewClassCache(client redis.Cmdable, ttl time.Duration) *ClassCache {
	return &ClassCache{client: client, ttl: ttl, key: classesKey, genKey: generationKey}
}

func (c *ClassCache) Classes(ctx context.Context) ([]string, int64, bool, error) {
	vals, err := c.client.MGet(ctx, c.genKey, c.key).Result()
	if err != nil {
		return nil, 0, false, errors.Wrap(err, "reading cached classes")
	}

	var generation int64
	if raw, ok := vals[0].(string); ok {
		if generation, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, 0, false, errors.Wrap(err, "decoding classes generation")
		}
	}
	raw, ok := vals[1].(string)
	if !ok {
		return nil, generation, false, nil
	}
	var cached cachedClasses
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, generation, false, errors.Wrap(err, "decoding cached classes")
	}
	if cached.Generation != generation {
		return nil, generation, false, nil
	}
	if cached.Classes == nil {
		cached.Classes = []string{}
	}
	return cached.Classes, generation, true, nil
}

func (c *ClassCache) SetClasses(ctx context.Context, generation int64, classes []string) error {
	if classes == nil {
		classes = []string{}
	}
	data, err := json.Marshal(cachedClasses{Generation: generation, Classes: classes})
	if err != nil {
		return errors.Wrap(err, "encoding classes")
	}
	return errors.Wrap(c.client.Set(ctx, c.key, data, c.ttl).Err(), "caching classes")
}

func (c *ClassCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.genKey).Err(); err != nil {
		return errors.Wrap(err, "bumping classes generation")
	}
	return errors.Wrap(c.client.Del(ctx, c.key).Err(), "invalidating cached classes")
}
