package cachedresults

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/crowding/pkg/ctdf"
)

const (
	DefaultTTL    = 15 * time.Minute
	DefaultJitter = time.Minute
)

type Cache struct {
	Cache *cache.Cache[string]

	TTL    time.Duration
	Jitter time.Duration
}

func New(cacheStore store.StoreInterface) *Cache {
	return &Cache{
		Cache:  cache.New[string](cacheStore),
		TTL:    DefaultTTL,
		Jitter: DefaultJitter,
	}
}

func NewRedis(client *redis.Client) *Cache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(DefaultTTL))

	return New(redisStore)
}

func Key(selection ctdf.LineSelection) string {
	return fmt.Sprintf("cachedresults/crowding/%s/%s/%s", selection.LineID, selection.StationID, selection.Direction)
}

// Get returns nil, nil when nothing is cached for the selection. Store failures are returned.
func (c *Cache) Get(ctx context.Context, selection ctdf.LineSelection) (*ctdf.CrowdingResult, error) {
	cacheItemPath := Key(selection)
	cachedObject, err := c.Cache.Get(ctx, cacheItemPath)
	if errors.Is(err, store.NotFound{}) {
		log.Debug().Str("key", cacheItemPath).Msg("Crowding cache miss")
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading cached result %s: %w", cacheItemPath, err)
	}

	var result *ctdf.CrowdingResult
	if err := json.Unmarshal([]byte(cachedObject), &result); err != nil {
		return nil, fmt.Errorf("decoding cached result %s: %w", cacheItemPath, err)
	}

	return result, nil
}

func (c *Cache) Set(ctx context.Context, result *ctdf.CrowdingResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.Cache.Set(ctx, Key(result.Selection), string(resultJSON), store.WithExpiration(c.expiration()))
}

// expiration spreads entries uniformly over TTL +/- Jitter so they do not all expire together
func (c *Cache) expiration() time.Duration {
	if c.Jitter <= 0 {
		return c.TTL
	}

	offset := time.Duration(rand.Int64N(int64(2*c.Jitter)+1)) - c.Jitter
	return c.TTL + offset
}
