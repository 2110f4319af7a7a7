// Package cache puts a Redis read-through cache in front of a resource
// fetcher.  Showtimes and seat maps rarely change and are shared by every
// session on the same showtime, so they are cached; availability is
// volatile and is only cached when explicitly configured.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/iliyamo/cinema-seat-selection/internal/config"
	"github.com/iliyamo/cinema-seat-selection/internal/loader"
	"github.com/iliyamo/cinema-seat-selection/internal/model"
)

// ErrMiss is returned by a Store when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store is the byte cache behind a Fetcher.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// RedisStore adapts a go-redis client to Store.
type RedisStore struct{ rdb *redis.Client }

func NewRedisStore(rdb *redis.Client) RedisStore { return RedisStore{rdb: rdb} }

func (s RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	bs, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return bs, err
}

func (s RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, val, ttl).Err()
}

// upstreamTimeout bounds a shared fetch; it runs detached from the
// context of whichever caller started it.
const upstreamTimeout = 10 * time.Second

// Fetcher wraps a loader.Fetcher.  Concurrent misses for the same key
// share one upstream call.
type Fetcher struct {
	inner           loader.Fetcher
	store           Store
	ttl             time.Duration
	availabilityTTL time.Duration
	prefix          string
	group           singleflight.Group
	log             *zap.Logger
}

// Wrap returns inner wrapped by a cache over store.  With caching
// disabled or no store, inner is returned unchanged.
func Wrap(inner loader.Fetcher, store Store, cfg config.CacheConfig, log *zap.Logger) loader.Fetcher {
	if !cfg.Enabled || store == nil {
		return inner
	}
	if log == nil {
		log = zap.NewNop()
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "seatsel"
	}
	return &Fetcher{
		inner:           inner,
		store:           store,
		ttl:             cfg.TTL,
		availabilityTTL: cfg.AvailabilityTTL,
		prefix:          prefix,
		log:             log,
	}
}

// key builds a stable cache key: prefix plus the sha1 of kind and id.
func (f *Fetcher) key(kind loader.Kind, id uint64) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s:%d", kind, id)))
	return fmt.Sprintf("%s:%s:%x", f.prefix, kind, sum[:])
}

func (f *Fetcher) FetchShowtime(ctx context.Context, id uint64) (*model.Showtime, error) {
	return readThrough(ctx, f, loader.KindShowtime, id, f.ttl, func(ctx context.Context) (*model.Showtime, error) {
		return f.inner.FetchShowtime(ctx, id)
	})
}

func (f *Fetcher) FetchRoomSeats(ctx context.Context, roomID uint64) ([]model.Seat, error) {
	return readThrough(ctx, f, loader.KindRoomSeats, roomID, f.ttl, func(ctx context.Context) ([]model.Seat, error) {
		return f.inner.FetchRoomSeats(ctx, roomID)
	})
}

func (f *Fetcher) FetchAvailableSeats(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	return readThrough(ctx, f, loader.KindAvailability, showtimeID, f.availabilityTTL, func(ctx context.Context) ([]model.Seat, error) {
		return f.inner.FetchAvailableSeats(ctx, showtimeID)
	})
}

// readThrough serves from the store when possible.  A zero ttl skips the
// store entirely but still coalesces concurrent calls.
func readThrough[T any](ctx context.Context, f *Fetcher, kind loader.Kind, id uint64, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	key := f.key(kind, id)

	if ttl > 0 {
		bs, err := f.store.Get(ctx, key)
		switch {
		case err == nil:
			var v T
			if jerr := json.Unmarshal(bs, &v); jerr == nil {
				f.log.Debug("cache hit", zap.String("key", key))
				return v, nil
			}
			f.log.Warn("cache entry unreadable", zap.String("key", key))
		case !errors.Is(err, ErrMiss):
			f.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
	}

	ch := f.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), upstreamTimeout)
		defer cancel()
		v, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		if ttl > 0 {
			if bs, jerr := json.Marshal(v); jerr == nil {
				if serr := f.store.Set(fctx, key, bs, ttl); serr != nil {
					f.log.Warn("cache set failed", zap.String("key", key), zap.Error(serr))
				}
			}
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(T), nil
	}
}
