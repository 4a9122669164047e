package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a TTL cache shared by all request workers. Entries go stale up to
// their TTL; nothing in this service invalidates them on writes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New returns a redis-backed store when addr is set and reachable, otherwise
// an in-process store. The fallback keeps single-instance deployments and
// tests free of a redis dependency.
func New(addr, password string) Store {
	if addr == "" {
		return NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("cache: redis at %s unreachable (%v), falling back to in-memory store", addr, err)
		return NewMemoryStore()
	}

	return NewRedisStore(client)
}
