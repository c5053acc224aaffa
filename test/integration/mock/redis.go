package mock

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	redisOnce sync.Once
	redisMock *Redis
)

// Redis wraps a miniredis server so steps can inspect and age the report cache.
type Redis struct {
	server *miniredis.Miniredis
	client *redis.Client
}

// NewRedis starts the shared miniredis server on first use.
func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisMock = &Redis{
			server: server,
			client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
		}
	})
	return redisMock
}

// Client returns a go-redis client connected to the mock.
func (r *Redis) Client() *redis.Client {
	return r.client
}

// Clear drops every key.
func (r *Redis) Clear() error {
	return r.client.FlushAll(context.Background()).Err()
}

// CountKeys counts the keys starting with prefix.
func (r *Redis) CountKeys(prefix string) int {
	count := 0
	for _, key := range r.server.Keys() {
		if strings.HasPrefix(key, prefix) {
			count++
		}
	}
	return count
}

// FastForward moves the server clock so TTLs expire.
func (r *Redis) FastForward(d time.Duration) {
	r.server.FastForward(d)
}
