package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	redislib "github.com/redis/go-redis/v9"

	"github.com/iho/gocredit/internal/infrastructure/metrics"
)

// storeFixture is an IdempotencyStore backed by miniredis with its own
// metrics registry.
type storeFixture struct {
	store   *IdempotencyStore
	client  *redislib.Client
	mr      *miniredis.Miniredis
	metrics *metrics.Metrics
}

func newStoreFixture(t *testing.T) storeFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	m := metrics.New(prometheus.NewRegistry())

	return storeFixture{
		store:   NewIdempotencyStore(client, m),
		client:  client,
		mr:      mr,
		metrics: m,
	}
}

func (f storeFixture) key(k string) string {
	return f.store.prefix + k
}
