package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomsilver/streamspec/pkg/adapters/redis"
	"github.com/tomsilver/streamspec/pkg/domain"
	"github.com/tomsilver/streamspec/pkg/ports"
)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	ports.RunFactStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	store, mr := newTestStore(t, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	fact := domain.NewFact("pose", domain.Sym("b1"), domain.Sym("p0"))
	require.NoError(t, store.Assert(ctx, fact))

	held, err := store.Holds(ctx, fact)
	require.NoError(t, err)
	assert.True(t, held)

	// Fast forward past the TTL; the whole evaluation base expires.
	mr.FastForward(2 * time.Second)

	held, err = store.Holds(ctx, fact)
	require.NoError(t, err)
	assert.False(t, held, "facts should expire with the key TTL")
}

func TestRedisStore_FactsRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, redis.WithKey("test:facts"))
	ctx := context.Background()

	require.NoError(t, store.Assert(ctx,
		domain.NewFact("supported", domain.Sym("b1"), domain.Sym("p0"), domain.Sym("table")),
		domain.NewFact("handempty"),
	))

	facts, err := store.Facts(ctx)
	require.NoError(t, err)
	require.Len(t, facts, 2)

	keys := map[string]bool{}
	for _, f := range facts {
		keys[f.Key()] = true
	}
	assert.True(t, keys["(supported b1 p0 table)"])
	assert.True(t, keys["(handempty)"])
}

func TestRedisStore_PayloadsStayLocal(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	fact := domain.NewFact("pose", domain.Sym("b1"), domain.Obj("p0", []float64{0.1, 0.2}))
	require.NoError(t, store.Assert(ctx, fact))

	facts, err := store.Facts(ctx)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Nil(t, facts[0].Args[1].Value, "payloads are not persisted")
	assert.Equal(t, "p0", facts[0].Args[1].Name)
}
