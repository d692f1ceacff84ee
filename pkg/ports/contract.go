package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomsilver/streamspec/pkg/domain"
)

// RunFactStoreContract verifies that a FactStore implementation adheres to
// the interface contract. Adapter test suites call it against their store.
func RunFactStoreContract(t *testing.T, store FactStore) {
	ctx := context.Background()

	pose := domain.NewFact("pose", domain.Sym("b1"), domain.Sym("p0"))
	conf := domain.NewFact("conf", domain.Sym("q0"))

	t.Run("Assert and Holds", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))

		err := store.Assert(ctx, pose, conf)
		require.NoError(t, err, "Assert should not return error")

		held, err := store.Holds(ctx, pose)
		require.NoError(t, err)
		assert.True(t, held, "asserted fact should hold")

		held, err = store.Holds(ctx, domain.NewFact("pose", domain.Sym("b2"), domain.Sym("p0")))
		require.NoError(t, err)
		assert.False(t, held, "unasserted fact should not hold")
	})

	t.Run("Assert is idempotent", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))

		require.NoError(t, store.Assert(ctx, conf))
		require.NoError(t, store.Assert(ctx, conf))

		facts, err := store.Facts(ctx)
		require.NoError(t, err)
		assert.Len(t, facts, 1)
	})

	t.Run("Facts snapshot", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Assert(ctx, pose, conf))

		facts, err := store.Facts(ctx)
		require.NoError(t, err)

		keys := make(map[string]bool, len(facts))
		for _, f := range facts {
			keys[f.Key()] = true
		}
		assert.True(t, keys[pose.Key()])
		assert.True(t, keys[conf.Key()])
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Assert(ctx, pose))
		require.NoError(t, store.Clear(ctx))

		facts, err := store.Facts(ctx)
		require.NoError(t, err)
		assert.Empty(t, facts)
	})
}
