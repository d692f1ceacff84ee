package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/tomsilver/streamspec/pkg/domain"
	"github.com/tomsilver/streamspec/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunFactStoreContract(t, NewStore())
}

func TestStore_AssertHolds(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	fact := domain.NewFact("pose", domain.Sym("b1"), domain.Sym("p0"))
	if err := store.Assert(ctx, fact); err != nil {
		t.Fatalf("Assert() error = %v", err)
	}

	held, err := store.Holds(ctx, fact)
	if err != nil || !held {
		t.Errorf("Holds() = %v, %v, want true, nil", held, err)
	}

	absent, _ := store.Holds(ctx, domain.NewFact("pose", domain.Sym("b2"), domain.Sym("p0")))
	if absent {
		t.Error("Holds() should be false for unasserted fact")
	}
}

func TestStore_AssertIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	fact := domain.NewFact("conf", domain.Sym("q0"))

	for i := 0; i < 3; i++ {
		if err := store.Assert(ctx, fact); err != nil {
			t.Fatalf("Assert() error = %v", err)
		}
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestStore_SeedAndClear(t *testing.T) {
	ctx := context.Background()
	store := Seed(
		domain.NewFact("stackable", domain.Sym("b1"), domain.Sym("table")),
		domain.NewFact("conf", domain.Sym("q0")),
	)

	facts, err := store.Facts(ctx)
	if err != nil || len(facts) != 2 {
		t.Fatalf("Facts() = %v, %v, want 2 facts", facts, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", store.Len())
	}
}

func TestStore_ConcurrentAssert(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			fact := domain.NewFact("conf", domain.Sym(string(rune('a'+n))))
			_ = store.Assert(ctx, fact)
			_, _ = store.Holds(ctx, fact)
		}(i)
	}
	wg.Wait()

	if store.Len() != 16 {
		t.Errorf("Len() = %d, want 16", store.Len())
	}
}
