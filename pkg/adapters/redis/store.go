// Package redis provides a fact store backed by Redis, for sharing an
// evaluation base across processes.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/tomsilver/streamspec/pkg/domain"
)

// Store implements ports.FactStore on a Redis set of canonical fact keys.
// Only the symbolic part of each fact survives the round trip; object
// payloads stay process-local by design.
type Store struct {
	client *backend.Client
	key    string
	ttl    time.Duration
}

// Option configures the store.
type Option func(*Store)

// WithTTL sets an expiration refreshed on every Assert.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithKey sets the Redis key holding the fact set.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// New creates a Redis fact store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis fact store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		key:    "streamspec:facts",
		ttl:    0, // no expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Assert adds facts to the set.
func (s *Store) Assert(ctx context.Context, facts ...domain.Fact) error {
	if len(facts) == 0 {
		return nil
	}
	members := make([]any, len(facts))
	for i, f := range facts {
		members[i] = f.Key()
	}
	if err := s.client.SAdd(ctx, s.key, members...).Err(); err != nil {
		return fmt.Errorf("redis assert: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key, s.ttl).Err(); err != nil {
			return fmt.Errorf("redis assert: %w", err)
		}
	}
	return nil
}

// Holds reports set membership for the fact's canonical key.
func (s *Store) Holds(ctx context.Context, fact domain.Fact) (bool, error) {
	held, err := s.client.SIsMember(ctx, s.key, fact.Key()).Result()
	if err != nil {
		return false, fmt.Errorf("redis holds: %w", err)
	}
	return held, nil
}

// Facts returns every stored fact, reconstructed from canonical keys.
func (s *Store) Facts(ctx context.Context) ([]domain.Fact, error) {
	members, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis facts: %w", err)
	}

	facts := make([]domain.Fact, 0, len(members))
	for _, member := range members {
		fact, err := parseKey(member)
		if err != nil {
			return nil, fmt.Errorf("redis facts: %w", err)
		}
		facts = append(facts, fact)
	}
	return facts, nil
}

// Clear deletes the fact set.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// parseKey inverts domain.Fact.Key: "(pose b1 p0)" -> Fact.
func parseKey(key string) (domain.Fact, error) {
	trimmed := strings.TrimSpace(key)
	if !strings.HasPrefix(trimmed, "(") || !strings.HasSuffix(trimmed, ")") {
		return domain.Fact{}, fmt.Errorf("malformed fact key %q", key)
	}
	fields := strings.Fields(trimmed[1 : len(trimmed)-1])
	if len(fields) == 0 {
		return domain.Fact{}, fmt.Errorf("malformed fact key %q", key)
	}

	args := make([]domain.Object, len(fields)-1)
	for i, name := range fields[1:] {
		args[i] = domain.Sym(name)
	}
	return domain.Fact{Predicate: fields[0], Args: args}, nil
}
