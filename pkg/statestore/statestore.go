package statestore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store holds single-use OAuth handshake markers. A marker is written
// when the consent URL is issued and consumed exactly once by the
// callback; a second consume returns false.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr string) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    10 * time.Minute,
	}
}

func (s *Store) Put(ctx context.Context, state, userID string) error {
	return s.client.Set(ctx, key(state), userID, s.ttl).Err()
}

// Consume returns the user the marker was issued for and deletes it.
func (s *Store) Consume(ctx context.Context, state string) (string, bool, error) {
	userID, err := s.client.GetDel(ctx, key(state)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return userID, true, nil
}

func key(state string) string {
	return "oauth_state:" + state
}
