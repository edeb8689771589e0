// Package session tracks per-user conversational state between messages:
// whether the bot is waiting for a ticket body or a ticket id from the user.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// State enumerates conversational states.
type State string

const (
	StateNone             State = ""
	StateAwaitingBody     State = "awaiting_body"
	StateAwaitingTicketID State = "awaiting_ticket_id"
)

// Store persists conversational state per user.
type Store interface {
	Get(ctx context.Context, userID int64) (State, error)
	Set(ctx context.Context, userID int64, state State) error
	Clear(ctx context.Context, userID int64) error
}

type memoryStore struct {
	mu     sync.Mutex
	states map[int64]State
}

// NewMemoryStore keeps state in process memory; sessions do not survive a
// restart, which only means a user has to pick a menu item again.
func NewMemoryStore() Store {
	return &memoryStore{states: make(map[int64]State)}
}

func (s *memoryStore) Get(_ context.Context, userID int64) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID], nil
}

func (s *memoryStore) Set(_ context.Context, userID int64, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
	return nil
}

func (s *memoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
	return nil
}

const sessionTTL = time.Hour

type redisStore struct {
	client *redis.Client
}

// NewRedisStore keeps state in redis so conversations survive restarts when
// a redis address is configured.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("support:session:%d", userID)
}

func (s *redisStore) Get(ctx context.Context, userID int64) (State, error) {
	val, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return StateNone, nil
		}
		return StateNone, err
	}
	return State(val), nil
}

func (s *redisStore) Set(ctx context.Context, userID int64, state State) error {
	return s.client.Set(ctx, sessionKey(userID), string(state), sessionTTL).Err()
}

func (s *redisStore) Clear(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}
