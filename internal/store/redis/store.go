// Package redis implements the conversation store on Redis: state as a JSON
// value under a prefixed key, the transcript as a list next to it.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/spigell/interview-screener/internal/store"
)

// Store implements store.Store backed by Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for conversation keys. Zero means no
// expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for conversation keys.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "interview:conversation:",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) stateKey(conversationID string) string {
	return s.prefix + conversationID + ":state"
}

func (s *Store) messagesKey(conversationID string) string {
	return s.prefix + conversationID + ":messages"
}

func (s *Store) AppendMessage(ctx context.Context, conversationID string, msg *store.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	key := s.messagesKey(conversationID)

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append message to redis: %w", err)
	}

	return nil
}

func (s *Store) Messages(ctx context.Context, conversationID string) ([]*store.Message, error) {
	values, err := s.client.LRange(ctx, s.messagesKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read messages from redis: %w", err)
	}

	messages := make([]*store.Message, 0, len(values))
	for _, value := range values {
		var msg store.Message
		if err := json.Unmarshal([]byte(value), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal message: %w", err)
		}
		messages = append(messages, &msg)
	}

	return messages, nil
}

func (s *Store) State(ctx context.Context, conversationID string) (*store.State, error) {
	value, err := s.client.Get(ctx, s.stateKey(conversationID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("read state from redis: %w", err)
	}

	var state store.State
	if err := json.Unmarshal([]byte(value), &state); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}

	if state.UserData == nil {
		state.UserData = map[string]any{}
	}
	if state.ExampleAttempts == nil {
		state.ExampleAttempts = map[string]int{}
	}

	return &state, nil
}

func (s *Store) SaveState(ctx context.Context, conversationID string, state *store.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := s.client.Set(ctx, s.stateKey(conversationID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save state to redis: %w", err)
	}

	return nil
}
