package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	"github.com/spigell/interview-screener/internal/store"
	redisstore "github.com/spigell/interview-screener/internal/store/redis"
)

func newTestStore(t *testing.T, opts ...redisstore.Option) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("starting miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redisstore.NewFromClient(client, opts...), mr
}

func TestStateRoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.State(ctx, "c1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	saved := &store.State{
		CurrentNodeID:   "salary",
		UserData:        map[string]any{"name": "Alice", "salary": 90000.0},
		ExampleAttempts: map[string]int{"bug-example": 1},
		Ended:           false,
	}
	if err := s.SaveState(ctx, "c1", saved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.State(ctx, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.CurrentNodeID != "salary" || loaded.UserData["name"] != "Alice" {
		t.Fatalf("unexpected state: %+v", loaded)
	}
	if loaded.ExampleAttempts["bug-example"] != 1 {
		t.Fatalf("unexpected attempts: %v", loaded.ExampleAttempts)
	}
}

func TestStateNormalizesNilMaps(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveState(ctx, "c1", &store.State{CurrentNodeID: "greeting"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.State(ctx, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.UserData == nil || loaded.ExampleAttempts == nil {
		t.Fatalf("expected non-nil maps, got %+v", loaded)
	}
}

func TestMessagesRoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Messages(ctx, "c1")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty history, got %v, %v", empty, err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	first := &store.Message{ID: "m1", Role: store.RoleAssistant, Content: "Hello!", Timestamp: now}
	second := &store.Message{ID: "m2", Role: store.RoleUser, Content: "Hi", Timestamp: now}

	if err := s.AppendMessage(ctx, "c1", first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AppendMessage(ctx, "c1", second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages, err := s.Messages(ctx, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 || messages[0].ID != "m1" || messages[1].Role != store.RoleUser {
		t.Fatalf("unexpected messages: %+v", messages)
	}
	if !messages[0].Timestamp.Equal(now) {
		t.Fatalf("timestamp not preserved: %v", messages[0].Timestamp)
	}
}

func TestTTLApplied(t *testing.T) {
	t.Parallel()

	s, mr := newTestStore(t, redisstore.WithTTL(time.Hour), redisstore.WithPrefix("test:conv:"))
	ctx := context.Background()

	if err := s.SaveState(ctx, "c1", &store.State{CurrentNodeID: "greeting"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AppendMessage(ctx, "c1", &store.Message{ID: "m1", Role: store.RoleAssistant, Content: "Hello!"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"test:conv:c1:state", "test:conv:c1:messages"} {
		if !mr.Exists(key) {
			t.Fatalf("expected key %q to exist", key)
		}
		if mr.TTL(key) != time.Hour {
			t.Fatalf("expected TTL on %q, got %v", key, mr.TTL(key))
		}
	}
}
