package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryMessages(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	if err := m.AppendMessage(ctx, "c1", &Message{ID: "m1", Role: RoleAssistant, Content: "Hello!", Timestamp: time.Now()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AppendMessage(ctx, "c1", &Message{ID: "m2", Role: RoleUser, Content: "Hi", Timestamp: time.Now()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages, err := m.Messages(ctx, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 || messages[0].ID != "m1" || messages[1].Role != RoleUser {
		t.Fatalf("unexpected messages: %+v", messages)
	}

	// Unknown conversations read as empty, not as errors.
	empty, err := m.Messages(ctx, "unknown")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty history, got %v, %v", empty, err)
	}
}

func TestMemoryState(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	if _, err := m.State(ctx, "c1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	saved := NewState("greeting")
	saved.UserData["name"] = "Alice"
	if err := m.SaveState(ctx, "c1", saved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := m.State(ctx, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.CurrentNodeID != "greeting" || loaded.UserData["name"] != "Alice" {
		t.Fatalf("unexpected state: %+v", loaded)
	}

	// Stored state is isolated from caller mutations.
	saved.UserData["name"] = "Bob"
	loaded.UserData["name"] = "Carol"

	again, err := m.State(ctx, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.UserData["name"] != "Alice" {
		t.Fatalf("expected stored copy to be isolated, got %v", again.UserData)
	}
}
