// Package store defines conversation persistence: an append-only message
// log and a last-write-wins state record per conversation id.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a conversation has no saved state yet.
var ErrNotFound = errors.New("conversation not found")

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the conversation transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// State is the engine-facing snapshot of a conversation.
type State struct {
	CurrentNodeID   string         `json:"currentNodeId"`
	UserData        map[string]any `json:"userData"`
	ExampleAttempts map[string]int `json:"exampleAttempts"`
	Ended           bool           `json:"ended"`
}

// NewState returns an empty state positioned at the given node.
func NewState(startNodeID string) *State {
	return &State{
		CurrentNodeID:   startNodeID,
		UserData:        map[string]any{},
		ExampleAttempts: map[string]int{},
	}
}

// Store persists conversations. Implementations must be safe for concurrent
// use across conversations; turns within one conversation are sequential by
// contract.
type Store interface {
	AppendMessage(ctx context.Context, conversationID string, msg *Message) error
	Messages(ctx context.Context, conversationID string) ([]*Message, error)
	State(ctx context.Context, conversationID string) (*State, error)
	SaveState(ctx context.Context, conversationID string, state *State) error
}
