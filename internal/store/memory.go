package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by the chat command and tests.
type Memory struct {
	mu       sync.RWMutex
	messages map[string][]*Message
	states   map[string]*State
}

func NewMemory() *Memory {
	return &Memory{
		messages: make(map[string][]*Message),
		states:   make(map[string]*State),
	}
}

func (m *Memory) AppendMessage(_ context.Context, conversationID string, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *msg
	m.messages[conversationID] = append(m.messages[conversationID], &copied)
	return nil
}

func (m *Memory) Messages(_ context.Context, conversationID string) ([]*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.messages[conversationID]
	out := make([]*Message, len(stored))
	for i, msg := range stored {
		copied := *msg
		out[i] = &copied
	}
	return out, nil
}

func (m *Memory) State(_ context.Context, conversationID string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.states[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneState(state), nil
}

func (m *Memory) SaveState(_ context.Context, conversationID string, state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[conversationID] = cloneState(state)
	return nil
}

func cloneState(state *State) *State {
	cloned := &State{
		CurrentNodeID:   state.CurrentNodeID,
		UserData:        make(map[string]any, len(state.UserData)),
		ExampleAttempts: make(map[string]int, len(state.ExampleAttempts)),
		Ended:           state.Ended,
	}
	for k, v := range state.UserData {
		cloned.UserData[k] = v
	}
	for k, v := range state.ExampleAttempts {
		cloned.ExampleAttempts[k] = v
	}
	return cloned
}
