package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/interview-screener/internal/ai"
	"github.com/spigell/interview-screener/internal/engine"
	"github.com/spigell/interview-screener/internal/script"
	"github.com/spigell/interview-screener/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()

	eng := engine.New(script.SoftwareEngineer(), script.DefaultJobDescription(), ai.NewFallbackAnalyzer(), zap.NewNop())
	memory := store.NewMemory()
	return New(":0", eng, memory, zap.NewNop()), memory
}

func postChat(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeTurn(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return payload
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestChatRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{not json`, "Invalid request format"},
		{"missing messages", `{"currentNodeId": "greeting"}`, "Messages must be an array"},
		{"messages null", `{"messages": null}`, "Messages must be an array"},
		{"messages not an array", `{"messages": "hello"}`, "Messages must be an array"},
		{"messages numeric", `{"messages": 42}`, "Messages must be an array"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postChat(t, srv, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.want) {
				t.Fatalf("unexpected error body: %s", rec.Body.String())
			}
		})
	}
}

func TestChatGreetsWithoutUserMessage(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := postChat(t, srv, `{"messages": []}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	payload := decodeTurn(t, rec)
	if payload["nextNodeId"] != script.NodeGreeting {
		t.Fatalf("expected greeting node, got %v", payload["nextNodeId"])
	}
	if payload["endConversation"] != false {
		t.Fatalf("greeting must not end the conversation")
	}
	if payload["role"] != store.RoleAssistant || payload["id"] == "" {
		t.Fatalf("unexpected message envelope: %v", payload)
	}
}

func TestChatProcessesTurn(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	body := `{
		"messages": [
			{"role": "assistant", "content": "Hello! ..."},
			{"role": "user", "content": "yes"}
		],
		"currentNodeId": "greeting",
		"userData": {},
		"exampleAttempts": {}
	}`

	rec := postChat(t, srv, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	payload := decodeTurn(t, rec)
	if payload["nextNodeId"] != script.NodeName {
		t.Fatalf("expected name node, got %v", payload["nextNodeId"])
	}
	if !strings.Contains(payload["content"].(string), "What is your name?") {
		t.Fatalf("unexpected content: %v", payload["content"])
	}
}

func TestChatPersistsConversation(t *testing.T) {
	t.Parallel()

	srv, memory := newTestServer(t)

	body := `{
		"conversationId": "c1",
		"messages": [{"role": "user", "content": "yes"}],
		"currentNodeId": "greeting"
	}`

	if rec := postChat(t, srv, body); rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	ctx := context.Background()

	state, err := memory.State(ctx, "c1")
	if err != nil {
		t.Fatalf("expected persisted state: %v", err)
	}
	if state.CurrentNodeID != script.NodeName || state.Ended {
		t.Fatalf("unexpected state: %+v", state)
	}

	messages, err := memory.Messages(ctx, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 || messages[0].Role != store.RoleUser || messages[1].Role != store.RoleAssistant {
		t.Fatalf("unexpected transcript: %+v", messages)
	}
}

func TestChatHonorsPersistedTermination(t *testing.T) {
	t.Parallel()

	srv, memory := newTestServer(t)

	err := memory.SaveState(context.Background(), "c1", &store.State{
		CurrentNodeID:   script.NodeEnding,
		UserData:        map[string]any{},
		ExampleAttempts: map[string]int{},
		Ended:           true,
	})
	if err != nil {
		t.Fatalf("seeding state: %v", err)
	}

	body := `{
		"conversationId": "c1",
		"messages": [{"role": "user", "content": "hello again"}],
		"currentNodeId": "ending"
	}`

	rec := postChat(t, srv, body)
	payload := decodeTurn(t, rec)

	if payload["nextNodeId"] != script.NodeEnding || payload["endConversation"] != true {
		t.Fatalf("expected terminal turn to stay terminal, got %v", payload)
	}
}

func TestChatStatelessTurnWithoutConversationID(t *testing.T) {
	t.Parallel()

	srv, memory := newTestServer(t)

	body := `{
		"messages": [{"role": "user", "content": "$85k"}],
		"currentNodeId": "salary"
	}`

	rec := postChat(t, srv, body)
	payload := decodeTurn(t, rec)

	if payload["nextNodeId"] != "agile-experience" {
		t.Fatalf("unexpected transition: %v", payload["nextNodeId"])
	}

	userData, ok := payload["userData"].(map[string]any)
	if !ok || userData["salary"] != 85000.0 {
		t.Fatalf("expected extracted salary in response, got %v", payload["userData"])
	}

	if _, err := memory.State(context.Background(), "c1"); err == nil {
		t.Fatalf("stateless turns must not persist anything")
	}
}
