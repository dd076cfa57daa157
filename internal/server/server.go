// Package server exposes the turn endpoint over HTTP. Transport stays thin:
// input validation and persistence glue live here, every dialogue decision
// belongs to the engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/interview-screener/internal/engine"
	"github.com/spigell/interview-screener/internal/store"
)

type Server struct {
	router *chi.Mux
	addr   string
	engine *engine.Engine
	store  store.Store
	logger *zap.Logger
}

func New(addr string, eng *engine.Engine, st store.Store, logger *zap.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		addr:   addr,
		engine: eng,
		store:  st,
		logger: logger,
	}

	router.Get("/health", s.health)
	router.Post("/api/v1/chat", s.chat)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("http server starting", zap.String("addr", s.addr))
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// turnRequest is the turn endpoint contract. Messages is kept raw so a
// missing or non-array value can be rejected before any engine logic runs.
type turnRequest struct {
	ConversationID  string          `json:"conversationId"`
	Messages        json.RawMessage `json:"messages"`
	CurrentNodeID   string          `json:"currentNodeId"`
	UserData        map[string]any  `json:"userData"`
	ExampleAttempts map[string]int  `json:"exampleAttempts"`
}

type turnMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type turnResponse struct {
	ID               string         `json:"id"`
	Role             string         `json:"role"`
	Content          string         `json:"content"`
	NextNodeID       string         `json:"nextNodeId"`
	UserData         map[string]any `json:"userData"`
	ExampleAttempts  map[string]int `json:"exampleAttempts"`
	EndConversation  bool           `json:"endConversation"`
	WasExamplePrompt bool           `json:"wasExamplePrompt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request format"})
		return
	}

	// An absent key and an explicit JSON null both leave no array to work
	// with; unmarshaling "null" into a slice succeeds, so it is checked
	// separately.
	var messages []turnMessage
	if req.Messages == nil || string(req.Messages) == "null" || json.Unmarshal(req.Messages, &messages) != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Messages must be an array"})
		return
	}

	ctx := r.Context()

	var lastUser *turnMessage
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == store.RoleUser {
			lastUser = &messages[i]
			break
		}
	}

	// No candidate input yet: open with the start node.
	if lastUser == nil {
		result := s.engine.Greeting()
		s.persistTurn(ctx, req.ConversationID, nil, result)
		writeJSON(w, http.StatusOK, responseFromResult(result))
		return
	}

	ended := false
	if req.ConversationID != "" {
		if state, err := s.store.State(ctx, req.ConversationID); err == nil {
			ended = state.Ended
		} else if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("loading conversation state failed",
				zap.String("conversation_id", req.ConversationID),
				zap.Error(err),
			)
		}
	}

	result := s.engine.Process(ctx, &engine.Request{
		NodeID:   req.CurrentNodeID,
		UserText: lastUser.Content,
		UserData: req.UserData,
		Attempts: req.ExampleAttempts,
		Ended:    ended,
	})

	s.persistTurn(ctx, req.ConversationID, lastUser, result)
	writeJSON(w, http.StatusOK, responseFromResult(result))
}

// persistTurn stores the exchanged messages and the new state. Persistence
// failures are logged and swallowed: the turn already succeeded and the
// caller carries the state in the response.
func (s *Server) persistTurn(ctx context.Context, conversationID string, userMsg *turnMessage, result *engine.Result) {
	if conversationID == "" {
		return
	}

	now := time.Now().UTC()

	if userMsg != nil {
		err := s.store.AppendMessage(ctx, conversationID, &store.Message{
			ID:        uuid.NewString(),
			Role:      store.RoleUser,
			Content:   userMsg.Content,
			Timestamp: now,
		})
		if err != nil {
			s.logger.Warn("appending user message failed", zap.String("conversation_id", conversationID), zap.Error(err))
		}
	}

	err := s.store.AppendMessage(ctx, conversationID, &store.Message{
		ID:        uuid.NewString(),
		Role:      store.RoleAssistant,
		Content:   result.Content,
		Timestamp: now,
	})
	if err != nil {
		s.logger.Warn("appending assistant message failed", zap.String("conversation_id", conversationID), zap.Error(err))
	}

	err = s.store.SaveState(ctx, conversationID, &store.State{
		CurrentNodeID:   result.NextNodeID,
		UserData:        result.UserData,
		ExampleAttempts: result.Attempts,
		Ended:           result.EndConversation,
	})
	if err != nil {
		s.logger.Warn("saving conversation state failed", zap.String("conversation_id", conversationID), zap.Error(err))
	}
}

func responseFromResult(result *engine.Result) turnResponse {
	return turnResponse{
		ID:               uuid.NewString(),
		Role:             store.RoleAssistant,
		Content:          result.Content,
		NextNodeID:       result.NextNodeID,
		UserData:         result.UserData,
		ExampleAttempts:  result.Attempts,
		EndConversation:  result.EndConversation,
		WasExamplePrompt: result.WasExamplePrompt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
