// Package server exposes a coordinator through an OpenAI-compatible HTTP API.
//
// POST /v1/chat/completions runs one task per request (the last user message
// is the task) and returns either a single completion object or a word-chunked
// SSE stream. GET /v1/models returns a static catalog. The embeddings,
// completions, and engines endpoints are fixed-shape compatibility stubs.
// Unprefixed aliases (/models, /chat/completions) are kept for clients that
// omit the /v1 prefix.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reagentdev/reagent"
	"github.com/rs/cors"
)

// DefaultModelID is the model name under which the agent is advertised.
const DefaultModelID = "reagent"

// Server is the OpenAI-compatible front end. It holds no decision logic:
// every request maps 1:1 to one Runner task run.
type Server struct {
	runner reagent.Runner
	log    *slog.Logger

	// conversations retains request message history per conversation ID for
	// the lifetime of the process only.
	mu            sync.Mutex
	conversations map[string][]ChatMessage
}

// New creates a Server driving the given runner.
func New(runner reagent.Runner, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		runner:        runner,
		log:           log,
		conversations: make(map[string][]ChatMessage),
	}
}

// Handler returns the fully routed HTTP handler, CORS enabled.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/models", s.handleModels)
	mux.HandleFunc("POST /v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("POST /v1/completions", s.handleCompletions)
	mux.HandleFunc("POST /v1/embeddings", s.handleEmbeddings)
	mux.HandleFunc("GET /v1/engines", s.handleEngines)

	// Aliases for clients that omit the /v1 prefix.
	mux.HandleFunc("GET /models", s.handleModels)
	mux.HandleFunc("POST /chat/completions", s.handleChatCompletions)

	return cors.AllowAll().Handler(s.logged(mux))
}

// ListenAndServe runs the HTTP server until ctx is cancelled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.log.Info("http server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// rememberConversation stores the request's messages under its conversation
// ID, creating a fresh ID when the client didn't send one.
func (s *Server) rememberConversation(r *http.Request, messages []ChatMessage) string {
	id := r.Header.Get("X-Conversation-ID")
	if id == "" {
		id = uuid.NewString()
	}
	s.mu.Lock()
	s.conversations[id] = messages
	s.mu.Unlock()
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, errType string) {
	writeJSON(w, status, ErrorResponse{
		Error: APIError{Message: message, Type: errType},
	})
}
