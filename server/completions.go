package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (s *Server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var request ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "invalid_request_error")
		return
	}
	if len(request.Messages) == 0 {
		writeError(w, http.StatusBadRequest,
			"Messages array is required and cannot be empty", "invalid_request_error")
		return
	}

	model := request.Model
	if model == "" {
		model = DefaultModelID
	}

	conversationID := s.rememberConversation(r, request.Messages)

	// The last message is the task; one request maps to one run.
	task := request.Messages[len(request.Messages)-1].Content

	answer, err := s.runner.Run(r.Context(), task)
	if err != nil {
		s.log.Error("task run failed", "conversation_id", conversationID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", "server_error")
		return
	}

	w.Header().Set("X-Conversation-ID", conversationID)
	if request.Stream {
		s.streamCompletion(w, answer, model)
		return
	}
	s.writeCompletion(w, answer, model)
}

func (s *Server) writeCompletion(w http.ResponseWriter, content, model string) {
	words := len(strings.Fields(content))
	writeJSON(w, http.StatusOK, ChatCompletionResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []ChatCompletionChoice{
			{
				Index:        0,
				Message:      ChatMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
		Usage: Usage{
			PromptTokens:     100,
			CompletionTokens: words,
			TotalTokens:      100 + words,
		},
	})
}

// streamCompletion emits the answer as a word-chunked SSE stream. The answer
// is already fully computed; chunking exists purely for client compatibility.
func (s *Server) streamCompletion(w http.ResponseWriter, content, model string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	id := "chatcmpl-" + uuid.NewString()
	created := time.Now().Unix()

	words := strings.Split(content, " ")
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		s.writeChunk(w, StreamChunk{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   model,
			Choices: []StreamChoice{
				{Index: 0, Delta: StreamDelta{Content: chunk}, FinishReason: nil},
			},
		})
		if flusher != nil {
			flusher.Flush()
		}
	}

	stop := "stop"
	s.writeChunk(w, StreamChunk{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   model,
		Choices: []StreamChoice{
			{Index: 0, Delta: StreamDelta{}, FinishReason: &stop},
		},
	})
	fmt.Fprint(w, "data: [DONE]\n\n")
	if flusher != nil {
		flusher.Flush()
	}
}

func (s *Server) writeChunk(w http.ResponseWriter, chunk StreamChunk) {
	data, err := json.Marshal(chunk)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}

// handleCompletions adapts the legacy completions endpoint by wrapping the
// prompt into a single-message chat request.
func (s *Server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	var request CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "invalid_request_error")
		return
	}
	if request.Prompt == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required", "invalid_request_error")
		return
	}

	chat := ChatCompletionRequest{
		Model:    request.Model,
		Messages: []ChatMessage{{Role: "user", Content: request.Prompt}},
		Stream:   request.Stream,
	}
	body, err := json.Marshal(chat)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", "server_error")
		return
	}
	proxied := r.Clone(r.Context())
	proxied.Body = nopCloser{strings.NewReader(string(body))}
	s.handleChatCompletions(w, proxied)
}

type nopCloser struct{ *strings.Reader }

func (nopCloser) Close() error { return nil }
