package server

import (
	"net/http"
	"time"
)

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ModelsResponse{
		Object: "list",
		Data: []Model{
			{
				ID:      DefaultModelID,
				Object:  "model",
				Created: time.Now().Unix(),
				OwnedBy: "reagent",
			},
		},
	})
}

// handleEmbeddings returns a zero vector so clients that probe the endpoint
// during setup do not fail. Real embeddings are out of scope.
func (s *Server) handleEmbeddings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"object": "list",
		"data": []map[string]any{
			{
				"object":    "embedding",
				"index":     0,
				"embedding": make([]float64, 1536),
			},
		},
		"model": DefaultModelID,
		"usage": map[string]int{"prompt_tokens": 0, "total_tokens": 0},
	})
}

func (s *Server) handleEngines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"id": DefaultModelID, "object": "engine", "ready": true},
		},
	})
}
