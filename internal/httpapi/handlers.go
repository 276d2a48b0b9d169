package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/MimeLyc/dreamsense/internal/dream"
)

const maxRequestBody = 1 << 20

type interpretRequest struct {
	DreamText string `json:"dream_text"`
}

type interpretResponse struct {
	Data dream.Result `json:"data"`
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req interpretRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	result := s.svc.Interpret(r.Context(), req.DreamText)
	if result.Symbols == nil {
		result.Symbols = []dream.Symbol{}
	}
	writeJSON(w, http.StatusOK, interpretResponse{Data: result})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":              true,
		"dictionary_size": s.svc.Dictionary().Len(),
		"remote_enabled":  s.svc.RemoteEnabled(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
