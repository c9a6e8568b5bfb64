package http

import (
	"encoding/json"
	"net/http"

	"github.com/vishalk7890/Support-IQ/pkg/errors"
)

// IngestRequest is the body of a transcript ingest call, listing the
// object keys to derive insights from
type IngestRequest struct {
	Keys []string `json:"keys"`
}

// IngestResponse reports how many keys an ingest call covered
type IngestResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
}

// IngestHandler derives and stores insights for newly uploaded transcripts
func (s *Server) IngestHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.ErrorResponse(w, errors.NewInvalidInput("only POST is supported"))
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.ErrorResponse(w, errors.NewInvalidInput("invalid JSON body"))
		return
	}
	if len(req.Keys) == 0 {
		s.ErrorResponse(w, errors.NewInvalidInput("keys must not be empty"))
		return
	}

	processed := s.ingest.Process(r.Context(), req.Keys)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(IngestResponse{
		Message:   "Successfully processed transcripts",
		Processed: processed,
	})
}
