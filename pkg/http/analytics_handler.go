package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vishalk7890/Support-IQ/pkg/errors"
)

// AnalyticsHandler serves the aggregated coaching dashboard
func (s *Server) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.ErrorResponse(w, errors.NewInvalidInput("only GET is supported"))
		return
	}

	analytics, err := s.dashboard.Dashboard(r.Context())
	if err != nil {
		s.ErrorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(s.dashboard.TTL().Seconds())))
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(analytics); err != nil {
		s.logger.WithError(err).Error("Failed to encode analytics response")
	}
}
