package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/foundline/foundline-core/internal/signal"
)

// manualSignalRequest is the request body for POST /operator/signal.
type manualSignalRequest struct {
	Category string `json:"category"`
	State    string `json:"state"`
}

// handleManualSignal switches one indicator channel on or off directly,
// with no dwell and no ledger entry. Front-desk staff use this to clear a
// stuck channel or light one up while assisting a visitor.
func (s *Server) handleManualSignal(w http.ResponseWriter, r *http.Request) {
	var req manualSignalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	category := signal.Category(req.Category)
	state := signal.State(req.State)

	err := s.signals.SetState(r.Context(), category, state)
	if err != nil {
		switch {
		case errors.Is(err, signal.ErrUnknownCategory):
			writeError(w, http.StatusBadRequest, ErrCodeUnknownCategory, "unknown category: "+req.Category)
		case errors.Is(err, signal.ErrUnknownState):
			writeError(w, http.StatusBadRequest, ErrCodeUnknownState, "state must be on or off")
		case errors.Is(err, signal.ErrDeviceUnavailable):
			writeError(w, http.StatusBadGateway, ErrCodeSignalFailure, "indicator device is unreachable")
		default:
			s.logger.Error("manual signal failed", "category", req.Category, "error", err)
			writeInternalError(w, "failed to switch indicator")
		}
		return
	}

	session := sessionFromContext(r.Context())
	s.logger.Info("manual signal",
		"category", category,
		"state", state,
		"by", session.Username,
	)
	if s.hub != nil {
		s.hub.Broadcast(EventSignalChanged, map[string]string{
			"category": string(category),
			"state":    string(state),
		})
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"category": string(category),
		"state":    string(state),
	})
}
