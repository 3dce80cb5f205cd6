package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foundline/foundline-core/internal/report"
	"github.com/foundline/foundline-core/internal/signal"
)

// submitReportRequest is the request body for POST /reports.
type submitReportRequest struct {
	IdentityKey string `json:"identity_key"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// submitReportResponse is the response body for POST /reports.
type submitReportResponse struct {
	Report *report.Report `json:"report"`
	Error  *Error         `json:"error,omitempty"`
}

// handleSubmitReport accepts a lost or found report from the kiosk.
//
// An accepted submission returns 201. A found report whose device signal
// failed returns 502 with the persisted report in the body: the record
// stands, only the indicator pulse was lost. For found reports the request
// blocks for the full activate-hold-deactivate sequence.
func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	var req submitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	result, err := s.intake.Submit(r.Context(), report.SubmitRequest{
		IdentityKey: req.IdentityKey,
		Kind:        report.Kind(req.Kind),
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, report.ErrInvalidKind):
			writeError(w, http.StatusBadRequest, ErrCodeInvalidKind, "kind must be lost or found")
		case errors.Is(err, report.ErrUnregisteredIdentity):
			writeForbidden(w, ErrCodeUnregistered, "identity key is not registered")
		default:
			s.logger.Error("report submission failed", "error", err)
			writeInternalError(w, "failed to submit report")
		}
		return
	}

	if result.SignalErr != nil {
		writeJSON(w, http.StatusBadGateway, submitReportResponse{
			Report: result.Report,
			Error: &Error{
				Status:  http.StatusBadGateway,
				Code:    ErrCodeSignalFailure,
				Message: "report recorded but the indicator could not be signalled",
			},
		})
		return
	}

	writeJSON(w, http.StatusCreated, submitReportResponse{Report: result.Report})
}

// handleListFound returns all found reports, oldest first.
func (s *Server) handleListFound(w http.ResponseWriter, r *http.Request) {
	s.listReports(w, r, report.KindFound)
}

// handleListLost returns all lost reports, oldest first.
func (s *Server) handleListLost(w http.ResponseWriter, r *http.Request) {
	s.listReports(w, r, report.KindLost)
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request, kind report.Kind) {
	reports, err := s.reports.List(r.Context(), report.Filter{Kind: kind})
	if err != nil {
		s.logger.Error("listing reports failed", "kind", kind, "error", err)
		writeInternalError(w, "failed to list reports")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": reports,
		"count":   len(reports),
	})
}

// handleListCategories returns the closed category enumeration the
// indicator device understands, in display order.
func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": signal.Categories,
	})
}

// handleDeleteReport removes a report from the history. Deleting an ID
// that no longer exists succeeds; the end state is the same.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "report id is required")
		return
	}

	if err := s.reports.Delete(r.Context(), id); err != nil {
		s.logger.Error("deleting report failed", "report_id", id, "error", err)
		writeInternalError(w, "failed to delete report")
		return
	}

	session := sessionFromContext(r.Context())
	s.logger.Info("report deleted", "report_id", id, "by", session.Username)
	if s.hub != nil {
		s.hub.Broadcast(EventReportDeleted, map[string]string{"id": id})
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
