package api

import (
	"encoding/json"
	"net/http"

	"github.com/foundline/foundline-core/internal/registry"
)

// registerIdentityRequest is the request body for POST /admin/identities.
type registerIdentityRequest struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// handleRegisterIdentity adds a registration key to the admitted set.
// Registering a key that already exists succeeds without changing the
// stored record.
func (s *Server) handleRegisterIdentity(w http.ResponseWriter, r *http.Request) {
	var req registerIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if !registry.IsValidKey(req.Key) {
		writeBadRequest(w, "key must be 1-32 characters of letters, digits, or hyphens")
		return
	}

	identity := &registry.Identity{Key: req.Key, Name: req.Name}
	if err := s.identities.Create(r.Context(), identity); err != nil {
		s.logger.Error("registering identity failed", "key", req.Key, "error", err)
		writeInternalError(w, "failed to register identity")
		return
	}

	session := sessionFromContext(r.Context())
	s.logger.Info("identity registered", "key", req.Key, "by", session.Username)

	writeJSON(w, http.StatusCreated, identity)
}

// handleListIdentities returns all registered identities.
func (s *Server) handleListIdentities(w http.ResponseWriter, r *http.Request) {
	identities, err := s.identities.List(r.Context())
	if err != nil {
		s.logger.Error("listing identities failed", "error", err)
		writeInternalError(w, "failed to list identities")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"identities": identities,
		"count":      len(identities),
	})
}
