package session

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Handler exposes the minimal HTTP surface of the session collaborator:
// issue a session for a bidder id and tear one down. There is no password
// flow here; callers arrive with an identity the surrounding deployment
// already vouches for.
type Handler struct {
	registry *Registry
}

// NewHandler creates a session handler over a registry.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

type loginRequest struct {
	BidderID string `json:"bidder_id"`
}

type loginResponse struct {
	OK       bool   `json:"ok"`
	SID      string `json:"sid"`
	BidderID string `json:"bidder_id"`
}

// HandleLogin issues a session and sets the sid cookie.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.BidderID) < 3 {
		http.Error(w, "bidder_id must be at least 3 chars", http.StatusBadRequest)
		return
	}

	sid := h.registry.Issue(req.BidderID)
	http.SetCookie(w, &http.Cookie{
		Name:     "sid",
		Value:    sid,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})

	log.Info().Str("bidder_id", req.BidderID).Msg("session issued")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{OK: true, SID: sid, BidderID: req.BidderID})
}

// HandleLogout revokes the request's session, if any.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie("sid"); err == nil {
		h.registry.Revoke(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "sid",
		Value:    "",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true}`))
}

// RegisterRoutes registers session routes with an HTTP mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/auth/login", h.HandleLogin)
	mux.HandleFunc("/auth/logout", h.HandleLogout)
}
