package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/session"
)

// SessionHandler exposes the access token of the operator session
type SessionHandler struct {
	session *session.Session
	logger  *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sess *session.Session, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		session: sess,
		logger:  logger,
	}
}

// SessionResponse never carries the token itself
type SessionResponse struct {
	TokenSet bool `json:"token_set"`
}

type setTokenRequest struct {
	Token string `json:"token"`
}

// GetSession handles GET /api/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, SessionResponse{TokenSet: h.session.Token() != ""}, h.logger)
}

// SetToken handles PUT /api/session/token. An empty token clears it.
func (h *SessionHandler) SetToken(w http.ResponseWriter, r *http.Request) {
	var req setTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode token request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if err := h.session.SetToken(r.Context(), req.Token); err != nil {
		h.logger.Error("failed to persist token", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to save token", h.logger)
		return
	}

	h.logger.Info("access token updated", "token_set", h.session.Token() != "")
	WriteJSON(w, http.StatusOK, SessionResponse{TokenSet: h.session.Token() != ""}, h.logger)
}
