package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/homebase/internal/auth"
	"github.com/dukerupert/homebase/internal/middleware"
	"github.com/dukerupert/homebase/internal/model"
)

// PINChecker reports whether a submitted PIN matches the household PIN.
type PINChecker func(pin string) bool

type AuthHandler struct {
	checkPIN PINChecker
	tokens   *auth.TokenService
	names    Names
	logger   *slog.Logger
}

func NewAuthHandler(checkPIN PINChecker, tokens *auth.TokenService, names Names, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{checkPIN: checkPIN, tokens: tokens, names: names, logger: logger}
}

type sessionResponse struct {
	Member  model.Member `json:"member,omitempty"`
	Name    string       `json:"name,omitempty"`
	Members Names        `json:"members"`
}

func (h *AuthHandler) sessionBody(m model.Member) sessionResponse {
	return sessionResponse{Member: m, Name: h.names[m], Members: h.names}
}

type loginRequest struct {
	PIN    string       `json:"pin"`
	Member model.Member `json:"member"`
}

// Login handles POST /login. The member is optional and can be picked later.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Member != "" && !req.Member.Valid() {
		writeError(w, http.StatusBadRequest, "member must be a or b")
		return
	}
	if req.PIN == "" || !h.checkPIN(req.PIN) {
		h.logger.Warn("login failed", "remote", middleware.RealIP(r))
		writeError(w, http.StatusUnauthorized, "wrong PIN")
		return
	}

	if !h.setSession(w, r, "", req.Member) {
		return
	}
	writeJSON(w, http.StatusOK, h.sessionBody(req.Member))
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessionBody(auth.Member(r.Context())))
}

// SetMember handles POST /api/session/member and switches the active member
// for this device.
func (h *AuthHandler) SetMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Member model.Member `json:"member"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !req.Member.Valid() {
		writeError(w, http.StatusBadRequest, "member must be a or b")
		return
	}

	sess, _ := auth.FromContext(r.Context())
	if !h.setSession(w, r, sess.ID, req.Member) {
		return
	}
	writeJSON(w, http.StatusOK, h.sessionBody(req.Member))
}

func (h *AuthHandler) setSession(w http.ResponseWriter, r *http.Request, sessionID string, m model.Member) bool {
	token, err := h.tokens.Issue(sessionID, m)
	if err != nil {
		h.logger.Error("issue session token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
	})
	return true
}
