// Package web serves the calculator as an HTML form with a websocket feed.
// Each browser gets its own session, tracked by a cookie.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/tipsplit/internal/calculator"
	"github.com/mmynk/tipsplit/internal/models"
	"github.com/mmynk/tipsplit/internal/service"
	"github.com/mmynk/tipsplit/internal/storage"
)

// SessionCookie names the cookie holding the browser's session ID.
const SessionCookie = "tipsplit_session"

// Handler serves the calculator page, its form events and the live feed.
type Handler struct {
	sessions *service.Sessions
	mode     calculator.Mode
}

// New creates a Handler that mounts sessions in the given mode.
func New(sessions *service.Sessions, mode calculator.Mode) *Handler {
	return &Handler{sessions: sessions, mode: mode}
}

// Register adds the web routes to r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET")
	r.HandleFunc("/bill", h.handleEvent(service.EventBill, "bill_amount")).Methods("POST")
	r.HandleFunc("/tip", h.handleEvent(service.EventTip, "tip_percentage")).Methods("POST")
	r.HandleFunc("/people", h.handleEvent(service.EventPeople, "number_of_people")).Methods("POST")
	r.HandleFunc("/reset", h.handleEvent(service.EventReset, "")).Methods("POST")
	r.HandleFunc("/ws", h.handleWebSocket).Methods("GET")
	r.HandleFunc("/healthz", handleHealth).Methods("GET")
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := h.currentSession(w, r)
	if err != nil {
		slog.Error("Failed to load session", "error", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, newPageData(sess.State)); err != nil {
		slog.Error("Failed to render page", "session_id", sess.ID, "error", err)
	}
}

// handleEvent applies one form post and redirects back to the page.
func (h *Handler) handleEvent(kind, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		sess, err := h.currentSession(w, r)
		if err != nil {
			slog.Error("Failed to load session", "error", err)
			http.Error(w, "failed to load session", http.StatusInternalServerError)
			return
		}

		_, err = h.dispatch(r.Context(), sess.ID, kind, r.FormValue(field))
		switch {
		case err == nil:
		case errors.Is(err, calculator.ErrInvalidTip):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, errUnknownEvent):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		default:
			// Reset in lenient mode and vanished sessions fall through to a reload.
			slog.Warn("Form event not applied", "session_id", sess.ID, "event", kind, "error", err)
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

var errUnknownEvent = errors.New("unknown event")

// dispatch routes a named event to the matching session handler.
func (h *Handler) dispatch(ctx context.Context, sessionID, kind, value string) (*models.Session, error) {
	switch kind {
	case service.EventBill:
		return h.sessions.SetBillAmount(ctx, sessionID, value)
	case service.EventTip:
		return h.sessions.SelectTip(ctx, sessionID, value)
	case service.EventPeople:
		return h.sessions.SetNumberOfPeople(ctx, sessionID, value)
	case service.EventReset:
		return h.sessions.Reset(ctx, sessionID)
	default:
		return nil, errUnknownEvent
	}
}

// currentSession returns the session named by the cookie, mounting a new one
// (and setting the cookie) when there is none or it has expired.
func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) (*models.Session, error) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		sess, err := h.sessions.Get(r.Context(), c.Value)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, storage.ErrSessionNotFound) {
			return nil, err
		}
		slog.Debug("Session cookie is stale", "session_id", c.Value)
	}

	sess, err := h.sessions.Mount(r.Context(), h.mode)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}
