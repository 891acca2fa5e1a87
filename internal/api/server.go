// Package api exposes the HTTP surface: the Twilio webhook, a small ops API,
// and the live console websocket.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/glowbotai/glowbot/internal/eventlog"
	"github.com/glowbotai/glowbot/internal/gateway"
	"github.com/glowbotai/glowbot/internal/history"
	"github.com/glowbotai/glowbot/internal/intake"
	"github.com/glowbotai/glowbot/internal/phase"
	"github.com/glowbotai/glowbot/internal/profile"
	"github.com/glowbotai/glowbot/internal/routine"
	"github.com/glowbotai/glowbot/internal/state"
)

type Server struct {
	Store      *state.Store
	Events     *eventlog.Log
	Buffer     *intake.Buffer
	Normalizer *gateway.Normalizer
	StartedAt  time.Time
	Log        zerolog.Logger
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/webhook/whatsapp", s.handleWebhook)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/conversations/", s.handleConversationItem)
	mux.HandleFunc("/api/console/ws", s.handleConsoleWS)

	return mux
}

// handleWebhook accepts Twilio deliveries. The reply always goes out through
// the REST API after debouncing, so the webhook answers with empty TwiML
// immediately; a slow answer here would trigger Twilio retries.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	in, fresh, err := s.Normalizer.Parse(r)
	if err != nil {
		s.Log.Warn().Err(err).Msg("webhook rejected")
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !fresh {
		s.Log.Debug().Str("sid", in.MessageSID).Msg("duplicate webhook delivery dropped")
		writeTwiML(w)
		return
	}

	s.Buffer.Ingest(in.Identity, intake.Fragment{
		Text:        in.Text,
		MediaURL:    in.MediaURL,
		DisplayName: in.DisplayName,
	})
	writeTwiML(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.StartedAt).Round(time.Second).String(),
		"time":   time.Now().UTC(),
	})
}

type conversationView struct {
	Identity     string           `json:"identity"`
	DisplayName  string           `json:"display_name,omitempty"`
	Phase        phase.Phase      `json:"phase"`
	Profile      profile.Profile  `json:"profile"`
	Sufficient   bool             `json:"sufficient"`
	History      []history.Turn   `json:"history,omitempty"`
	Routine      *routine.Routine `json:"routine,omitempty"`
	MessageCount int              `json:"message_count"`
	Events       []eventlog.Event `json:"events,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (s *Server) handleConversationItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	identity := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/conversations/"), "/")
	if identity == "" {
		writeError(w, http.StatusNotFound, errNotFound("conversation"))
		return
	}

	conv, err := s.Store.Get(r.Context(), identity)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, errNotFound("conversation"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	prof, err := profile.Decode(conv.Profile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	stored, err := routine.Decode(conv.Routine)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	count, err := s.Store.MessageCount(r.Context(), identity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	view := conversationView{
		Identity:     conv.Identity,
		DisplayName:  conv.DisplayName,
		Phase:        phase.Parse(conv.Phase),
		Profile:      prof,
		Sufficient:   profile.Sufficient(prof),
		History:      history.Deserialize(conv.History, s.Log),
		Routine:      stored,
		MessageCount: count,
		UpdatedAt:    conv.UpdatedAt,
	}
	if limit := parseInt(r.URL.Query().Get("events"), 0); limit > 0 {
		events, err := s.Events.Recent(r.Context(), identity, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		view.Events = events
	}
	writeJSON(w, http.StatusOK, view)
}

func writeTwiML(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<Response></Response>"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

type notFoundError struct {
	msg string
}

func (e notFoundError) Error() string { return e.msg }

func errNotFound(target string) error {
	return notFoundError{msg: target + " not found"}
}
