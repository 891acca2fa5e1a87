package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"

	"github.com/glowbotai/glowbot/internal/eventlog"
)

type wsWriter interface {
	Write(ctx context.Context, msgType websocket.MessageType, data []byte) error
}

// handleConsoleWS streams the live event trail to an ops console. An optional
// ?identity= narrows the feed to one conversation.
func (s *Server) handleConsoleWS(w http.ResponseWriter, r *http.Request) {
	if s.Events == nil {
		writeError(w, http.StatusInternalServerError, errNotFound("event log"))
		return
	}
	identity := r.URL.Query().Get("identity")

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	ctx := r.Context()
	if err := streamEvents(ctx, s.Events, identity, conn); err != nil {
		_ = conn.Close(websocket.StatusInternalError, "stream error")
		return
	}
	_ = conn.Close(websocket.StatusNormalClosure, "done")
}

func streamEvents(ctx context.Context, log *eventlog.Log, identity string, writer wsWriter) error {
	sub := log.Subscribe(ctx, identity)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-sub:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				return err
			}
			if err := writer.Write(ctx, websocket.MessageText, payload); err != nil {
				return err
			}
		}
	}
}
