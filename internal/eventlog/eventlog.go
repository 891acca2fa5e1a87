// Package eventlog records the conversation event trail: every inbound
// message, outbound chunk, and turn failure is appended to sqlite and fanned
// out to live subscribers (the ops console). The orchestrator writes here but
// never reads back.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/glowbotai/glowbot/internal/idgen"
)

const (
	KindInbound  = "inbound"
	KindOutbound = "outbound"
	KindError    = "error"
)

type Event struct {
	ID        string            `json:"id"`
	Identity  string            `json:"identity"`
	Kind      string            `json:"kind"`
	Body      string            `json:"body"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type Log struct {
	db *sql.DB

	mu   sync.RWMutex
	subs map[string]*subscriber
}

type subscriber struct {
	key      string
	identity string
	ch       chan Event
}

func New(db *sql.DB) *Log {
	return &Log{db: db, subs: map[string]*subscriber{}}
}

// Append persists an event and broadcasts it to matching subscribers.
func (l *Log) Append(ctx context.Context, identity, kind, body string, metadata map[string]string) (Event, error) {
	if identity == "" {
		return Event{}, fmt.Errorf("identity is required")
	}
	if kind == "" {
		return Event{}, fmt.Errorf("kind is required")
	}

	id := ulid.Make().String()
	createdAt := time.Now().UTC()
	metadataJSON := ""
	if len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return Event{}, fmt.Errorf("encode metadata: %w", err)
		}
		metadataJSON = string(data)
	}

	_, err := l.db.ExecContext(ctx, `INSERT INTO events (id, identity, kind, body, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, identity, kind, body, metadataJSON, createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return Event{}, fmt.Errorf("insert event: %w", err)
	}

	event := Event{ID: id, Identity: identity, Kind: kind, Body: body, Metadata: metadata, CreatedAt: createdAt}
	l.broadcast(event)
	return event, nil
}

// Subscribe returns a channel of live events for one identity ("" for all).
// The subscription ends when ctx is cancelled; slow consumers drop events
// rather than block appends.
func (l *Log) Subscribe(ctx context.Context, identity string) <-chan Event {
	sub := &subscriber{key: idgen.New(), identity: identity, ch: make(chan Event, 64)}

	l.mu.Lock()
	l.subs[sub.key] = sub
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		// Close under the write lock so no broadcast can race the close.
		l.mu.Lock()
		delete(l.subs, sub.key)
		close(sub.ch)
		l.mu.Unlock()
	}()

	return sub.ch
}

// Recent returns the latest events for an identity, newest last.
func (l *Log) Recent(ctx context.Context, identity string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `SELECT id, identity, kind, body, metadata, created_at FROM (
		SELECT * FROM events WHERE identity = ? ORDER BY created_at DESC LIMIT ?
	) ORDER BY created_at ASC`, identity, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		var metadataStr sql.NullString
		var createdAtStr string
		if err := rows.Scan(&evt.ID, &evt.Identity, &evt.Kind, &evt.Body, &metadataStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if metadataStr.Valid && metadataStr.String != "" {
			_ = json.Unmarshal([]byte(metadataStr.String), &evt.Metadata)
		}
		evt.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAtStr)
		out = append(out, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

func (l *Log) broadcast(event Event) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, sub := range l.subs {
		if sub.identity != "" && sub.identity != event.Identity {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}
