package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store persists one conversation record per identity plus the append-only
// raw-message audit log. Records hold encoded blobs; interpreting them is the
// orchestrator's job.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Conversation is the read-modify-write unit: loaded once at turn start,
// written once at turn end.
type Conversation struct {
	Identity    string    `json:"identity"`
	DisplayName string    `json:"display_name,omitempty"`
	Profile     []byte    `json:"profile,omitempty"`
	Phase       string    `json:"phase,omitempty"`
	History     []byte    `json:"history,omitempty"`
	Routine     []byte    `json:"routine,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// GetOrCreate loads the conversation for an identity, creating an empty row
// lazily on first contact.
func (s *Store) GetOrCreate(ctx context.Context, identity, displayName string) (Conversation, error) {
	conv, err := s.Get(ctx, identity)
	if err == nil {
		if displayName != "" && conv.DisplayName == "" {
			conv.DisplayName = displayName
		}
		return conv, nil
	}
	if err != sql.ErrNoRows {
		return Conversation{}, err
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `INSERT INTO conversations (identity, display_name, profile, phase, history, routine, created_at, updated_at) VALUES (?, ?, '', '', '', '', ?, ?)`,
		identity, displayName, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return Conversation{}, fmt.Errorf("insert conversation: %w", err)
	}
	return Conversation{Identity: identity, DisplayName: displayName, CreatedAt: now, UpdatedAt: now}, nil
}

// Get loads a conversation; sql.ErrNoRows passes through for absent rows.
func (s *Store) Get(ctx context.Context, identity string) (Conversation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT identity, display_name, profile, phase, history, routine, created_at, updated_at FROM conversations WHERE identity = ?`, identity)

	var conv Conversation
	var displayName, profileStr, phaseStr, historyStr, routineStr sql.NullString
	var createdAtStr, updatedAtStr string
	err := row.Scan(&conv.Identity, &displayName, &profileStr, &phaseStr, &historyStr, &routineStr, &createdAtStr, &updatedAtStr)
	if err == sql.ErrNoRows {
		return Conversation{}, err
	}
	if err != nil {
		return Conversation{}, fmt.Errorf("scan conversation: %w", err)
	}
	conv.DisplayName = displayName.String
	conv.Profile = blob(profileStr)
	conv.Phase = phaseStr.String
	conv.History = blob(historyStr)
	conv.Routine = blob(routineStr)
	conv.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAtStr)
	conv.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAtStr)
	return conv, nil
}

// Save writes the whole mutable record in one statement.
func (s *Store) Save(ctx context.Context, conv Conversation) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `UPDATE conversations SET display_name = ?, profile = ?, phase = ?, history = ?, routine = ?, updated_at = ? WHERE identity = ?`,
		conv.DisplayName, string(conv.Profile), conv.Phase, string(conv.History), string(conv.Routine), now.Format(time.RFC3339Nano), conv.Identity)
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update conversation: identity %q not found", conv.Identity)
	}
	return nil
}

// LogMessage appends a raw inbound/outbound message to the audit log. The log
// is write-only from the orchestrator's perspective.
func (s *Store) LogMessage(ctx context.Context, identity, role, content, mediaURL string) error {
	id := ulid.Make().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `INSERT INTO message_log (id, identity, role, content, media_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, identity, role, content, nullString(mediaURL), now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert message log: %w", err)
	}
	return nil
}

// MessageCount reports audit-log volume for an identity (ops snapshot only).
func (s *Store) MessageCount(ctx context.Context, identity string) (int, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM message_log WHERE identity = ?`, identity)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

func blob(s sql.NullString) []byte {
	if !s.Valid || s.String == "" {
		return nil
	}
	return []byte(s.String)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
