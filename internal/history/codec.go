// Package history persists the delegate's stateless-call turn sequence
// between requests. Entries are opaque to the orchestrator: it only ever looks
// at the Kind discriminant, so the representation can evolve across
// deployments without stale rows crashing the service.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	KindRequest  = "request"
	KindResponse = "response"
)

// Turn is one tagged history record. Payload carries whatever the delegate
// round-tripped verbatim; nothing here interprets it.
type Turn struct {
	Kind      string          `json:"kind"`
	Role      string          `json:"role,omitempty"`
	Content   string          `json:"content,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

// Serialize encodes turns as a JSON array for storage.
func Serialize(turns []Turn) ([]byte, error) {
	if len(turns) == 0 {
		return []byte("[]"), nil
	}
	data, err := json.Marshal(turns)
	if err != nil {
		return nil, fmt.Errorf("serialize history: %w", err)
	}
	return data, nil
}

// Deserialize reconstructs turns from a stored blob. It never fails: a
// corrupt blob yields an empty history, and individual entries that are
// malformed or carry an unknown discriminant are skipped with a warning.
func Deserialize(raw []byte, log zerolog.Logger) []Turn {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Err(err).Msg("discarding unreadable message history")
		return nil
	}
	out := make([]Turn, 0, len(items))
	for _, item := range items {
		var turn Turn
		if err := json.Unmarshal(item, &turn); err != nil {
			log.Warn().Err(err).Msg("skipping malformed history entry")
			continue
		}
		if turn.Kind != KindRequest && turn.Kind != KindResponse {
			log.Warn().Str("kind", turn.Kind).Msg("skipping history entry with unknown kind")
			continue
		}
		out = append(out, turn)
	}
	return out
}

// Trim keeps at most the last pairs request/response exchanges, bounding both
// storage size and the context forwarded to the delegate per call.
func Trim(turns []Turn, pairs int) []Turn {
	if pairs <= 0 {
		return nil
	}
	max := pairs * 2
	if len(turns) <= max {
		return turns
	}
	return turns[len(turns)-max:]
}
