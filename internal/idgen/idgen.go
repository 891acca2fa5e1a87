// Package idgen mints identifiers for short-lived handles (live console
// subscriptions). Durable rows use ULIDs instead, where lexical time ordering
// matters.
package idgen

import "github.com/google/uuid"

// New returns a time-ordered UUIDv7 string, degrading to a random UUIDv4 when
// the clock-based generator fails.
func New() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
