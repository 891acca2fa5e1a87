// Package gateway adapts the WhatsApp transport (Twilio) to transport-neutral
// inbound/outbound types. Nothing above this package knows about form
// encodings, message SIDs, or the whatsapp: address scheme.
package gateway

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Inbound is one normalized webhook delivery.
type Inbound struct {
	MessageSID  string
	Identity    string
	DisplayName string
	Text        string
	MediaURL    string
}

// Normalizer parses Twilio webhook form posts and drops redelivered messages.
// Twilio retries webhooks on slow responses, so the same MessageSid can arrive
// more than once; a TTL cache remembers recently seen SIDs.
type Normalizer struct {
	seen *cache.Cache
}

func NewNormalizer(dedupeTTL time.Duration) *Normalizer {
	return &Normalizer{seen: cache.New(dedupeTTL, dedupeTTL)}
}

// Parse extracts an Inbound from a webhook request. The second return is
// false for redeliveries.
func (n *Normalizer) Parse(r *http.Request) (Inbound, bool, error) {
	if err := r.ParseForm(); err != nil {
		return Inbound{}, false, fmt.Errorf("parse webhook form: %w", err)
	}

	from := strings.TrimSpace(r.PostFormValue("From"))
	if from == "" {
		return Inbound{}, false, fmt.Errorf("webhook missing From")
	}

	in := Inbound{
		MessageSID:  strings.TrimSpace(r.PostFormValue("MessageSid")),
		Identity:    StripScheme(from),
		DisplayName: strings.TrimSpace(r.PostFormValue("ProfileName")),
		Text:        strings.TrimSpace(r.PostFormValue("Body")),
	}

	if numMedia, _ := strconv.Atoi(r.PostFormValue("NumMedia")); numMedia > 0 {
		in.MediaURL = strings.TrimSpace(r.PostFormValue("MediaUrl0"))
	}

	if in.Text == "" && in.MediaURL == "" {
		return Inbound{}, false, fmt.Errorf("webhook carried no content")
	}

	if in.MessageSID != "" {
		if _, dup := n.seen.Get(in.MessageSID); dup {
			return in, false, nil
		}
		n.seen.SetDefault(in.MessageSID, struct{}{})
	}
	return in, true, nil
}

// StripScheme removes the whatsapp: prefix from a Twilio address.
func StripScheme(addr string) string {
	return strings.TrimPrefix(addr, "whatsapp:")
}

// AddScheme restores the whatsapp: prefix for outbound sends.
func AddScheme(identity string) string {
	if strings.HasPrefix(identity, "whatsapp:") {
		return identity
	}
	return "whatsapp:" + identity
}
