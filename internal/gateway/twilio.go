package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Sender delivers one outbound message to an identity.
type Sender interface {
	Send(ctx context.Context, identity, text string) error
}

// TwilioSender posts messages through the Twilio REST API.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
	log        zerolog.Logger
}

func NewTwilioSender(accountSID, authToken, from string, log zerolog.Logger) *TwilioSender {
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    "https://api.twilio.com",
		client:     &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// WithBaseURL points the sender at an alternate API host. Tests use it.
func (s *TwilioSender) WithBaseURL(base string) *TwilioSender {
	s.baseURL = base
	return s
}

func (s *TwilioSender) Send(ctx context.Context, identity, text string) error {
	form := url.Values{}
	form.Set("To", AddScheme(identity))
	form.Set("From", AddScheme(s.from))
	form.Set("Body", text)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("send message: twilio returned %d: %s", resp.StatusCode, body)
	}

	s.log.Debug().Str("identity", identity).Int("length", len(text)).Msg("outbound message sent")
	return nil
}
