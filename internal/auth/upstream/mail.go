package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hsshealth/hss/pkg/idx"
)

// Message is one outbound email.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`

	// Kind labels the message for logs and tests ("two_factor_code", ...).
	Kind string `json:"kind"`

	// Code is set on two-factor messages only. It is never logged.
	Code string `json:"code,omitempty"`
}

// Mailer delivers messages. Sends are not retried.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

const (
	KindTwoFactorCode   = "two_factor_code"
	KindPendingApproval = "pending_approval"
	KindApproved        = "approved"
)

func TwoFactorCodeMessage(to, code string, ttl time.Duration) Message {
	minutes := int(ttl.Round(time.Minute) / time.Minute)
	return Message{
		To:      to,
		Kind:    KindTwoFactorCode,
		Code:    code,
		Subject: "Your HSS verification code",
		Text: fmt.Sprintf("Your verification code is %s. It expires in %d minutes.\n"+
			"If you did not request this code, please secure your account.", code, minutes),
		HTML: fmt.Sprintf("<h2>Your security code</h2><p>Your verification code is: <strong>%s</strong></p>"+
			"<p>This code expires in %d minutes.</p><p>If you did not request this, please secure your account.</p>",
			html.EscapeString(code), minutes),
	}
}

func PendingApprovalMessage(to, hospitalName string) Message {
	return Message{
		To:      to,
		Kind:    KindPendingApproval,
		Subject: "HSS registration received",
		Text: fmt.Sprintf("Thank you for registering %s. Your account is awaiting approval by an administrator. "+
			"We will email you once it has been reviewed.", hospitalName),
	}
}

func ApprovedMessage(to, hospitalName string) Message {
	return Message{
		To:      to,
		Kind:    KindApproved,
		Subject: "Your HSS account has been approved",
		Text:    fmt.Sprintf("The account for %s has been approved. You can now sign in.", hospitalName),
	}
}

// LogMailer only logs the recipient and subject. For development.
type LogMailer struct {
	From   string
	Logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.Logger.InfoContext(ctx, "mail not delivered (log driver)",
		"to", msg.To,
		"subject", msg.Subject,
		"kind", msg.Kind,
	)
	return nil
}

// SpoolMailer writes every message as a JSON file into Dir. Tests and
// local setups read codes back from there.
type SpoolMailer struct {
	From string
	Dir  string
}

func (m *SpoolMailer) Send(_ context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = m.From
	}
	if err := os.MkdirAll(m.Dir, 0o750); err != nil {
		return fmt.Errorf("%w: spool: %w", ErrUnavailable, err)
	}

	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return err
	}

	// Write then rename so readers never see a partial file.
	name := filepath.Join(m.Dir, idx.New().String()+".json")
	tmp := name + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: spool: %w", ErrUnavailable, err)
	}
	if err := os.Rename(tmp, name); err != nil {
		return fmt.Errorf("%w: spool: %w", ErrUnavailable, err)
	}
	return nil
}

// ReadSpool returns the messages in dir in the order they were written.
func ReadSpool(dir string) ([]Message, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(matches))
	for _, path := range matches { // Glob sorts, and ULID names sort by time
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, msg)
	}
	return out, nil
}

const DefaultResendBaseURL = "https://api.resend.com"

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	from   string
	client *resty.Client
}

func NewResendMailer(baseURL, apiKey, from string, timeout time.Duration) *ResendMailer {
	if baseURL == "" {
		baseURL = DefaultResendBaseURL
	}
	return &ResendMailer{
		from: from,
		client: newClient(baseURL, ClampTimeout(timeout), "").
			SetAuthToken(apiKey).
			SetHeader("Content-Type", "application/json"),
	}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	from := msg.From
	if from == "" {
		from = m.from
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(resendEmail{
			From:    from,
			To:      []string{msg.To},
			Subject: msg.Subject,
			Text:    msg.Text,
			HTML:    msg.HTML,
		}).
		Post("/emails")
	if err := check("resend", resp, err); err != nil {
		return err
	}
	return nil
}
