package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"
)

const (
	defaultEndpoint  = "https://api.resend.com/emails"
	fromAddress      = "OpenAkita Feedback <onboarding@resend.dev>"
	maxSummaryInMail = 800
)

// Mailer sends best-effort report notifications through the Resend API.
// A Mailer with no API key or recipient is permanently disabled.
type Mailer struct {
	httpClient *http.Client
	apiKey     string
	recipient  string
	endpoint   string
}

// NewMailer constructs a Mailer.
func NewMailer(apiKey, recipient string) *Mailer {
	return &Mailer{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		recipient:  recipient,
		endpoint:   defaultEndpoint,
	}
}

// Enabled reports whether notifications are configured at all.
func (m *Mailer) Enabled() bool {
	return m.apiKey != "" && m.recipient != ""
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send dispatches a notification email for an accepted report. Callers
// treat failure as non-critical; the submission is already durable.
func (m *Mailer) Send(ctx context.Context, reportID, typeLabel, title, body string) error {
	if !m.Enabled() {
		return nil
	}

	if len(body) > maxSummaryInMail {
		body = body[:maxSummaryInMail] + "..."
	}

	htmlBody := fmt.Sprintf(`
		<h2>%s: %s</h2>
		<p><strong>Report ID:</strong> %s</p>
		<p><strong>Time:</strong> %s</p>
		<hr/>
		<pre style="white-space:pre-wrap;font-size:13px;">%s</pre>
		<hr/>
		<p style="color:#888;font-size:12px;">
			Use admin API to download the full report zip:<br/>
			<code>GET /admin/reports/%s/download</code>
		</p>`,
		html.EscapeString(typeLabel), html.EscapeString(title),
		reportID, time.Now().UTC().Format(time.RFC3339),
		html.EscapeString(body), reportID)

	payload, err := json.Marshal(sendRequest{
		From:    fromAddress,
		To:      []string{m.recipient},
		Subject: fmt.Sprintf("[%s] %s", typeLabel, title),
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	res, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return fmt.Errorf("send email: unexpected status %d", res.StatusCode)
	}

	return nil
}
