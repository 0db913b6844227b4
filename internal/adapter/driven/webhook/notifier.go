// Package webhook implements the AlarmNotifier port by POSTing alarm
// payloads to an operator-configured HTTPS endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ericfisherdev/safehub/internal/domain/model"
	"github.com/ericfisherdev/safehub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AlarmNotifier = (*Notifier)(nil)

// Notifier implements the driven.AlarmNotifier port with a single JSON POST
// per alarm. There is no retry: a missed alarm is visible in the audit trail,
// and the panel signals surface the error streak independently.
type Notifier struct {
	url    string
	client *http.Client
}

// NewNotifier creates a Notifier that posts alarms to url. A Notifier is
// stateless and safe for concurrent use.
func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// NewNotifierWithHTTPClient creates a Notifier with a custom http.Client.
// This constructor is intended for testing, allowing injection of an
// httptest server's client.
func NewNotifierWithHTTPClient(url string, client *http.Client) *Notifier {
	return &Notifier{url: url, client: client}
}

// alarmPayload is the JSON body posted to the webhook endpoint.
type alarmPayload struct {
	Kind      string `json:"kind"`
	SafeName  string `json:"safe_name"`
	Button    string `json:"button"`
	State     string `json:"state"`
	Display   string `json:"display"`
	PressedAt string `json:"pressed_at"`
}

// NotifyError posts an alarm for a safe that just entered its error state.
func (n *Notifier) NotifyError(ctx context.Context, safeName string, event model.PanelEvent) error {
	payload := alarmPayload{
		Kind:      "error_locked",
		SafeName:  safeName,
		Button:    string(event.Button),
		State:     string(event.State),
		Display:   event.Display,
		PressedAt: event.PressedAt.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal alarm payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build alarm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post alarm for %s: %w", safeName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post alarm for %s: unexpected status %d", safeName, resp.StatusCode)
	}

	return nil
}
