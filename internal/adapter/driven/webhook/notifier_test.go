package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/safehub/internal/adapter/driven/webhook"
	"github.com/ericfisherdev/safehub/internal/domain/model"
)

func testEvent() model.PanelEvent {
	return model.PanelEvent{
		SafeName:  "vault-1",
		Button:    model.ButtonDigit7,
		State:     model.StateErrorLocked,
		Display:   model.DisplayError,
		Locked:    true,
		PressedAt: time.Date(2026, 2, 10, 12, 30, 0, 0, time.UTC),
	}
}

func TestNotifier_NotifyError(t *testing.T) {
	var gotBody map[string]string
	var gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := webhook.NewNotifierWithHTTPClient(srv.URL, srv.Client())
	err := n.NotifyError(context.Background(), "vault-1", testEvent())
	require.NoError(t, err)

	assert.Contains(t, gotContentType, "application/json")
	assert.Equal(t, "error_locked", gotBody["kind"])
	assert.Equal(t, "vault-1", gotBody["safe_name"])
	assert.Equal(t, "digit_7", gotBody["button"])
	assert.Equal(t, "ERROR ", gotBody["display"])
	assert.Equal(t, "2026-02-10T12:30:00Z", gotBody["pressed_at"])
}

func TestNotifier_NotifyError_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := webhook.NewNotifierWithHTTPClient(srv.URL, srv.Client())
	err := n.NotifyError(context.Background(), "vault-1", testEvent())
	assert.ErrorContains(t, err, "unexpected status 502")
}

func TestNotifier_NotifyError_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := webhook.NewNotifierWithHTTPClient(srv.URL, srv.Client())
	err := n.NotifyError(ctx, "vault-1", testEvent())
	assert.Error(t, err)
}
