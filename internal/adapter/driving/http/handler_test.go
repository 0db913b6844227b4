package httphandler_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/safehub/internal/adapter/driving/http"
	"github.com/ericfisherdev/safehub/internal/application"
	"github.com/ericfisherdev/safehub/internal/domain/lock"
	"github.com/ericfisherdev/safehub/internal/domain/model"
	"github.com/ericfisherdev/safehub/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockSafeStore struct {
	mu    sync.Mutex
	safes map[string]model.Safe
	err   error
}

func newMockSafeStore() *mockSafeStore {
	return &mockSafeStore{safes: map[string]model.Safe{}}
}

func (m *mockSafeStore) Add(_ context.Context, safe model.Safe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.safes[safe.Name]; ok {
		return driven.ErrSafeAlreadyExists
	}
	m.safes[safe.Name] = safe
	return nil
}

func (m *mockSafeStore) Remove(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.safes[name]; !ok {
		return driven.ErrSafeNotFound
	}
	delete(m.safes, name)
	return nil
}

func (m *mockSafeStore) GetByName(_ context.Context, name string) (*model.Safe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if safe, ok := m.safes[name]; ok {
		return &safe, nil
	}
	return nil, nil
}

func (m *mockSafeStore) ListAll(_ context.Context) ([]model.Safe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Safe
	for _, safe := range m.safes {
		out = append(out, safe)
	}
	return out, m.err
}

func (m *mockSafeStore) UpdateNotes(_ context.Context, name, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	safe, ok := m.safes[name]
	if !ok {
		return driven.ErrSafeNotFound
	}
	safe.Notes = notes
	m.safes[name] = safe
	return nil
}

type mockEventStore struct {
	mu     sync.Mutex
	events []model.PanelEvent
	err    error
}

func (m *mockEventStore) Append(_ context.Context, event model.PanelEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventStore) ListBySafe(_ context.Context, safeName string, limit int) ([]model.PanelEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PanelEvent
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		if m.events[i].SafeName == safeName {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}

func (m *mockEventStore) CountBySafe(_ context.Context, _ string) (int, error) {
	return len(m.events), nil
}

func (m *mockEventStore) PurgeBefore(_ context.Context, _ time.Time) (int, error) { return 0, nil }

// --- Test fixture ---

// newTestServer wires a handler onto real services backed by mocks and
// registers one safe named vault-1.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	safes := newMockSafeStore()
	events := &mockEventStore{}

	panelSvc, err := application.NewPanelService(safes, events, nil, "123456", lock.Policy{}, nil)
	require.NoError(t, err)
	auditSvc := application.NewAuditService(events, time.Hour)

	require.NoError(t, panelSvc.RegisterSafe(context.Background(), model.Safe{
		Name:      "vault-1",
		Location:  "records room",
		CreatedAt: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}))

	h := httphandler.NewHandler(panelSvc, auditSvc, safes, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, h)
	return httphandler.ApplyMiddleware(mux, slog.Default())
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPress(t *testing.T) {
	handler := newTestServer(t)

	t.Run("KEY starts an entry", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/safes/vault-1/press", `{"button":"key"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "entering_code", resp["state"])
		assert.Equal(t, "      ", resp["display"])
		assert.Equal(t, true, resp["locked"])
	})

	t.Run("full entry unlocks", func(t *testing.T) {
		var rec *httptest.ResponseRecorder
		for _, button := range []string{"digit_1", "digit_2", "digit_3", "digit_4", "digit_5", "digit_6"} {
			rec = doJSON(t, handler, http.MethodPost, "/api/v1/safes/vault-1/press", `{"button":"`+button+`"}`)
			require.Equal(t, http.StatusOK, rec.Code)
		}

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "unlocked", resp["state"])
		assert.Equal(t, "OPEN  ", resp["display"])
		assert.Equal(t, false, resp["locked"])
	})

	t.Run("unknown button -> 400", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/safes/vault-1/press", `{"button":"digit_x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid body -> 400", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/safes/vault-1/press", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown safe -> 404", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/safes/nope/press", `{"button":"key"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetDisplay(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/safes/vault-1/display", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "      ", resp["display"])
	assert.Equal(t, true, resp["locked"])

	t.Run("unknown safe -> 404", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/api/v1/safes/nope/display", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetSafe(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/safes/vault-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Name    string `json:"name"`
		Status  struct {
			State   string `json:"state"`
			Display string `json:"display"`
			Locked  bool   `json:"locked"`
		} `json:"status"`
		Signals *struct {
			Severity int `json:"severity"`
		} `json:"signals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "vault-1", resp.Name)
	assert.Equal(t, "idle_locked", resp.Status.State)
	assert.True(t, resp.Status.Locked)
	require.NotNil(t, resp.Signals)
	assert.Zero(t, resp.Signals.Severity)
}

func TestAddSafe(t *testing.T) {
	handler := newTestServer(t)

	t.Run("created", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/safes", `{"name":"vault-2","location":"archive"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "vault-2", resp["name"])
		assert.Equal(t, "archive", resp["location"])
	})

	t.Run("new safe starts locked", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/api/v1/safes/vault-2/display", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["locked"])
	})

	t.Run("duplicate -> 409", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/safes", `{"name":"vault-1"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid name -> 400", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/safes", `{"name":"Vault One"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRemoveSafe(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodDelete, "/api/v1/safes/vault-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	t.Run("controller is gone too", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/api/v1/safes/vault-1/display", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown safe -> 404", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodDelete, "/api/v1/safes/nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateNotes(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPut, "/api/v1/safes/vault-1/notes", `{"notes":"moved to basement"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	getRec := doJSON(t, handler, http.MethodGet, "/api/v1/safes/vault-1", "")
	require.Equal(t, http.StatusOK, getRec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &resp))
	assert.Equal(t, "moved to basement", resp["notes"])

	t.Run("unknown safe -> 404", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPut, "/api/v1/safes/nope/notes", `{"notes":"x"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListEvents(t *testing.T) {
	handler := newTestServer(t)

	// Generate some presses first.
	for _, button := range []string{"key", "digit_1", "digit_2"} {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/safes/vault-1/press", `{"button":"`+button+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/safes/vault-1/events", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 3)
	assert.Equal(t, "digit_2", resp[0]["button"], "most recent first")
	assert.Equal(t, "12    ", resp[0]["display"])

	t.Run("limit", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/api/v1/safes/vault-1/events?limit=1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var limited []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &limited))
		assert.Len(t, limited, 1)
	})

	t.Run("invalid limit -> 400", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/api/v1/safes/vault-1/events?limit=zero", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["time"])
}
