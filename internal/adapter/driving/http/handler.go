// Package httphandler implements the JSON REST API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/safehub/internal/application"
	"github.com/ericfisherdev/safehub/internal/domain/model"
	"github.com/ericfisherdev/safehub/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	panelSvc  *application.PanelService
	auditSvc  *application.AuditService
	safeStore driven.SafeStore
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	panelSvc *application.PanelService,
	auditSvc *application.AuditService,
	safeStore driven.SafeStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		panelSvc:  panelSvc,
		auditSvc:  auditSvc,
		safeStore: safeStore,
		logger:    logger,
	}
}

// RegisterAPIRoutes registers all REST API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/safes", h.ListSafes)
	mux.HandleFunc("POST /api/v1/safes", h.AddSafe)
	mux.HandleFunc("DELETE /api/v1/safes/{name}", h.RemoveSafe)
	mux.HandleFunc("GET /api/v1/safes/{name}", h.GetSafe)
	mux.HandleFunc("PUT /api/v1/safes/{name}/notes", h.UpdateNotes)
	mux.HandleFunc("POST /api/v1/safes/{name}/press", h.Press)
	mux.HandleFunc("GET /api/v1/safes/{name}/display", h.GetDisplay)
	mux.HandleFunc("GET /api/v1/safes/{name}/events", h.ListEvents)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ApplyMiddleware wraps the handler with logging and recovery middleware.
// Recovery is innermost so panics are caught before logging.
func ApplyMiddleware(handler http.Handler, logger *slog.Logger) http.Handler {
	wrapped := recoveryMiddleware(logger, handler)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// Press applies one button press to a safe. The button comes from the JSON
// body; identifiers outside the defined set are rejected here at the
// boundary, so the lock controller only ever sees defined buttons.
func (h *Handler) Press(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req PressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	button, ok := model.ParseButton(req.Button)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown button: "+req.Button)
		return
	}

	status, err := h.panelSvc.Press(r.Context(), name, button)
	if err != nil {
		if errors.Is(err, driven.ErrSafeNotFound) {
			writeError(w, http.StatusNotFound, "safe not found")
			return
		}
		h.logger.Error("press failed", "safe", name, "button", button, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toStatusResponse(status))
}

// GetSafe returns a safe's registry entry, current status, and signals.
func (h *Handler) GetSafe(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	safe, err := h.safeStore.GetByName(r.Context(), name)
	if err != nil {
		h.logger.Error("failed to get safe", "safe", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if safe == nil {
		writeError(w, http.StatusNotFound, "safe not found")
		return
	}

	status, err := h.panelSvc.Status(name)
	if err != nil {
		h.logger.Error("failed to get status", "safe", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := toSafeResponse(*safe)
	resp.Status = toStatusResponse(status)
	resp.Signals = toSignalsResponse(h.auditSvc.SignalsFor(r.Context(), name))

	writeJSON(w, http.StatusOK, resp)
}

// GetDisplay returns only the display value and lock flag. These are the
// pure reads of the panel contract; nothing is recorded.
func (h *Handler) GetDisplay(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	status, err := h.panelSvc.Status(name)
	if err != nil {
		if errors.Is(err, driven.ErrSafeNotFound) {
			writeError(w, http.StatusNotFound, "safe not found")
			return
		}
		h.logger.Error("failed to get display", "safe", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, DisplayResponse{
		Display: status.Display,
		Locked:  status.Locked,
	})
}

// ListEvents returns a safe's audit trail, most recent first. The limit
// query parameter caps the result; it defaults to 50.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	events, err := h.auditSvc.ListEvents(r.Context(), name, limit)
	if err != nil {
		h.logger.Error("failed to list events", "safe", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]EventResponse, 0, len(events))
	for _, ev := range events {
		resp = append(resp, toEventResponse(ev))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListSafes returns all registered safes with their current status.
func (h *Handler) ListSafes(w http.ResponseWriter, r *http.Request) {
	safes, err := h.safeStore.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list safes", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]SafeResponse, 0, len(safes))
	for _, safe := range safes {
		sr := toSafeResponse(safe)
		if status, err := h.panelSvc.Status(safe.Name); err == nil {
			sr.Status = toStatusResponse(status)
		}
		resp = append(resp, sr)
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddSafe registers a new safe and brings up its controller locked with the
// factory default code.
func (h *Handler) AddSafe(w http.ResponseWriter, r *http.Request) {
	var req AddSafeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !isValidSafeName(req.Name) {
		writeError(w, http.StatusBadRequest, "invalid safe name: expected lowercase letters, digits, and hyphens")
		return
	}

	safe := model.Safe{
		Name:      req.Name,
		Location:  req.Location,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.panelSvc.RegisterSafe(r.Context(), safe); err != nil {
		if errors.Is(err, driven.ErrSafeAlreadyExists) {
			writeError(w, http.StatusConflict, "safe already exists")
			return
		}
		h.logger.Error("failed to add safe", "safe", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toSafeResponse(safe))
}

// RemoveSafe deletes a safe, its controller, and (by cascade) its events.
func (h *Handler) RemoveSafe(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := h.panelSvc.RemoveSafe(r.Context(), name); err != nil {
		if errors.Is(err, driven.ErrSafeNotFound) {
			writeError(w, http.StatusNotFound, "safe not found")
			return
		}
		h.logger.Error("failed to remove safe", "safe", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateNotes replaces a safe's operator notes.
func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.safeStore.UpdateNotes(r.Context(), name, req.Notes); err != nil {
		if errors.Is(err, driven.ErrSafeNotFound) {
			writeError(w, http.StatusNotFound, "safe not found")
			return
		}
		h.logger.Error("failed to update notes", "safe", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// isValidSafeName validates that name is non-empty and contains only
// lowercase letters, digits, and hyphens, so it is safe in URL paths.
func isValidSafeName(name string) bool {
	if name == "" || len(name) > 64 {
		return false
	}

	for _, ch := range name {
		if !isValidSafeChar(ch) {
			return false
		}
	}

	return true
}

// isValidSafeChar returns true if the rune is allowed in a safe name.
func isValidSafeChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-'
}
