// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/safehub/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/safehub/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/safehub/internal/application"
	"github.com/ericfisherdev/safehub/internal/domain/model"
	"github.com/ericfisherdev/safehub/internal/domain/port/driven"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	safeStore driven.SafeStore
	panelSvc  *application.PanelService
	auditSvc  *application.AuditService
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	safeStore driven.SafeStore,
	panelSvc *application.PanelService,
	auditSvc *application.AuditService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		safeStore: safeStore,
		panelSvc:  panelSvc,
		auditSvc:  auditSvc,
		logger:    logger,
	}
}

// Dashboard renders the safe overview grid with the full HTML layout.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	csrfToken(w, r)

	safes, err := h.safeStore.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list safes", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	cards := make([]vm.SafeCardViewModel, 0, len(safes))
	for _, safe := range safes {
		status, err := h.panelSvc.Status(safe.Name)
		if err != nil {
			h.logger.Error("failed to read safe status", "safe", safe.Name, "error", err)
			continue
		}
		signals := h.auditSvc.SignalsFor(r.Context(), safe.Name)
		cards = append(cards, toSafeCardViewModel(safe, status, signals))
	}

	component := templates.Dashboard(cards)
	h.render(w, r, "SafeHub", component)
}

// SafePanel renders the panel page for one safe.
func (h *Handler) SafePanel(w http.ResponseWriter, r *http.Request) {
	csrfToken(w, r)
	name := r.PathValue("name")

	safe, err := h.safeStore.GetByName(r.Context(), name)
	if err != nil {
		h.notFoundOrError(w, err, "failed to load safe", name)
		return
	}
	if safe == nil {
		http.Error(w, "safe not found", http.StatusNotFound)
		return
	}

	status, err := h.panelSvc.Status(name)
	if err != nil {
		h.notFoundOrError(w, err, "failed to read safe status", name)
		return
	}

	signals := h.auditSvc.SignalsFor(r.Context(), name)

	events, err := h.auditSvc.ListEvents(r.Context(), name, 25)
	if err != nil {
		h.logger.Error("failed to list panel events", "safe", name, "error", err)
		events = nil
	}

	component := templates.SafePanel(toSafePanelViewModel(*safe, status, signals, events))
	h.render(w, r, "SafeHub - "+safe.Name, component)
}

// Press handles a keypad press form submission and redirects back to the
// panel page.
func (h *Handler) Press(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	name := r.PathValue("name")
	button, ok := model.ParseButton(r.FormValue("button"))
	if !ok {
		http.Error(w, "unknown button", http.StatusBadRequest)
		return
	}

	if _, err := h.panelSvc.Press(r.Context(), name, button); err != nil {
		h.notFoundOrError(w, err, "failed to press button", name)
		return
	}

	http.Redirect(w, r, "/app/safes/"+name, http.StatusSeeOther)
}

// UpdateNotes handles the operator notes form submission and redirects back
// to the panel page.
func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	name := r.PathValue("name")
	if err := h.safeStore.UpdateNotes(r.Context(), name, r.FormValue("notes")); err != nil {
		h.notFoundOrError(w, err, "failed to update notes", name)
		return
	}

	http.Redirect(w, r, "/app/safes/"+name, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, title string, content templ.Component) {
	layout := templates.Layout(title, content)
	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) notFoundOrError(w http.ResponseWriter, err error, msg, safeName string) {
	if errors.Is(err, driven.ErrSafeNotFound) {
		http.Error(w, "safe not found", http.StatusNotFound)
		return
	}
	h.logger.Error(msg, "safe", safeName, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
