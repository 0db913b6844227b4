package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/safehub/internal/application"
	"github.com/ericfisherdev/safehub/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// PressRequest is the JSON body for the press endpoint.
type PressRequest struct {
	Button string `json:"button"`
}

// AddSafeRequest is the JSON body for the add safe endpoint.
type AddSafeRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// UpdateNotesRequest is the JSON body for the notes update endpoint.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// StatusResponse is the JSON representation of a safe's panel status.
type StatusResponse struct {
	SafeName string `json:"safe_name"`
	State    string `json:"state"`
	Display  string `json:"display"`
	Locked   bool   `json:"locked"`
}

// DisplayResponse is the JSON representation of the display read endpoint.
type DisplayResponse struct {
	Display string `json:"display"`
	Locked  bool   `json:"locked"`
}

// SignalsResponse is the JSON representation of a safe's panel signals.
type SignalsResponse struct {
	ErrorStreak   int  `json:"error_streak"`
	FailedEntries int  `json:"failed_entries"`
	LeftOpen      bool `json:"left_open"`
	Severity      int  `json:"severity"`
}

// SafeResponse is the JSON representation of a registered safe.
type SafeResponse struct {
	Name      string           `json:"name"`
	Location  string           `json:"location"`
	Notes     string           `json:"notes"`
	CreatedAt string           `json:"created_at"`
	Status    StatusResponse   `json:"status"`
	Signals   *SignalsResponse `json:"signals,omitempty"`
}

// EventResponse is the JSON representation of one audit event.
type EventResponse struct {
	ID        int64  `json:"id"`
	SafeName  string `json:"safe_name"`
	Button    string `json:"button"`
	State     string `json:"state"`
	Display   string `json:"display"`
	Locked    bool   `json:"locked"`
	PressedAt string `json:"pressed_at"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toStatusResponse converts an application PanelStatus to its JSON representation.
func toStatusResponse(status application.PanelStatus) StatusResponse {
	return StatusResponse{
		SafeName: status.SafeName,
		State:    string(status.State),
		Display:  status.Display,
		Locked:   status.Locked,
	}
}

// toSignalsResponse converts domain PanelSignals to their JSON representation.
func toSignalsResponse(signals model.PanelSignals) *SignalsResponse {
	return &SignalsResponse{
		ErrorStreak:   signals.ErrorStreak,
		FailedEntries: signals.FailedEntries,
		LeftOpen:      signals.LeftOpen,
		Severity:      signals.Severity(),
	}
}

// toSafeResponse converts a domain Safe to its JSON representation. Status
// and Signals are populated by the handlers that have them.
func toSafeResponse(safe model.Safe) SafeResponse {
	return SafeResponse{
		Name:      safe.Name,
		Location:  safe.Location,
		Notes:     safe.Notes,
		CreatedAt: safe.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// toEventResponse converts a domain PanelEvent to its JSON representation.
func toEventResponse(ev model.PanelEvent) EventResponse {
	return EventResponse{
		ID:        ev.ID,
		SafeName:  ev.SafeName,
		Button:    string(ev.Button),
		State:     string(ev.State),
		Display:   ev.Display,
		Locked:    ev.Locked,
		PressedAt: ev.PressedAt.UTC().Format(time.RFC3339),
	}
}
