package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

// envelope is the shape of every JSON response: status_code mirrors the
// HTTP status, data and errors appear only when there is something to carry.
type envelope struct {
	StatusCode int          `json:"status_code"`
	Message    string       `json:"message"`
	Data       any          `json:"data,omitempty"`
	Errors     []fieldError `json:"errors,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{StatusCode: status, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{StatusCode: status, Message: message})
}

// respondValidation answers 400 with the first failure's message plus the
// full list of failures.
func respondValidation(w http.ResponseWriter, errs []fieldError) {
	writeJSON(w, http.StatusBadRequest, envelope{
		StatusCode: http.StatusBadRequest,
		Message:    errs[0].Message,
		Errors:     errs,
	})
}

// serverError logs the detail server-side and answers a generic 500. Internal
// error text never reaches the caller.
func serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error("internal error", "method", r.Method, "path", r.URL.Path, "err", err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
