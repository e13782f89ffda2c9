package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fernside/pawbase/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

func errorBodyDetails(msg, details string) errResponse {
	return errResponse{Error: msg, Details: details}
}

// writeDomainErr is the single place where domain errors become status
// codes. Store failures are logged with full detail but surface as a
// generic 500 body.
func writeDomainErr(w http.ResponseWriter, op string, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody(ve.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrTimeout):
		writeJSON(w, http.StatusRequestTimeout, errorBody("store timeout, retry later"))
	case errors.Is(err, apperr.ErrSlugTaken):
		writeJSON(w, http.StatusConflict, errorBodyDetails("a post with this slug already exists", "choose a unique slug"))
	case errors.Is(err, apperr.ErrSlotFull):
		writeJSON(w, http.StatusConflict, errorBody("this time slot is now full"))
	case errors.Is(err, apperr.ErrAlreadyBooked):
		writeJSON(w, http.StatusConflict, errorBody("you have already booked a spot in this time slot"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
