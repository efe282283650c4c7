package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mywallet/internal/auth"
	"mywallet/internal/log"
	"mywallet/internal/storage"
	"mywallet/internal/validate"
)

// writeError maps domain errors to status codes. Anything unrecognised is a
// store failure and is reported with its message.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, []string(verrs))
	case errors.Is(err, validate.ErrMissingToken):
		writeText(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, validate.ErrMalformedToken):
		writeText(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, auth.ErrUnauthenticated):
		writeText(w, http.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeText(w, http.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrConflict):
		writeText(w, http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeText(w, http.StatusNotFound, err.Error())
	default:
		log.FromContext(r.Context()).LogError(r.Context(), "Request failed", err, r.Method+" "+r.URL.Path, nil)
		writeText(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
