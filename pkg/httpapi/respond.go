package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/unowned-ai/eunoia/pkg/invoke"
	"github.com/unowned-ai/eunoia/pkg/journal"
	"github.com/unowned-ai/eunoia/pkg/simulate"
)

const maxBodyBytes = 1 << 20

var errForbidden = errors.New("operation not allowed for this account")

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

var statusByError = []struct {
	err    error
	status int
}{
	{journal.ErrEntryNotFound, http.StatusNotFound},
	{journal.ErrTemplateNotFound, http.StatusNotFound},
	{journal.ErrTagNotFound, http.StatusNotFound},
	{journal.ErrReminderNotFound, http.StatusNotFound},
	{journal.ErrUserNotFound, http.StatusNotFound},
	{invoke.ErrUnknownMethod, http.StatusNotFound},

	{journal.ErrTagExists, http.StatusConflict},
	{journal.ErrEmailTaken, http.StatusConflict},

	{journal.ErrInvalidCredentials, http.StatusUnauthorized},
	{journal.ErrInvalidToken, http.StatusUnauthorized},
	{journal.ErrInvalidMFACode, http.StatusUnauthorized},

	{errForbidden, http.StatusForbidden},

	{journal.ErrEmptyEntry, http.StatusBadRequest},
	{journal.ErrInvalidSentiment, http.StatusBadRequest},
	{journal.ErrInvalidFilter, http.StatusBadRequest},
	{journal.ErrInvalidTag, http.StatusBadRequest},
	{journal.ErrInvalidEmail, http.StatusBadRequest},
	{journal.ErrWeakPassword, http.StatusBadRequest},
	{journal.ErrUnsupportedProvider, http.StatusBadRequest},
	{journal.ErrInvalidReminder, http.StatusBadRequest},
	{invoke.ErrBadArgument, http.StatusBadRequest},

	{simulate.ErrNetwork, http.StatusServiceUnavailable},
	{context.Canceled, http.StatusServiceUnavailable},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

func statusFor(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}
