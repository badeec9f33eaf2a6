package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/observability"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidDirection,
		errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeError writes err as a JSON error response. Errors without a code are
// reported as internal errors and their text is not exposed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	id := requestIDFrom(r.Context())
	code := errors.GetCode(err)
	msg := "internal error"
	if code == "" {
		code = errors.ErrCodeInternal
		s.logger.Error("request failed", "id", id, "error", err)
	} else {
		msg = errors.UserMessage(err)
		s.logger.Debug("request rejected", "id", id, "code", code, "error", err)
	}
	observability.HTTP().OnError(r.Context(), id, r.Method, r.URL.Path, err)

	writeJSON(w, statusFor(code), errorBody{
		Error:     errorDetail{Code: code, Message: msg},
		RequestID: id,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
