// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
)

// ErrorHandler logs request failures and writes their JSON response.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleHTTPError normalizes err, logs it and writes the response.
func (h *ErrorHandler) HandleHTTPError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := Normalize(err)
	h.logError(r, stdErr)
	WriteJSON(w, stdErr.HTTPStatus(), stdErr.ToResponseBody())
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// WriteJSON writes body as JSON with the permissive CORS origin header.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError) {
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"errorCategory": string(GetErrorCategory(stdErr.Code)),
		"status":        stdErr.HTTPStatus(),
	}
	if r != nil {
		fields["method"] = r.Method
		fields["path"] = r.URL.Path
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}

	// Client mistakes are expected traffic; server-side failures need attention.
	if IsClientError(stdErr.Code) {
		h.logger.Warn("Request rejected", fields)
		return
	}
	h.logger.Error("Request failed", fields)
}
