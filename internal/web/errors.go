package web

// errors.go maps handler errors to HTTP responses.
//
// Every handler returns an error and is wrapped by Server.handle, so this is
// the only place where errors become status codes. The flow:
//  1. The handler returns an error wrapping a core sentinel
//  2. statusFor picks the HTTP status
//  3. core.MapError picks the user message and support code
//  4. The technical error is logged with the request id
//  5. The client gets ErrorResponse, never err.Error() of an internal failure

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/personsvc/internal/core"
	"github.com/JonMunkholm/personsvc/internal/logging"
)

// Routing errors raised by the router itself.
var (
	errRouteNotFound    = errors.New("route not found")
	errMethodNotAllowed = errors.New("method not allowed")
)

var routeMessages = map[error]core.UserMessage{
	errRouteNotFound: {
		Message: "Resource not found",
		Action:  "Check the request path",
		Code:    "REQ002",
	},
	errMethodNotAllowed: {
		Message: "Method not allowed",
		Action:  "Check the HTTP method for this path",
		Code:    "REQ003",
	},
}

// importRetryAfter is sent with 503 responses when no import slot is free.
const importRetryAfter = 5

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Action  string                 `json:"action,omitempty"`
	Code    string                 `json:"code"`
	Details []core.ValidationError `json:"details,omitempty"`
}

func newErrorResponse(msg core.UserMessage, details []core.ValidationError) ErrorResponse {
	return ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Details: details,
	}
}

// statusFor returns the HTTP status for err.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errRouteNotFound):
		return http.StatusNotFound
	case errors.Is(err, errMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidColor),
		errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrMalformedRequest),
		errors.Is(err, core.ErrInvalidUpload):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// userMessage maps err to the message shown to the client.
func userMessage(err error) core.UserMessage {
	for sentinel, msg := range routeMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return core.MapError(err)
}

func isRoutingError(err error) bool {
	return errors.Is(err, errRouteNotFound) || errors.Is(err, errMethodNotAllowed)
}

// respondError logs err and writes the mapped error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := userMessage(err)
	var details []core.ValidationError
	var verrs core.ValidationErrors
	if errors.As(err, &verrs) {
		details = verrs
	}

	// Unmapped errors (ERR000) are bugs or unknown failures; mapped
	// infrastructure errors (DB00x) are expected outages.
	var level slog.Level
	switch {
	case !core.IsUserFacing(err) && !isRoutingError(err):
		level = slog.LevelError
	case status >= http.StatusInternalServerError:
		level = slog.LevelWarn
	default:
		level = slog.LevelInfo
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	if errors.Is(err, core.ErrTooManyImports) {
		w.Header().Set("Retry-After", strconv.Itoa(importRetryAfter))
	}
	writeJSON(w, status, newErrorResponse(msg, details))
}
