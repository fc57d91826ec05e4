package core

// error_messages.go maps errors to user-facing messages with support codes.
//
// Codes:
//
//	PER001 - Person not found             (ErrNotFound)
//	PER002 - Person already exists        (ErrAlreadyExists)
//	VAL001 - Unknown color                (ErrInvalidColor)
//	VAL002 - Invalid input                (ErrInvalidInput, ValidationErrors)
//	REQ001 - Malformed request            (ErrMalformedRequest)
//	FILE001 - Missing or oversized file   (ErrInvalidUpload)
//	IMP001 - Import capacity exhausted    (ErrTooManyImports)
//	DB001..DB006 - infrastructure errors, matched by message pattern
//	ERR000 - anything else
//
// Sentinels are checked first with errors.Is, in table order. Errors that
// carry no sentinel (driver and network failures) are matched by
// case-insensitive substring; the first matching pattern wins.

import (
	"errors"
	"strings"
)

// Request-level errors raised by transport code before the service is reached.
var (
	ErrMalformedRequest = errors.New("malformed request")
	ErrInvalidUpload    = errors.New("invalid upload")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

// sentinelMessages is ordered: ErrInvalidColor must precede ErrInvalidInput
// because color errors are usually wrapped into input errors.
var sentinelMessages = []sentinelMessage{
	{ErrNotFound, UserMessage{
		Message: "Person not found",
		Action:  "Check the id or color and try again",
		Code:    "PER001",
	}},
	{ErrAlreadyExists, UserMessage{
		Message: "A person with this first name, last name and address already exists",
		Action:  "Look up the existing record instead of creating a new one",
		Code:    "PER002",
	}},
	{ErrInvalidColor, UserMessage{
		Message: "Unknown color",
		Action:  "Use one of: " + colorChoices() + " (or 1-7)",
		Code:    "VAL001",
	}},
	{ErrInvalidInput, UserMessage{
		Message: "Invalid input",
		Action:  "Correct the listed fields and try again",
		Code:    "VAL002",
	}},
	{ErrMalformedRequest, UserMessage{
		Message: "Malformed request",
		Action:  "Check the request body and parameters",
		Code:    "REQ001",
	}},
	{ErrInvalidUpload, UserMessage{
		Message: "Missing or invalid upload",
		Action:  "Upload a CSV file in the form field \"file\" within the size limit",
		Code:    "FILE001",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "Too many imports are running",
		Action:  "Please try again in a few moments",
		Code:    "IMP001",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catches infrastructure errors that reach the service
// unwrapped from the drivers.
var errorPatterns = []errorPattern{
	{"duplicate key", UserMessage{
		Message: "A person with this first name, last name and address already exists",
		Action:  "Look up the existing record instead of creating a new one",
		Code:    "DB001",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB002",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB003",
	}},
	{"deadline exceeded", UserMessage{
		Message: "Operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB004",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB004",
	}},
	{"deadlock", UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"database is locked", UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB006",
	}},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// It never copies err.Error() into the result, so internal details stay in
// the logs.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
