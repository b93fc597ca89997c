package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Codes are grouped by the stage of the pipeline that produced them:
//
//	SRC001 - Source unavailable: The export file could not be opened or read
//	         Action: Check the file path and permissions
//
//	ROW001 - Malformed row: A data row has the wrong number of fields or an unknown kind
//	         Action: Rows must have id, time, kind (0, 1 or 2) and value separated by tabs
//
//	FLD001 - Malformed field: A field could not be parsed
//	         Action: Times use yyyy/MM/dd HH:mm, ids and values are whole numbers
//
//	CUT001 - Invalid cutoff: The start date did not match the expected pattern
//	         Action: Use yyyy/MM/dd HH:mm, for example 2023/01/02 00:00
//
//	RPT001 - Empty result: No records at or after the start date
//	         Action: Choose an earlier start date
//
//	OUT001 - Sink failure: The output file could not be written
//	         Action: Check that the output directory is writable
//
//	DS001  - Dataset already loaded
//	         Action: Restart to load a different export
//
//	ERR000 - Unknown error (fallback)

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage is an error rendered for end users.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

type errorMapping struct {
	target error
	msg    UserMessage
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorMappings are checked in order with errors.Is.
var errorMappings = []errorMapping{
	{ErrSourceUnavailable, UserMessage{
		Message: "The export file could not be opened",
		Action:  "Check the file path and permissions",
		Code:    "SRC001",
	}},
	{ErrMalformedRow, UserMessage{
		Message: "A data row has the wrong shape",
		Action:  "Rows must have id, time, kind (0, 1 or 2) and value separated by tabs",
		Code:    "ROW001",
	}},
	{ErrMalformedField, UserMessage{
		Message: "A field could not be parsed",
		Action:  "Times use yyyy/MM/dd HH:mm, ids and values are whole numbers",
		Code:    "FLD001",
	}},
	{ErrInvalidCutoff, UserMessage{
		Message: "The start date is not valid",
		Action:  "Use yyyy/MM/dd HH:mm, for example 2023/01/02 00:00",
		Code:    "CUT001",
	}},
	{ErrEmptyResult, UserMessage{
		Message: "There are no records after filtering",
		Action:  "Choose an earlier start date",
		Code:    "RPT001",
	}},
	{ErrSinkFailure, UserMessage{
		Message: "The output file could not be written",
		Action:  "Check that the output directory is writable",
		Code:    "OUT001",
	}},
	{ErrDatasetLoaded, UserMessage{
		Message: "An export is already loaded",
		Action:  "Restart to load a different export",
		Code:    "DS001",
	}},
}

// errorPatterns catch errors that lost their sentinel, e.g. after crossing a
// process boundary as text. Matching is case-insensitive, first match wins.
var errorPatterns = []errorPattern{
	{"no such file", errorMappings[0].msg},
	{"permission denied", UserMessage{
		Message: "Permission denied",
		Action:  "Check file and directory permissions",
		Code:    "SRC002",
	}},
	{"parsing time", errorMappings[2].msg},
	{"invalid syntax", errorMappings[2].msg},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// It returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.msg
		}
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as a single line for terminal output.
// A *UserError anywhere in the chain supplies its message as is.
func FormatUserError(err error) string {
	msg := userMessage(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return userMessage(err).Code != defaultMessage.Code
}

func userMessage(err error) UserMessage {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.User
	}
	return MapError(err)
}

// UserError pairs a technical error with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError wraps err with its mapped message. It returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
