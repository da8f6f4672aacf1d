package core

import "errors"

// Common errors.
var (
	// ErrUnknownAction is raised when a request names an action outside the action table.
	ErrUnknownAction = errors.New("unsupported action")
	// ErrDecode wraps failures to parse JSON-encoded payload fields.
	ErrDecode = errors.New("malformed action payload")
	// ErrLoadInFlight is returned when a second fallback load starts before the first finished.
	ErrLoadInFlight = errors.New("a fixture load is already in flight")
	// ErrFixtureNotFound is returned when no fixture file exists for a request.
	ErrFixtureNotFound = errors.New("fixture not found")
	// ErrOutsideRoot is returned when a fixture path resolves outside the fixture root.
	ErrOutsideRoot = errors.New("fixture path escapes the fixture root")
	// ErrNoDocument is returned when an edit is attempted before any document was loaded.
	ErrNoDocument = errors.New("no document is loaded")
	// ErrIncompleteDocument is returned when a document lacks the text layout an export needs.
	ErrIncompleteDocument = errors.New("document is missing text, token or sentence offsets")
)
