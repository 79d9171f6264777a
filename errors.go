package endpoint

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind enumerates the error conditions the core can raise.
type ErrorKind int

const (
	// AcceptFailed: accept() returned failure in the Listening state. Fatal.
	AcceptFailed ErrorKind = iota
	// ReceiveFailed: header signature mismatch, negative size, or a hard
	// read error mid-frame. Non-fatal.
	ReceiveFailed
	// ParseFailed: the payload codec rejected the bytes. Non-fatal.
	ParseFailed
	// UnknownMessageType: the wire type id is not registered. Non-fatal.
	UnknownMessageType
	// OutOfMemory: payload buffer allocation failed. Fatal.
	OutOfMemory
	// ConnectionReset: a keep-alive send failed. Non-fatal, but drives the
	// endpoint to Closing.
	ConnectionReset
	// BindFailed: bind() failed in the Opening state. Fatal.
	//
	// Rather than spinning forever in Opening on a bind failure, the
	// worker fails fast into the Error state so the application can
	// observe and react to it.
	BindFailed
	// ConnectFailed: connect() failed in the Connecting state. Fatal,
	// symmetrically with BindFailed.
	ConnectFailed
	// SendFailed: a message write failed while draining the send queue in
	// Connected. Non-fatal; write errors are surfaced instead of silently
	// tolerated.
	SendFailed
)

// String names an ErrorKind for logging and listener display.
func (k ErrorKind) String() string {
	switch k {
	case AcceptFailed:
		return "AcceptFailed"
	case ReceiveFailed:
		return "ReceiveFailed"
	case ParseFailed:
		return "ParseFailed"
	case UnknownMessageType:
		return "UnknownMessageType"
	case OutOfMemory:
		return "OutOfMemory"
	case ConnectionReset:
		return "ConnectionReset"
	case BindFailed:
		return "BindFailed"
	case ConnectFailed:
		return "ConnectFailed"
	case SendFailed:
		return "SendFailed"
	default:
		return "Unknown"
	}
}

// fatalKinds lists the ErrorKinds that drive the state machine to Error.
var fatalKinds = map[ErrorKind]bool{
	AcceptFailed:  true,
	OutOfMemory:   true,
	BindFailed:    true,
	ConnectFailed: true,
}

// Error is the record last-error and listener notifications carry.
// Description carries a human-readable message; Cause, when set, is the
// underlying wrapped error retained for diagnostics.
type Error struct {
	Kind        ErrorKind
	Description string
	Fatal       bool
	Cause       error
}

func (e Error) Error() string {
	if e.Cause != nil {
		// Cause is already description-wrapped by newError via pkg/errors,
		// so formatting it alone avoids repeating the description twice.
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

// Unwrap exposes Cause to errors.Is/errors.As.
func (e Error) Unwrap() error { return e.Cause }

// newError builds an Error record, wrapping cause (if any) with
// github.com/pkg/errors so a stack trace survives into logs even though the
// public Error value stays a plain, comparable-by-kind struct for listeners.
func newError(kind ErrorKind, description string, cause error) Error {
	wrapped := cause
	if cause != nil {
		wrapped = errors.Wrap(cause, description)
	}
	return Error{
		Kind:        kind,
		Description: description,
		Fatal:       fatalKinds[kind],
		Cause:       wrapped,
	}
}

// Public sentinel errors returned directly by the endpoint's API surface,
// distinct from the Error record fanned out to listeners.
var (
	// ErrNotInitial is returned by Listen/Connect when the endpoint is not
	// in the Initial state.
	ErrNotInitial = errors.New("endpoint: must be called from Initial state")
	// ErrInvalidAddress is returned when an address cannot be parsed as a
	// dotted-quad IPv4 address.
	ErrInvalidAddress = errors.New("endpoint: invalid IPv4 address")
	// ErrNoTypeRegistry is returned by New when no TypeRegistry is
	// configured.
	ErrNoTypeRegistry = errors.New("endpoint: no message type registry configured")
	// ErrNoPayloadCodec is returned by New when no PayloadCodec is
	// configured.
	ErrNoPayloadCodec = errors.New("endpoint: no payload codec configured")
	// ErrUnregisteredType is returned by SimpleRegistry.Create for an id
	// with no registered constructor.
	ErrUnregisteredType = errors.New("endpoint: unregistered message type")
	// ErrUntypedMessage is returned by SimpleRegistry.TypeID for a message
	// that doesn't implement TypedMessage.
	ErrUntypedMessage = errors.New("endpoint: message does not implement TypedMessage")
)
