package plant

import "errors"

// Sentinel errors for the taxonomy kinds this package distinguishes.
// Use errors.Is to test for a specific kind; wrapped errors carry
// additional context (e.g. the decode failure reason, the rp_code
// error text) via fmt.Errorf("...: %w", ...).
var (
	// ErrTransport marks a WebSocket dial, send, or connection-closed
	// failure. It is fatal to the actor: every pending request is
	// completed with this error and the event loop stops.
	ErrTransport = errors.New("plant: transport error")

	// ErrDecode marks a malformed frame or a schema decode failure.
	// It is logged and the offending frame is dropped; the
	// connection is not affected.
	ErrDecode = errors.New("plant: decode error")

	// ErrProtocol marks a reply whose rp_code[0] is not "0". It is
	// surfaced to the waiting caller with the reply's error text.
	ErrProtocol = errors.New("plant: protocol error")

	// ErrUnmatchedReply marks a reply whose correlation tag is not
	// registered. It is logged and dropped.
	ErrUnmatchedReply = errors.New("plant: unmatched reply")

	// ErrCallerClosed marks a command submitted after the actor has
	// already shut down.
	ErrCallerClosed = errors.New("plant: actor is closed")
)
