package stomp

import (
	"errors"
	"fmt"
)

// Errors returned while decoding frames.
var (
	// ErrUnknownCommand is returned when a command line is not a STOMP verb.
	ErrUnknownCommand = errors.New("stomp: unknown command")
	// ErrMalformedHeader is returned when a header line does not split into
	// exactly one key and one value, or content-length is not a non-negative integer.
	ErrMalformedHeader = errors.New("stomp: malformed header")
	// ErrMissingContentLength is returned when a header block ends without content-length.
	ErrMissingContentLength = errors.New("stomp: required header content-length not present")
	// ErrBodyLengthMismatch is matched by *BodyLengthMismatchError.
	ErrBodyLengthMismatch = errors.New("stomp: body and content-length do not match")
	// ErrFrameTooLarge is returned when a declared content-length exceeds the configured maximum.
	ErrFrameTooLarge = errors.New("stomp: frame too large")
)

// Errors returned while encoding frames.
var (
	// ErrInvalidBody is returned when a frame body is not valid UTF-8 text.
	ErrInvalidBody = errors.New("stomp: body is not valid text")
)

// Errors returned by client operations.
var (
	// ErrInvalidTransport is returned when no transport is provided.
	ErrInvalidTransport = errors.New("stomp: invalid transport")
	// ErrSessionClosed is returned when operating on a disconnected or failed session.
	ErrSessionClosed = errors.New("stomp: session closed")
)

// BodyLengthMismatchError reports a body whose length up to the NUL
// terminator differs from its declared content-length.
type BodyLengthMismatchError struct {
	Read     int
	Declared int
}

func (e *BodyLengthMismatchError) Error() string {
	return fmt.Sprintf("%s: read %d, content-length %d", ErrBodyLengthMismatch, e.Read, e.Declared)
}

// Is makes errors.Is(err, ErrBodyLengthMismatch) succeed.
func (e *BodyLengthMismatchError) Is(target error) bool {
	return target == ErrBodyLengthMismatch
}
