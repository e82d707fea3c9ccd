package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed marks a payload that is not a valid message envelope.
	ErrMalformed = errors.New("malformed payload")
	// ErrProtocolViolation marks a recognised command with missing or invalid fields.
	ErrProtocolViolation = errors.New("protocol violation")
)

// DecodeError reports why an inbound payload was rejected. Cmd is empty when
// the envelope itself could not be read.
type DecodeError struct {
	Cmd string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Cmd == "" {
		return "protocol: " + e.Err.Error()
	}
	return fmt.Sprintf("protocol: decode %s: %v", e.Cmd, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func malformed(err error) error {
	return &DecodeError{Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
}

func violation(cmd, format string, args ...any) error {
	return &DecodeError{Cmd: cmd, Err: fmt.Errorf("%w: "+format, append([]any{ErrProtocolViolation}, args...)...)}
}
