package link

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when no valid frame arrives within the read timeout.
var ErrTimeout = errors.New("link: timeout waiting for frame")

// UnexpectedResponseError indicates that a secondary station other than the
// addressed one answered a request.
type UnexpectedResponseError struct {
	Expected uint16
	Actual   uint16
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response: request addressed station %d, answer came from %d",
		e.Expected, e.Actual)
}

// NotPrimaryError indicates that a request frame did not have PRM set.
type NotPrimaryError struct {
	Control byte
}

func (e *NotPrimaryError) Error() string {
	return fmt.Sprintf("request must be a primary frame: control field 0x%02X has PRM=0", e.Control)
}

// RetriesExhaustedError indicates that a request stayed unanswered after all retransmissions.
type RetriesExhaustedError struct {
	Address  uint16
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("no answer from station %d after %d attempts: %v", e.Address, e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Err
}
