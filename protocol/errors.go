package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrNeedMoreData is returned by Codec.Frame while the frame is incomplete
	ErrNeedMoreData = errors.New("protocol: need more data")

	// ErrBadFormat matches structural violations reported by the codec
	ErrBadFormat = errors.New("protocol: bad frame format")

	// ErrChecksum matches checksum mismatches reported by the codec
	ErrChecksum = errors.New("protocol: checksum mismatch")

	// ErrPayloadTooLarge is returned when a payload does not fit the length octet
	ErrPayloadTooLarge = errors.New("protocol: payload too large")

	// ErrAddressOutOfRange is returned when an address does not fit the address field
	ErrAddressOutOfRange = errors.New("protocol: address out of range")

	// ErrInvalidAddressSize is returned for address widths other than 1 or 2
	ErrInvalidAddressSize = errors.New("protocol: invalid address size")

	// ErrNotPrimary is returned when a primary-only field is written on a secondary frame
	ErrNotPrimary = errors.New("protocol: control field is not primary")
)

// ParseError describes why the codec rejected a frame.
type ParseError struct {
	// Status is BadFormat or CheckError
	Status Status

	// Field names the frame field that failed ("start", "length", "end", "checksum", ...)
	Field string

	// Offset is the position of the offending octet within the frame
	Offset int

	// Got is the octet received
	Got byte

	// Want is the octet expected, when there is a single valid value
	Want byte
}

func (e *ParseError) Error() string {
	if e.Status == CheckError {
		return fmt.Sprintf("checksum mismatch at offset %d: got 0x%02X, expected 0x%02X",
			e.Offset, e.Got, e.Want)
	}
	return fmt.Sprintf("bad frame format: invalid %s at offset %d: got 0x%02X, expected 0x%02X",
		e.Field, e.Offset, e.Got, e.Want)
}

// Is matches ErrBadFormat or ErrChecksum according to Status.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrBadFormat:
		return e.Status == BadFormat
	case ErrChecksum:
		return e.Status == CheckError
	}
	return false
}

// IsParseError returns true if the error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
