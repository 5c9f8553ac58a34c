package protocol

import (
	"bytes"
	"fmt"
)

// Frame is one link layer frame.
// A frame without payload is a fixed length frame, otherwise it is a
// variable length frame.
type Frame struct {
	// Control is the link control octet
	Control ControlField

	// Address is the link address of the secondary station
	Address uint16

	// Payload is the link user data (ASDU), empty for fixed frames
	Payload []byte
}

// NewFixedFrame creates a frame without user data.
func NewFixedFrame(control ControlField, address uint16) Frame {
	return Frame{Control: control, Address: address}
}

// NewVariableFrame creates a frame carrying payload.
// The payload is copied.
func NewVariableFrame(control ControlField, address uint16, payload []byte) Frame {
	return Frame{
		Control: control,
		Address: address,
		Payload: append([]byte(nil), payload...),
	}
}

// HasPayload reports whether f is a variable length frame.
func (f Frame) HasPayload() bool {
	return len(f.Payload) > 0
}

// IsPrimary reports whether f is a primary message (PRM=1).
func (f Frame) IsPrimary() bool { return f.Control.IsPrimary() }

// FromSlave reports whether f was sent by a slave station (DIR=1).
func (f Frame) FromSlave() bool { return f.Control.FromSlave() }

// FunctionCode returns the 4-bit function code.
func (f Frame) FunctionCode() uint8 { return f.Control.FunctionCode() }

// FrameCountBit returns FCB; ok is false unless PRM=1 and FCV=1.
func (f Frame) FrameCountBit() (bool, bool) { return f.Control.FrameCountBit() }

// FrameCountValid returns FCV; ok is false on secondary frames.
func (f Frame) FrameCountValid() (bool, bool) { return f.Control.FrameCountValid() }

// AccessDemand returns ACD; ok is false on primary frames.
func (f Frame) AccessDemand() (bool, bool) { return f.Control.AccessDemand() }

// DataFlowControl returns DFC; ok is false on primary frames.
func (f Frame) DataFlowControl() (bool, bool) { return f.Control.DataFlowControl() }

// Equal reports whether f and o carry the same control, address and payload.
func (f Frame) Equal(o Frame) bool {
	return f.Control == o.Control && f.Address == o.Address && bytes.Equal(f.Payload, o.Payload)
}

// Encode returns the wire bytes of f using one octet addresses.
//
// Fixed frame:
//
//	[0x10][C][A][CS][0x16]
//
// Variable frame:
//
//	[0x68][L][L][0x68][C][A][PAYLOAD...][CS][0x16]
//
// where L = 2 + len(payload) and CS is the sum of C, A and the payload modulo 256.
func (f Frame) Encode() ([]byte, error) {
	return f.EncodeWithAddressSize(DefaultAddressSize)
}

// EncodeWithAddressSize returns the wire bytes of f with an address field of
// size octets, low octet first.
func (f Frame) EncodeWithAddressSize(size AddressSize) ([]byte, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAddressSize, size)
	}
	if f.Address > size.MaxAddress() {
		return nil, fmt.Errorf("%w: 0x%04X does not fit %d octet(s)", ErrAddressOutOfRange, f.Address, size)
	}
	if len(f.Payload) > size.MaxPayload() {
		return nil, fmt.Errorf("%w: %d bytes, maximum is %d", ErrPayloadTooLarge, len(f.Payload), size.MaxPayload())
	}

	var frame []byte
	if f.HasPayload() {
		length := byte(1 + int(size) + len(f.Payload))
		frame = make([]byte, 0, variableOverhead+int(length))
		frame = append(frame, StartVariable, length, length, StartVariable)
	} else {
		frame = make([]byte, 0, size.FixedFrameSize())
		frame = append(frame, StartFixed)
	}

	frame = append(frame, byte(f.Control))
	frame = appendAddress(frame, f.Address, size)
	frame = append(frame, f.Payload...)
	frame = append(frame, Checksum(f.Control, f.Address, size, f.Payload))
	frame = append(frame, EndOfFrame)

	return frame, nil
}

func (f Frame) String() string {
	if f.HasPayload() {
		return fmt.Sprintf("variable frame addr=%d %s payload=% X", f.Address, f.Control, f.Payload)
	}
	return fmt.Sprintf("fixed frame addr=%d %s", f.Address, f.Control)
}

// appendAddress appends address as size octets, low octet first.
func appendAddress(dst []byte, address uint16, size AddressSize) []byte {
	dst = append(dst, byte(address))
	if size == AddressSize2 {
		dst = append(dst, byte(address>>8))
	}
	return dst
}
