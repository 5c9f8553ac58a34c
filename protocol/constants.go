package protocol

// Frame structure constants per IEC 60870-5-101 / 60870-5-2 (FT 1.2).
const (
	// StartFixed is the start octet of a fixed length frame (0x10)
	StartFixed = 0x10

	// StartVariable is the start octet of a variable length frame (0x68),
	// repeated after the two length octets
	StartVariable = 0x68

	// EndOfFrame is the frame end marker (0x16)
	EndOfFrame = 0x16

	// SingleCharAck is the single character acknowledgement (0xE5).
	// It is not produced by the codec and is listed for completeness.
	SingleCharAck = 0xE5

	// MaxLength is the largest value the length octet can carry
	MaxLength = 0xFF
)

// Station addresses.
const (
	// InvalidAddress is the reserved "no station" address
	InvalidAddress = 0x0000

	// BroadcastAddress is the broadcast address on two octet links
	BroadcastAddress = 0xFFFF

	// BroadcastAddress8 is the broadcast address on one octet links
	BroadcastAddress8 = 0xFF
)

// AddressSize is the number of octets used for the link address field.
type AddressSize int

const (
	// AddressSize1 transmits the address as a single octet (default)
	AddressSize1 AddressSize = 1

	// AddressSize2 transmits the address as two octets, low octet first
	AddressSize2 AddressSize = 2
)

// DefaultAddressSize is the address width used when none is configured.
const DefaultAddressSize = AddressSize1

// Valid reports whether s is a supported address width.
func (s AddressSize) Valid() bool {
	return s == AddressSize1 || s == AddressSize2
}

// MaxAddress returns the largest address representable in s octets.
func (s AddressSize) MaxAddress() uint16 {
	if s == AddressSize2 {
		return 0xFFFF
	}
	return 0xFF
}

// Broadcast returns the broadcast address for s.
func (s AddressSize) Broadcast() uint16 {
	if s == AddressSize2 {
		return BroadcastAddress
	}
	return BroadcastAddress8
}

// FixedFrameSize returns the wire size of a fixed frame:
// start(1) + control(1) + address(s) + checksum(1) + end(1).
func (s AddressSize) FixedFrameSize() int {
	return 4 + int(s)
}

// MaxPayload returns the largest payload a variable frame can carry.
// The length octet covers control, address and payload.
func (s AddressSize) MaxPayload() int {
	return MaxLength - 1 - int(s)
}

// variableOverhead is start(1) + length(2) + start(1) + checksum(1) + end(1).
const variableOverhead = 6

// Control field bit masks.
const (
	maskDIR      = 0x80
	maskPRM      = 0x40
	maskFCB      = 0x20 // FCB when PRM=1, ACD when PRM=0
	maskFCV      = 0x10 // FCV when PRM=1, DFC when PRM=0
	maskFunction = 0x0F

	shiftDIR = 7
	shiftPRM = 6
	shiftFCB = 5
	shiftFCV = 4
)
