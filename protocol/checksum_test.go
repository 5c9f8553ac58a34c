package protocol

import (
	"strings"
	"testing"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		control  ControlField
		address  uint16
		size     AddressSize
		payload  []byte
		expected byte
	}{
		{
			name:     "fixed frame",
			control:  0x5a,
			address:  0x01,
			size:     AddressSize1,
			expected: 0x5b,
		},
		{
			name:     "variable frame",
			control:  0x08,
			address:  0x01,
			size:     AddressSize1,
			payload:  []byte{0x46, 0x01, 0x04, 0x01, 0x00, 0x00, 0x00},
			expected: 0x55,
		},
		{
			name:     "one octet address ignores high byte",
			control:  0x00,
			address:  0x0201,
			size:     AddressSize1,
			expected: 0x01,
		},
		{
			name:     "two octet address",
			control:  0x00,
			address:  0x0201,
			size:     AddressSize2,
			expected: 0x03,
		},
		{
			name:     "overflow wraps",
			control:  0xFF,
			address:  0xFF,
			size:     AddressSize1,
			payload:  []byte{0xFF, 0x03},
			expected: 0x00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Checksum(tt.control, tt.address, tt.size, tt.payload)
			if result != tt.expected {
				t.Errorf("Checksum() = 0x%02X, want 0x%02X", result, tt.expected)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Status: BadFormat, Field: "end", Offset: 4, Got: 0x26, Want: EndOfFrame}
	msg := err.Error()
	if !strings.Contains(msg, "invalid end") || !strings.Contains(msg, "0x26") || !strings.Contains(msg, "0x16") {
		t.Errorf("unexpected message: %s", msg)
	}

	err = &ParseError{Status: CheckError, Field: "checksum", Offset: 3, Got: 0x5C, Want: 0x5B}
	msg = err.Error()
	if !strings.Contains(msg, "checksum mismatch") || !strings.Contains(msg, "0x5C") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestAddressSize(t *testing.T) {
	if AddressSize1.FixedFrameSize() != 5 || AddressSize2.FixedFrameSize() != 6 {
		t.Errorf("FixedFrameSize = (%d, %d), want (5, 6)", AddressSize1.FixedFrameSize(), AddressSize2.FixedFrameSize())
	}
	if AddressSize1.Broadcast() != BroadcastAddress8 || AddressSize2.Broadcast() != BroadcastAddress {
		t.Error("unexpected broadcast addresses")
	}
	if AddressSize(0).Valid() || AddressSize(3).Valid() {
		t.Error("Valid() accepted unsupported size")
	}
}
