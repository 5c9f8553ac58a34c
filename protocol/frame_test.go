package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestControlFieldPrimaryBits(t *testing.T) {
	frame := NewFixedFrame(0x53, InvalidAddress) // 0101 0011

	if !frame.IsPrimary() {
		t.Fatal("IsPrimary() = false, want true")
	}
	if frame.FromSlave() {
		t.Error("FromSlave() = true, want false")
	}
	if fcv, ok := frame.FrameCountValid(); !ok || !fcv {
		t.Errorf("FrameCountValid() = (%v, %v), want (true, true)", fcv, ok)
	}
	if fcb, ok := frame.FrameCountBit(); !ok || fcb {
		t.Errorf("FrameCountBit() = (%v, %v), want (false, true)", fcb, ok)
	}
	if frame.FunctionCode() != uint8(FuncSendConfirm) {
		t.Errorf("FunctionCode() = %d, want %d", frame.FunctionCode(), FuncSendConfirm)
	}
	if _, ok := frame.AccessDemand(); ok {
		t.Error("AccessDemand() ok on primary frame")
	}
	if _, ok := frame.DataFlowControl(); ok {
		t.Error("DataFlowControl() ok on primary frame")
	}

	p, ok := frame.Control.Primary()
	if !ok {
		t.Fatal("Primary() not ok")
	}
	want := Primary{FCB: false, FCV: true, Function: FuncSendConfirm}
	if p != want {
		t.Errorf("Primary() = %+v, want %+v", p, want)
	}
	if _, ok := frame.Control.Secondary(); ok {
		t.Error("Secondary() ok on primary frame")
	}
}

func TestControlFieldSecondaryBits(t *testing.T) {
	// DIR=1 PRM=0 ACD=1 DFC=0 FC=8
	c := ControlField(0xA8)

	s, ok := c.Secondary()
	if !ok {
		t.Fatal("Secondary() not ok")
	}
	want := Secondary{ACD: true, DFC: false, Function: FuncRespondUserData}
	if s != want {
		t.Errorf("Secondary() = %+v, want %+v", s, want)
	}
	if !c.FromSlave() {
		t.Error("FromSlave() = false, want true")
	}
	if _, ok := c.Primary(); ok {
		t.Error("Primary() ok on secondary frame")
	}
	if _, ok := c.FrameCountBit(); ok {
		t.Error("FrameCountBit() ok on secondary frame")
	}
	if _, ok := c.FrameCountValid(); ok {
		t.Error("FrameCountValid() ok on secondary frame")
	}
}

func TestFrameCountBitRequiresFCV(t *testing.T) {
	c := NewPrimaryControl(FromMaster, Primary{FCB: true, FCV: false, Function: FuncRequestLinkStatus})
	if _, ok := c.FrameCountBit(); ok {
		t.Error("FrameCountBit() ok with FCV=0")
	}
}

func TestControlFieldSetters(t *testing.T) {
	tests := []struct {
		name string
		in   ControlField
		set  func(ControlField) ControlField
		want ControlField
	}{
		{
			name: "direction slave",
			in:   0x53,
			set:  func(c ControlField) ControlField { return c.WithDirection(FromSlave) },
			want: 0xD3,
		},
		{
			name: "direction master",
			in:   0xD3,
			set:  func(c ControlField) ControlField { return c.WithDirection(FromMaster) },
			want: 0x53,
		},
		{
			name: "function code",
			in:   0x53,
			set:  func(c ControlField) ControlField { return c.WithFunctionCode(uint8(FuncRequestClass2)) },
			want: 0x5B,
		},
		{
			name: "function code masks high bits",
			in:   0x50,
			set:  func(c ControlField) ControlField { return c.WithFunctionCode(0xF9) },
			want: 0x59,
		},
		{
			name: "primary from secondary",
			in:   0xA8,
			set: func(c ControlField) ControlField {
				return c.WithPrimary(Primary{FCB: true, FCV: true, Function: FuncSendConfirm})
			},
			want: 0xF3,
		},
		{
			name: "secondary from primary",
			in:   0x73,
			set: func(c ControlField) ControlField {
				return c.WithSecondary(Secondary{ACD: false, DFC: true, Function: FuncNack})
			},
			want: 0x11,
		},
		{
			name: "secondary keeps direction",
			in:   0x80,
			set: func(c ControlField) ControlField {
				return c.WithSecondary(Secondary{ACD: true, Function: FuncRespondNoData})
			},
			want: 0xA9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.set(tt.in)
			if got != tt.want {
				t.Errorf("got 0x%02X, want 0x%02X", byte(got), byte(tt.want))
			}
		})
	}
}

func TestControlFieldFrameCountBit(t *testing.T) {
	c := NewPrimaryControl(FromMaster, Primary{FCV: true, Function: FuncSendConfirm})

	set, err := c.WithFrameCountBit(true)
	if err != nil {
		t.Fatalf("WithFrameCountBit: %v", err)
	}
	if fcb, _ := set.FrameCountBit(); !fcb {
		t.Error("FCB not set")
	}
	if set&^maskFCB != c&^maskFCB {
		t.Errorf("other bits changed: 0x%02X -> 0x%02X", byte(c), byte(set))
	}

	toggled, err := set.ToggleFrameCountBit()
	if err != nil {
		t.Fatalf("ToggleFrameCountBit: %v", err)
	}
	if toggled != c {
		t.Errorf("toggle = 0x%02X, want 0x%02X", byte(toggled), byte(c))
	}

	secondary := NewSecondaryControl(FromSlave, Secondary{Function: FuncAck})
	if _, err := secondary.WithFrameCountBit(true); !errors.Is(err, ErrNotPrimary) {
		t.Errorf("WithFrameCountBit on secondary: err = %v, want ErrNotPrimary", err)
	}
	if _, err := secondary.ToggleFrameCountBit(); !errors.Is(err, ErrNotPrimary) {
		t.Errorf("ToggleFrameCountBit on secondary: err = %v, want ErrNotPrimary", err)
	}
}

func TestFrameEncode(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  []byte
	}{
		{
			name:  "fixed frame",
			frame: NewFixedFrame(0x5a, 1),
			want:  []byte{0x10, 0x5a, 0x01, 0x5b, 0x16},
		},
		{
			name:  "variable frame",
			frame: NewVariableFrame(0x08, 1, []byte{0x46, 0x01, 0x04, 0x01, 0x00, 0x00, 0x00}),
			want:  []byte{0x68, 0x09, 0x09, 0x68, 0x08, 0x01, 0x46, 0x01, 0x04, 0x01, 0x00, 0x00, 0x00, 0x55, 0x16},
		},
		{
			name:  "checksum wraps",
			frame: NewVariableFrame(0xF3, 0xFE, []byte{0xFF, 0x10}),
			want:  []byte{0x68, 0x04, 0x04, 0x68, 0xF3, 0xFE, 0xFF, 0x10, 0x00, 0x16},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.frame.Encode()
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestFrameEncodeTwoOctetAddress(t *testing.T) {
	got, err := NewFixedFrame(0x49, 0x0201).EncodeWithAddressSize(AddressSize2)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x10, 0x49, 0x01, 0x02, 0x4C, 0x16}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}

	got, err = NewVariableFrame(0x73, 0x0201, []byte{0x0A}).EncodeWithAddressSize(AddressSize2)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want = []byte{0x68, 0x04, 0x04, 0x68, 0x73, 0x01, 0x02, 0x0A, 0x80, 0x16}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}
}

func TestFrameEncodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		size    AddressSize
		wantErr error
	}{
		{
			name:    "address too wide for one octet",
			frame:   NewFixedFrame(0x49, 0x0100),
			size:    AddressSize1,
			wantErr: ErrAddressOutOfRange,
		},
		{
			name:    "payload too large",
			frame:   NewVariableFrame(0x73, 1, make([]byte, 254)),
			size:    AddressSize1,
			wantErr: ErrPayloadTooLarge,
		},
		{
			name:    "payload too large for two octet address",
			frame:   NewVariableFrame(0x73, 1, make([]byte, 253)),
			size:    AddressSize2,
			wantErr: ErrPayloadTooLarge,
		},
		{
			name:    "unsupported address size",
			frame:   NewFixedFrame(0x49, 1),
			size:    0,
			wantErr: ErrInvalidAddressSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.frame.EncodeWithAddressSize(tt.size)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFrameRoundTrip(t *testing.T) {
	largest := make([]byte, AddressSize1.MaxPayload())
	for i := range largest {
		largest[i] = byte(i)
	}

	frames := []Frame{
		NewFixedFrame(0x40, 1),
		NewFixedFrame(NewPrimaryControl(FromMaster, Primary{FCB: true, FCV: true, Function: FuncRequestClass1}), 0xFE),
		NewFixedFrame(NewSecondaryControl(FromSlave, Secondary{ACD: true, DFC: true, Function: FuncRespondNoData}), 7),
		NewVariableFrame(0x73, 3, []byte{0x64, 0x01, 0x06, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x14}),
		NewVariableFrame(0x08, BroadcastAddress8, []byte{0x00}),
		NewVariableFrame(0x53, 0, largest),
	}

	for _, in := range frames {
		raw, err := in.Encode()
		if err != nil {
			t.Fatalf("Encode(%v): %v", in, err)
		}
		out, n, err := DecodeFrame(raw)
		if err != nil {
			t.Fatalf("DecodeFrame(% X): %v", raw, err)
		}
		if n != len(raw) {
			t.Errorf("consumed %d bytes, want %d", n, len(raw))
		}
		if !out.Equal(in) {
			t.Errorf("round trip = %v, want %v", out, in)
		}
	}
}

func TestNewVariableFrameCopiesPayload(t *testing.T) {
	payload := []byte{0x01, 0x02}
	f := NewVariableFrame(0x73, 1, payload)
	payload[0] = 0xFF
	if f.Payload[0] != 0x01 {
		t.Errorf("payload aliased caller slice")
	}
}

func TestFrameString(t *testing.T) {
	fixed := NewFixedFrame(NewSecondaryControl(FromSlave, Secondary{Function: FuncAck}), 1).String()
	if !strings.Contains(fixed, "fixed frame") || !strings.Contains(fixed, "ack") {
		t.Errorf("String() = %q", fixed)
	}

	variable := NewVariableFrame(NewPrimaryControl(FromMaster, Primary{FCV: true, Function: FuncSendConfirm}), 1, []byte{0xAB}).String()
	if !strings.Contains(variable, "variable frame") || !strings.Contains(variable, "AB") {
		t.Errorf("String() = %q", variable)
	}
}
