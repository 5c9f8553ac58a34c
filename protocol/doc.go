// Package protocol implements the IEC 60870-5-101 link layer frame format (FT 1.2).
//
// This package provides the Frame value with its control field and an
// incremental Codec that decodes frames from a byte stream.
//
// # Frame Overview
//
// Two frame formats carry link layer messages:
//
//	Fixed:    [0x10][C][A][CS][0x16]
//	Variable: [0x68][L][L][0x68][C][A][DATA...][CS][0x16]
//
// Where:
//   - C = control field (DIR, PRM, FCB/ACD, FCV/DFC, function code)
//   - A = link address, one octet by default, optionally two (low octet first)
//   - L = number of octets in C, A and DATA, sent twice
//   - CS = arithmetic sum of C, A and DATA modulo 256
//
// # Control Field
//
// Bits 5 and 4 mean FCB/FCV on primary frames and ACD/DFC on secondary
// frames. Use the tagged views to read them:
//
//	if p, ok := frame.Control.Primary(); ok {
//	    fmt.Println(p.Function, p.FCB, p.FCV)
//	} else if s, ok := frame.Control.Secondary(); ok {
//	    fmt.Println(s.Function, s.ACD, s.DFC)
//	}
//
// # Encoding
//
//	c := protocol.NewPrimaryControl(protocol.FromMaster, protocol.Primary{
//	    FCV:      true,
//	    Function: protocol.FuncRequestClass2,
//	})
//	raw, err := protocol.NewFixedFrame(c, 1).Encode()
//
// # Decoding
//
// The codec accepts bytes in chunks of any size:
//
//	codec := protocol.NewCodec()
//	for codec.Status() == protocol.NeedMoreData {
//	    n, _ := port.Read(buf)
//	    used := codec.Decode(buf[:n])
//	    rest = buf[used:n] // belongs to the next frame
//	}
//	if err := codec.Err(); err != nil {
//	    codec.Reset() // resynchronize on the next start octet
//	}
//	frame, _ := codec.Frame()
//
// Decode returns the number of bytes consumed so a caller can pass the
// remainder to the next frame. Searching for the next start octet after a
// BadFormat or CheckError is left to the caller; the link package does it.
package protocol
