package protocol

// Checksum computes the frame checksum: the arithmetic sum of the control
// octet, the address octets and the payload, modulo 256.
//
// Start, length and end octets are not included.
func Checksum(control ControlField, address uint16, size AddressSize, payload []byte) byte {
	sum := byte(control)
	sum += byte(address)
	if size == AddressSize2 {
		sum += byte(address >> 8)
	}
	return sum + sumBytes(payload)
}

// sumBytes adds data with 8-bit wraparound.
func sumBytes(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}
