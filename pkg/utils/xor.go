package utils

import "encoding/binary"

// XORWords XORs every little-endian 32-bit word of data with key.
// len(data) must be a multiple of 4; trailing bytes are copied unchanged.
func XORWords(data []byte, key uint32) []byte {
	result := make([]byte, len(data))
	copy(result, data)
	for i := 0; i+4 <= len(result); i += 4 {
		word := binary.LittleEndian.Uint32(result[i : i+4])
		binary.LittleEndian.PutUint32(result[i:i+4], word^key)
	}
	return result
}

// XORUint32 applies a full 32-bit key to a stored value
func XORUint32(value, key uint32) uint32 {
	return value ^ key
}

// XORUint16 applies the low half of a 32-bit key to a stored value
func XORUint16(value uint16, key uint32) uint16 {
	return value ^ uint16(key&0xFFFF)
}
