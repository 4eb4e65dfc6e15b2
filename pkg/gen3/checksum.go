package gen3

import "encoding/binary"

// SectionChecksum sums data as little-endian 32-bit words and folds the
// 32-bit total into 16 bits.
func SectionChecksum(data []byte) uint16 {
	var sum uint32
	for i := 0; i+4 <= len(data); i += 4 {
		sum += binary.LittleEndian.Uint32(data[i : i+4])
	}
	return uint16((sum >> 16) + (sum & 0xFFFF))
}

// ChecksumForSection computes the checksum over the ID-specific payload
// length of a section's data area.
func ChecksumForSection(id uint16, data []byte) uint16 {
	size := SectionDataSize(id)
	if size > len(data) {
		size = len(data)
	}
	return SectionChecksum(data[:size])
}

// RecordChecksum is the 16-bit sum of the decrypted substructure block
// read as little-endian half-words.
func RecordChecksum(decrypted []byte) uint16 {
	var sum uint16
	for i := 0; i+2 <= len(decrypted); i += 2 {
		sum += binary.LittleEndian.Uint16(decrypted[i : i+2])
	}
	return sum
}
