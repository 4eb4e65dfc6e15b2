package gen3

import (
	"encoding/binary"
	"fmt"
)

// Section is one 4 KiB sector of a save slot.
type Section struct {
	Data      [SectionFooterOffset]byte // payload plus unused padding
	ID        uint16
	Checksum  uint16 // as stored in the footer
	Signature uint32
	SaveIndex uint32
}

// Pack serializes the section to its on-flash form
func (s *Section) Pack() []byte {
	buf := make([]byte, SectionSize)
	copy(buf, s.Data[:])
	binary.LittleEndian.PutUint16(buf[FooterIDOffset:], s.ID)
	binary.LittleEndian.PutUint16(buf[FooterChecksumOffset:], s.Checksum)
	binary.LittleEndian.PutUint32(buf[FooterSignatureOffset:], s.Signature)
	binary.LittleEndian.PutUint32(buf[FooterSaveIndexOffset:], s.SaveIndex)
	return buf
}

// Unpack deserializes a section from its on-flash form
func (s *Section) Unpack(data []byte) error {
	if len(data) != SectionSize {
		return fmt.Errorf("invalid section size: %d", len(data))
	}
	copy(s.Data[:], data[:SectionFooterOffset])
	s.ID = binary.LittleEndian.Uint16(data[FooterIDOffset:])
	s.Checksum = binary.LittleEndian.Uint16(data[FooterChecksumOffset:])
	s.Signature = binary.LittleEndian.Uint32(data[FooterSignatureOffset:])
	s.SaveIndex = binary.LittleEndian.Uint32(data[FooterSaveIndexOffset:])
	return nil
}

// Payload returns the checksummed part of the data area. The slice aliases
// the section, so writes through it modify the section.
func (s *Section) Payload() []byte {
	return s.Data[:SectionDataSize(s.ID)]
}

// ComputeChecksum calculates the checksum the footer should hold.
func (s *Section) ComputeChecksum() uint16 {
	return ChecksumForSection(s.ID, s.Data[:])
}

// UpdateChecksum recomputes the footer checksum and returns it.
func (s *Section) UpdateChecksum() uint16 {
	s.Checksum = s.ComputeChecksum()
	return s.Checksum
}

// Verify checks the signature, ID range and checksum.
func (s *Section) Verify() error {
	if s.Signature != SectionSignature {
		return fmt.Errorf("%w: section %d has 0x%08x", ErrBadSignature, s.ID, s.Signature)
	}
	if int(s.ID) >= SectionsPerSlot {
		return fmt.Errorf("%w: %d", ErrUnknownSection, s.ID)
	}
	if actual := s.ComputeChecksum(); actual != s.Checksum {
		return fmt.Errorf("%w: section %d stored 0x%04x, computed 0x%04x", ErrSectionChecksum, s.ID, s.Checksum, actual)
	}
	return nil
}

// Clone returns a deep copy; Section holds arrays only, so a value copy suffices.
func (s *Section) Clone() *Section {
	c := *s
	return &c
}

func (s *Section) u8(off int) uint8 { return s.Data[off] }

func (s *Section) u16(off int) uint16 {
	return binary.LittleEndian.Uint16(s.Data[off : off+2])
}

func (s *Section) u32(off int) uint32 {
	return binary.LittleEndian.Uint32(s.Data[off : off+4])
}

func (s *Section) putU16(off int, v uint16) {
	binary.LittleEndian.PutUint16(s.Data[off:off+2], v)
}

func (s *Section) putU32(off int, v uint32) {
	binary.LittleEndian.PutUint32(s.Data[off:off+4], v)
}
