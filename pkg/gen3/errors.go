package gen3

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Image errors 💾
	ErrInvalidSize       = errors.New("❌ invalid save size")
	ErrBadSignature      = errors.New("❌ invalid section signature")
	ErrSectionChecksum   = errors.New("❌ section checksum mismatch")
	ErrDuplicateSection  = errors.New("❌ duplicate section id")
	ErrUnknownSection    = errors.New("❌ unknown section id")
	ErrSaveIndexMismatch = errors.New("❌ save index differs between sections")
	ErrMissingSection    = errors.New("❌ section missing from slot")

	// Security key errors 🔑
	ErrChecksumMismatchOnKeySection = errors.New("❌ checksum mismatch on security key section")

	// Record errors 🐾
	ErrInvalidRecordSize = errors.New("❌ invalid pokemon record size")
	ErrRecordChecksum    = errors.New("❌ pokemon record checksum mismatch")
	ErrCorruptRecord     = errors.New("❌ pokemon record is corrupt")

	// Field errors ✏️
	ErrTextTooLong     = errors.New("❌ text too long for field")
	ErrUnencodableRune = errors.New("❌ character not in game charset")
	ErrValueOutOfRange = errors.New("❌ value out of range")
	ErrPocketFull      = errors.New("❌ pocket capacity exceeded")
	ErrUnknownGame     = errors.New("❌ unknown game")
)

// CorruptSaveError reports that no slot of the image can be trusted.
// Nothing is decoded when this error is returned.
type CorruptSaveError struct {
	Size       int
	SlotErrors [2]error
}

func (e *CorruptSaveError) Error() string {
	if e.SlotErrors[0] == nil && e.SlotErrors[1] == nil {
		return fmt.Sprintf("corrupt save: %d bytes, expected %d", e.Size, SaveSize)
	}
	var parts []string
	for i, err := range e.SlotErrors {
		if err != nil {
			parts = append(parts, fmt.Sprintf("slot %s: %v", SlotID(i), err))
		}
	}
	return "corrupt save: " + strings.Join(parts, "; ")
}

// Unwrap exposes the per-slot causes to errors.Is and errors.As.
func (e *CorruptSaveError) Unwrap() []error {
	var errs []error
	for _, err := range e.SlotErrors {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if e.Size != SaveSize {
		errs = append(errs, ErrInvalidSize)
	}
	return errs
}

// InvalidPersonalityError is returned when a substructure order lookup
// falls outside the permutation table.
type InvalidPersonalityError struct {
	Personality uint32
	OrderIndex  int
	Tag         int
}

func (e *InvalidPersonalityError) Error() string {
	return fmt.Sprintf("invalid personality 0x%08x: order index %d, tag %d", e.Personality, e.OrderIndex, e.Tag)
}

// SlotRangeError rejects a box or party position before any mutation.
type SlotRangeError struct {
	Area  string // "party", "box" or "slot"
	Index int
	Max   int
}

func (e *SlotRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Area, e.Index, e.Max)
}

// SubsystemError records a decode failure that was confined to one part
// of the save (trainer, items, party, box N, pokedex).
type SubsystemError struct {
	Subsystem string
	Err       error
}

func (e *SubsystemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Subsystem, e.Err)
}

func (e *SubsystemError) Unwrap() error { return e.Err }
