package gen3

import (
	"errors"
	"fmt"
)

// SlotID names one of the two redundant save slots.
type SlotID int

const (
	SlotA SlotID = iota
	SlotB
)

func (s SlotID) String() string {
	switch s {
	case SlotA:
		return "A"
	case SlotB:
		return "B"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// Offset returns the byte offset of the slot inside the image.
func (s SlotID) Offset() int {
	if s == SlotB {
		return SlotBOffset
	}
	return SlotAOffset
}

// Other returns the opposite slot.
func (s SlotID) Other() SlotID {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

// Slot is one parsed copy of the save data.
type Slot struct {
	ID SlotID

	// Sections in physical order, as found on flash
	Physical [SectionsPerSlot]*Section

	// Err is nil when every section is present, signed, checksummed and
	// carries the same save index.
	Err error

	byID [SectionsPerSlot]*Section
}

// ParseSlot splits a SlotSize region into sections and validates them.
// It never fails outright; problems are recorded in Slot.Err.
func ParseSlot(id SlotID, region []byte) *Slot {
	slot := &Slot{ID: id}
	if len(region) != SlotSize {
		slot.Err = fmt.Errorf("%w: slot region is %d bytes", ErrInvalidSize, len(region))
		return slot
	}

	var errs []error
	for i := 0; i < SectionsPerSlot; i++ {
		sec := &Section{}
		// Unpack cannot fail: the region is an exact multiple of SectionSize
		_ = sec.Unpack(region[i*SectionSize : (i+1)*SectionSize])
		slot.Physical[i] = sec

		if err := sec.Verify(); err != nil {
			errs = append(errs, fmt.Errorf("sector %d: %w", i, err))
			continue
		}
		if slot.byID[sec.ID] != nil {
			errs = append(errs, fmt.Errorf("sector %d: %w: %d", i, ErrDuplicateSection, sec.ID))
			continue
		}
		slot.byID[sec.ID] = sec
	}

	if len(errs) == 0 {
		first := slot.Physical[0].SaveIndex
		for _, sec := range slot.Physical[1:] {
			if sec.SaveIndex != first {
				errs = append(errs, fmt.Errorf("%w: %d vs %d", ErrSaveIndexMismatch, sec.SaveIndex, first))
				break
			}
		}
	}

	slot.Err = errors.Join(errs...)
	return slot
}

// Valid reports whether the slot can be trusted.
func (s *Slot) Valid() bool { return s.Err == nil }

// Section returns the section with the given logical ID, or nil when the
// slot has no valid section with that ID.
func (s *Slot) Section(id uint16) *Section {
	if int(id) >= SectionsPerSlot {
		return nil
	}
	return s.byID[id]
}

// SaveIndex is the save counter of the slot's trainer section.
func (s *Slot) SaveIndex() uint32 {
	if sec := s.Physical[0]; sec != nil {
		return sec.SaveIndex
	}
	return 0
}

// Rotation is the physical position of section 0; the game shifts it by one
// on every save.
func (s *Slot) Rotation() int {
	for i, sec := range s.Physical {
		if sec != nil && sec.ID == SectionTrainer && sec.Verify() == nil {
			return i
		}
	}
	return 0
}

// newer reports whether save counter a is more recent than b. Counters are
// compared as serial numbers so a wrap from 0xFFFFFFFF to 0 still counts as
// newer.
func newer(a, b uint32) bool {
	return int32(a-b) > 0
}

// SelectActive picks the slot to decode. A valid slot always beats an
// invalid one; between two valid slots the newer save index wins, and slot
// A wins a tie.
func SelectActive(a, b *Slot) (*Slot, error) {
	switch {
	case a.Valid() && b.Valid():
		if newer(b.SaveIndex(), a.SaveIndex()) {
			return b, nil
		}
		return a, nil
	case a.Valid():
		return a, nil
	case b.Valid():
		return b, nil
	default:
		return nil, &CorruptSaveError{Size: SaveSize, SlotErrors: [2]error{a.Err, b.Err}}
	}
}
