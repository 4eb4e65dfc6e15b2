package savemgr

import (
	"errors"
	"fmt"

	"github.com/provide-io/gen3save/pkg/gen3"
)

var (
	ErrEmptySlot    = errors.New("❌ slot is empty")
	ErrSlotOccupied = errors.New("❌ destination slot is occupied")
	ErrBoxesFull    = errors.New("❌ every box slot is taken")
	ErrNoDexEntry   = errors.New("❌ species has no national dex entry")
)

// Position is a 0-based box and slot
type Position struct {
	Box  int
	Slot int
}

func (p Position) String() string {
	return fmt.Sprintf("box %d slot %d", p.Box+1, p.Slot+1)
}

// Transfer copies the Pokémon at from in src into the first empty box slot
// of dst and marks it seen and owned in dst's Pokédex. Neither save is
// written; call Save on dst to persist.
func Transfer(src *Manager, from Position, dst *Manager) (Position, error) {
	dstFile, err := dst.SaveFile()
	if err != nil {
		return Position{}, err
	}
	box, slot, ok := dstFile.FirstEmptyBoxSlot()
	if !ok {
		return Position{}, ErrBoxesFull
	}
	return TransferTo(src, from, dst, Position{Box: box, Slot: slot})
}

// TransferTo is Transfer with an explicit, empty destination slot.
func TransferTo(src *Manager, from Position, dst *Manager, to Position) (Position, error) {
	srcFile, err := src.SaveFile()
	if err != nil {
		return Position{}, err
	}
	dstFile, err := dst.SaveFile()
	if err != nil {
		return Position{}, err
	}

	rec, err := srcFile.BoxRecord(from.Box, from.Slot)
	if err != nil {
		return Position{}, err
	}
	if rec.IsCorrupt() {
		return Position{}, fmt.Errorf("%s: %w", from, gen3.ErrCorruptRecord)
	}
	if rec.IsEmpty() {
		return Position{}, fmt.Errorf("%s: %w", from, ErrEmptySlot)
	}

	// Everything that can fail is checked before the destination changes
	if !rec.IsEgg() && rec.NationalDex() == 0 {
		return Position{}, fmt.Errorf("%s: species %d: %w", from, rec.Growth.Species, ErrNoDexEntry)
	}

	existing, err := dstFile.BoxRecord(to.Box, to.Slot)
	if err != nil {
		return Position{}, err
	}
	if !existing.IsEmpty() {
		return Position{}, fmt.Errorf("%s: %w", to, ErrSlotOccupied)
	}

	if err := dstFile.WriteBoxSlot(to.Box, to.Slot, rec); err != nil {
		return Position{}, err
	}
	if !rec.IsEgg() {
		if err := dstFile.SetPokedex(rec.NationalDex(), true); err != nil {
			return Position{}, fmt.Errorf("updating pokedex: %w", err)
		}
	}

	dst.logger.Info("🔁 Transferred Pokémon",
		"species", rec.NationalDex(),
		"from", src.path,
		"from_slot", from.String(),
		"to", dst.path,
		"to_slot", to.String())
	return to, nil
}
