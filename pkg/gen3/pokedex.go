package gen3

import (
	"fmt"
	"math/bits"
)

// Pokedex holds the owned and seen bitfields indexed by national dex number.
type Pokedex struct {
	Owned [PokedexBitfieldLen]byte
	Seen  [PokedexBitfieldLen]byte
}

func dexBit(national uint16) (int, byte, error) {
	if national == 0 || national > NationalDexSize {
		return 0, 0, fmt.Errorf("%w: national dex #%d", ErrValueOutOfRange, national)
	}
	n := int(national) - 1
	return n / 8, 1 << (n % 8), nil
}

// IsOwned reports the caught flag.
func (d *Pokedex) IsOwned(national uint16) bool {
	i, mask, err := dexBit(national)
	return err == nil && d.Owned[i]&mask != 0
}

// IsSeen reports the seen flag.
func (d *Pokedex) IsSeen(national uint16) bool {
	i, mask, err := dexBit(national)
	return err == nil && d.Seen[i]&mask != 0
}

// OwnedCount counts caught species.
func (d *Pokedex) OwnedCount() int { return popcount(d.Owned[:]) }

// SeenCount counts seen species.
func (d *Pokedex) SeenCount() int { return popcount(d.Seen[:]) }

// OwnedList returns the caught national dex numbers in ascending order.
func (d *Pokedex) OwnedList() []uint16 {
	var out []uint16
	for n := uint16(1); n <= NationalDexSize; n++ {
		if d.IsOwned(n) {
			out = append(out, n)
		}
	}
	return out
}

func popcount(b []byte) int {
	n := 0
	for _, v := range b {
		n += bits.OnesCount8(v)
	}
	return n
}

func decodePokedex(trainer *Section) Pokedex {
	var d Pokedex
	copy(d.Owned[:], trainer.Data[pokedexOwnedOffset:])
	copy(d.Seen[:], trainer.Data[pokedexSeenOffset:])
	return d
}

// setPokedexFlags marks a species in the trainer section and, for seen, in
// the two mirror copies in sections 1 and 4. The game treats a species as
// seen only when all three copies agree.
func setPokedexFlags(g Game, trainer, team, rival *Section, national uint16, seen, owned bool) error {
	l, err := layoutFor(g)
	if err != nil {
		return err
	}
	i, mask, err := dexBit(national)
	if err != nil {
		return err
	}
	if owned {
		trainer.Data[pokedexOwnedOffset+i] |= mask
	}
	if seen || owned {
		trainer.Data[pokedexSeenOffset+i] |= mask
		team.Data[l.seen1+i] |= mask
		rival.Data[l.seen2+i] |= mask
	}
	return nil
}

// nationalDexMarkers are the three places the game records the national
// dex upgrade: a magic value in section 0, a flag bit and a variable in
// section 2.
type nationalDexMarkers struct {
	magicOffset int
	magicWide   bool
	magic       uint16
	flagOffset  int
	flagMask    uint8
	varOffset   int
	varValue    uint16
}

var nationalDexLayouts = map[Game]nationalDexMarkers{
	GameRubySapphire:     {0x19, true, 0x01DA, 0x3A6, 1 << 6, 0x44C, 0x0302},
	GameEmerald:          {0x19, true, 0x01DA, 0x402, 1 << 6, 0x4A8, 0x0302},
	GameFireRedLeafGreen: {0x1B, false, 0xB9, 0x68, 1 << 0, 0x11C, 0x6258},
}

func hasNationalDex(g Game, trainer *Section) bool {
	m, ok := nationalDexLayouts[g]
	if !ok || trainer == nil {
		return false
	}
	if m.magicWide {
		return trainer.u16(m.magicOffset) == m.magic
	}
	return uint16(trainer.u8(m.magicOffset)) == m.magic
}

func unlockNationalDex(g Game, trainer, state *Section) error {
	m, ok := nationalDexLayouts[g]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGame, g)
	}
	if m.magicWide {
		trainer.putU16(m.magicOffset, m.magic)
	} else {
		trainer.Data[m.magicOffset] = uint8(m.magic)
	}
	state.Data[m.flagOffset] |= m.flagMask
	state.putU16(m.varOffset, m.varValue)
	return nil
}
