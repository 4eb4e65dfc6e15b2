package gen3

import (
	"fmt"

	"github.com/provide-io/gen3save/pkg/utils"
)

// ItemStack is one pocket slot.
type ItemStack struct {
	ID       uint16
	Quantity uint16
}

const itemStackSize = 4

// decodePocket returns the occupied slots of a pocket in stored order.
// PC storage quantities are never encrypted.
func decodePocket(g Game, p Pocket, trainer, team *Section) ([]ItemStack, error) {
	l, err := layoutFor(g)
	if err != nil {
		return nil, err
	}
	if p < 0 || p >= pocketCount {
		return nil, fmt.Errorf("%w: %s", ErrValueOutOfRange, p)
	}
	key := pocketKey(g, p, trainer)
	pl := l.pockets[p]

	var stacks []ItemStack
	for i := 0; i < pl.Capacity; i++ {
		off := pl.Offset + i*itemStackSize
		id := team.u16(off)
		if id == 0 {
			continue
		}
		stacks = append(stacks, ItemStack{
			ID:       id,
			Quantity: utils.XORUint16(team.u16(off+2), key),
		})
	}
	return stacks, nil
}

// encodePocket writes stacks into a pocket and clears the remaining slots.
func encodePocket(g Game, p Pocket, trainer, team *Section, stacks []ItemStack) error {
	l, err := layoutFor(g)
	if err != nil {
		return err
	}
	if p < 0 || p >= pocketCount {
		return fmt.Errorf("%w: %s", ErrValueOutOfRange, p)
	}
	pl := l.pockets[p]
	if len(stacks) > pl.Capacity {
		return fmt.Errorf("%w: %s holds %d, got %d", ErrPocketFull, p, pl.Capacity, len(stacks))
	}
	key := pocketKey(g, p, trainer)

	for i := 0; i < pl.Capacity; i++ {
		var st ItemStack
		if i < len(stacks) {
			st = stacks[i]
		}
		if st.ID == 0 {
			st.Quantity = 0
		}
		off := pl.Offset + i*itemStackSize
		team.putU16(off, st.ID)
		team.putU16(off+2, utils.XORUint16(st.Quantity, key))
	}
	return nil
}

func pocketKey(g Game, p Pocket, trainer *Section) uint32 {
	if p == PocketPC {
		return 0
	}
	return securityKey(g, trainer)
}
