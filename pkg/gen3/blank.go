package gen3

import (
	"fmt"
)

// NewSaveOptions describes the trainer of a freshly created save.
type NewSaveOptions struct {
	Game        Game
	TrainerName string
	Female      bool
	TrainerID   uint16
	SecretID    uint16
	// SecurityKey is ignored for Ruby/Sapphire. Emerald needs a value
	// above 1 so the game can be told apart from the others.
	SecurityKey uint32
}

// NewSave builds a 128 KiB image for a new game: no Pokémon, empty bag,
// boxes named "BOX 1" to "BOX 14". Both slots hold the same data, slot A
// with the higher save index.
func NewSave(opts NewSaveOptions) ([]byte, error) {
	if _, err := layoutFor(opts.Game); err != nil {
		return nil, err
	}
	key := opts.SecurityKey
	switch opts.Game {
	case GameRubySapphire:
		key = 0
	case GameEmerald:
		if key < 2 {
			return nil, fmt.Errorf("%w: emerald security key %d", ErrValueOutOfRange, key)
		}
	}
	if opts.TrainerName == "" {
		return nil, fmt.Errorf("%w: empty trainer name", ErrValueOutOfRange)
	}
	name, err := EncodeText(opts.TrainerName, TrainerNameLength)
	if err != nil {
		return nil, fmt.Errorf("trainer name: %w", err)
	}

	var secs [SectionsPerSlot]*Section
	for id := range secs {
		secs[id] = &Section{ID: uint16(id), Signature: SectionSignature}
	}

	trainer := secs[SectionTrainer]
	copy(trainer.Data[trainerNameOffset:], name)
	trainer.Data[trainerNameOffset+TrainerNameLength] = TextTerminator
	if opts.Female {
		trainer.Data[trainerGenderOffset] = 1
	}
	trainer.putU16(trainerIDOffset, opts.TrainerID)
	trainer.putU16(secretIDOffset, opts.SecretID)
	switch opts.Game {
	case GameEmerald:
		trainer.putU32(emeraldKeyOffset, key)
	case GameFireRedLeafGreen:
		trainer.putU32(gameCodeOffset, 1)
		trainer.putU32(frlgKeyOffset, key)
	}

	team := secs[SectionTeamItems]
	if err := writeMoney(opts.Game, trainer, team, 0); err != nil {
		return nil, err
	}
	if err := writeCoins(opts.Game, trainer, team, 0); err != nil {
		return nil, err
	}
	for _, p := range Pockets() {
		if err := encodePocket(opts.Game, p, trainer, team, nil); err != nil {
			return nil, err
		}
	}

	pc := make(pcBuffer, PCBufferSize)
	for box := 0; box < BoxCount; box++ {
		label, err := EncodeText(fmt.Sprintf("BOX %d", box+1), BoxNameLength)
		if err != nil {
			return nil, err
		}
		copy(pc.boxName(box), label)
	}
	byID := make(map[uint16]*Section)
	for id := SectionPCFirst; id <= SectionPCLast; id++ {
		byID[id] = secs[id]
	}
	pc.scatter(byID)

	img := make([]byte, SaveSize)
	for _, slot := range []SlotID{SlotA, SlotB} {
		index := uint32(1)
		if slot == SlotB {
			index = 0
		}
		for id, sec := range secs {
			sec.SaveIndex = index
			sec.UpdateChecksum()
			copy(img[slot.Offset()+id*SectionSize:], sec.Pack())
		}
	}
	return img, nil
}
