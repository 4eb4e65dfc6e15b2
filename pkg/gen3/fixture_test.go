package gen3

import (
	"os"
	"testing"

	"github.com/hashicorp/go-hclog"
)

const (
	testKey     uint32 = 0x5A3C9E17
	testTID     uint16 = 24294
	testSID     uint16 = 38834
	testMoney   uint32 = 3000
	testCoins   uint16 = 150
	testOTID           = uint32(testSID)<<16 | uint32(testTID)
	kadabraIdx  uint16 = 64
	clamperlIdx uint16 = 373

	// Box 2 slot 20 is PC record 49, which spans sections 5 and 6
	straddleBox  = 1
	straddleSlot = 19
)

func testLogger(t *testing.T) hclog.Logger {
	t.Helper()
	return hclog.New(&hclog.LoggerOptions{
		Name:   t.Name(),
		Level:  hclog.Trace,
		Output: os.Stderr,
	})
}

// testRecord builds a box-form record with recognizable contents.
func testRecord(t *testing.T, pid uint32, species uint16) *PokemonRecord {
	t.Helper()
	r := &PokemonRecord{
		Personality: pid,
		OTID:        testOTID,
		Language:    2,
		Flags:       FlagHasSpecies,
		Markings:    0x05,
	}
	r.Growth = Growth{Species: species, Item: 0, Experience: 27000, Friendship: 70}
	r.Attacks = Attacks{Moves: [4]uint16{93, 50, 134, 0}, PP: [4]uint8{25, 20, 15, 0}}
	r.EVs = EVs{HP: 12, SpAttack: 200, Speed: 40, Cool: 3}
	r.Misc.MetLocation = 16
	r.Misc.Origins = 20 | 3<<7 | 4<<11
	r.Misc.SetIVs(IVs{HP: 31, Attack: 4, Defense: 17, Speed: 28, SpAttack: 30, SpDefense: 9})
	r.Misc.Ribbons = 1

	if err := r.SetNickname("KADABRA"); err != nil {
		t.Fatalf("SetNickname: %v", err)
	}
	ot, err := EncodeText("MAY", OTNameLength)
	if err != nil {
		t.Fatalf("EncodeText: %v", err)
	}
	copy(r.OTNameRaw[:], ot)
	return r
}

func testPartyRecord(t *testing.T, pid uint32, species uint16, level uint8) *PokemonRecord {
	t.Helper()
	r, err := testRecord(t, pid, species).ToParty(level)
	if err != nil {
		t.Fatalf("ToParty: %v", err)
	}
	return r
}

func mustEncode(t *testing.T, r *PokemonRecord) []byte {
	t.Helper()
	raw, err := EncodeRecord(r.Clone())
	if err != nil {
		t.Fatalf("EncodeRecord: %v", err)
	}
	return raw
}

// testSections builds the fourteen logical sections of a slot: a trainer
// named MAY with two party members, a box record in box 1 slot 1 and one
// that straddles sections 5 and 6.
func testSections(t *testing.T, game Game, saveIndex uint32) [SectionsPerSlot]*Section {
	t.Helper()
	var secs [SectionsPerSlot]*Section
	for id := range secs {
		secs[id] = &Section{ID: uint16(id), Signature: SectionSignature, SaveIndex: saveIndex}
	}
	l := layouts[game]

	trainer := secs[SectionTrainer]
	name, err := EncodeText("MAY", TrainerNameLength+1)
	if err != nil {
		t.Fatalf("EncodeText: %v", err)
	}
	copy(trainer.Data[trainerNameOffset:], name)
	trainer.Data[trainerGenderOffset] = 1
	trainer.putU16(trainerIDOffset, testTID)
	trainer.putU16(secretIDOffset, testSID)
	trainer.putU16(playHoursOffset, 12)
	trainer.Data[playMinutesOffset] = 34
	trainer.Data[playSecondsOffset] = 56
	trainer.Data[playFramesOffset] = 7

	key := uint32(0)
	switch game {
	case GameEmerald:
		key = testKey
		trainer.putU32(emeraldKeyOffset, key)
	case GameFireRedLeafGreen:
		key = testKey
		trainer.putU32(gameCodeOffset, 1)
		trainer.putU32(frlgKeyOffset, key)
	}

	team := secs[SectionTeamItems]
	team.putU32(l.money, testMoney^key)
	team.putU16(l.coins, testCoins^uint16(key))
	team.putU32(l.teamSize, 2)
	copy(team.Data[l.teamSize+4:], mustEncode(t, testPartyRecord(t, 0x12345678, kadabraIdx, 36)))
	copy(team.Data[l.teamSize+4+PartyRecordSize:], mustEncode(t, testPartyRecord(t, 2814471828, clamperlIdx, 30)))

	pc := make(pcBuffer, PCBufferSize)
	copy(pc.record(0, 0), mustEncode(t, testRecord(t, 0x5B1C7A3E, 25)))
	copy(pc.record(straddleBox, straddleSlot), mustEncode(t, testRecord(t, 0x0BADF00D, 150)))
	for box := 0; box < BoxCount; box++ {
		label, err := EncodeText("BOX", BoxNameLength)
		if err != nil {
			t.Fatalf("EncodeText: %v", err)
		}
		copy(pc.boxName(box), label)
	}
	byID := make(map[uint16]*Section)
	for id := SectionPCFirst; id <= SectionPCLast; id++ {
		byID[id] = secs[id]
	}
	pc.scatter(byID)

	for _, sec := range secs {
		sec.UpdateChecksum()
	}
	return secs
}

func writeSlot(img []byte, slot SlotID, secs [SectionsPerSlot]*Section, rotation int) {
	for id, sec := range secs {
		phys := (id + rotation) % SectionsPerSlot
		copy(img[slot.Offset()+phys*SectionSize:], sec.Pack())
	}
}

func trailerPattern(img []byte) {
	for i := TrailerOffset; i < SaveSize; i++ {
		img[i] = byte(i * 7)
	}
}

// buildImage returns a save whose slot A (index 10, rotation 3) is newer
// than slot B (index 9, rotation 2).
func buildImage(t *testing.T, game Game) []byte {
	t.Helper()
	img := make([]byte, SaveSize)
	trailerPattern(img)
	writeSlot(img, SlotA, testSections(t, game, 10), 3)
	writeSlot(img, SlotB, testSections(t, game, 9), 2)
	return img
}

func decodeImage(t *testing.T, img []byte, game Game) *SaveFile {
	t.Helper()
	f, err := Decode(img, Options{Game: game, Logger: testLogger(t)})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return f
}

// corruptSlot flips a byte inside a checksummed area of the slot.
func corruptSlot(img []byte, slot SlotID) {
	img[slot.Offset()+0x10] ^= 0xFF
}
