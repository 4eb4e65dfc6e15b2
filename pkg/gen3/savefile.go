package gen3

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/gen3save/pkg/logging"
)

// Options controls Decode.
type Options struct {
	// Game forces a layout; GameUnknown means detect from the save.
	Game   Game
	Logger hclog.Logger
}

// LoadReport describes which slot was used and which parts of the save
// failed to decode. A report with failures still comes with a usable
// SaveFile: only the failing subsystem is degraded.
type LoadReport struct {
	ActiveSlot SlotID
	SaveIndex  uint32
	Rotation   int
	Game       Game
	Detected   bool // Game came from DetectGame rather than Options
	SlotErrors [2]error
	Failures   []*SubsystemError
}

// OK reports whether every subsystem decoded cleanly.
func (r *LoadReport) OK() bool { return len(r.Failures) == 0 }

// Err joins all subsystem failures, or returns nil.
func (r *LoadReport) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Failed returns the failures recorded for one subsystem.
func (r *LoadReport) Failed(subsystem string) []*SubsystemError {
	var out []*SubsystemError
	for _, f := range r.Failures {
		if f.Subsystem == subsystem {
			out = append(out, f)
		}
	}
	return out
}

func (r *LoadReport) fail(subsystem string, err error) {
	r.Failures = append(r.Failures, &SubsystemError{Subsystem: subsystem, Err: err})
}

// BoxSubsystem is the report name of a 0-based box.
func BoxSubsystem(box int) string { return fmt.Sprintf("box %d", box+1) }

// SaveFile is a decoded save image. Edits are applied to working copies of
// the active slot's sections and only reach bytes through Encode.
type SaveFile struct {
	image    []byte
	active   *Slot
	sections [SectionsPerSlot]*Section
	game     Game
	pc       pcBuffer
	party    []*PokemonRecord
	boxes    [BoxCount][BoxCapacity]*PokemonRecord
	report   LoadReport
	logger   hclog.Logger
}

// Decode parses a 128 KiB save image. It fails only with *CorruptSaveError;
// every other problem is recorded in the LoadReport.
func Decode(data []byte, opts Options) (*SaveFile, error) {
	logger := logging.OrNull(opts.Logger)

	if len(data) != SaveSize {
		logger.Error("❌ Save image has wrong size", "size", len(data), "expected", SaveSize)
		return nil, &CorruptSaveError{Size: len(data)}
	}

	slotA := ParseSlot(SlotA, data[SlotAOffset:SlotAOffset+SlotSize])
	slotB := ParseSlot(SlotB, data[SlotBOffset:SlotBOffset+SlotSize])
	for _, s := range []*Slot{slotA, slotB} {
		if !s.Valid() {
			logger.Warn("⚠️ Save slot failed validation", "slot", s.ID, "error", s.Err)
		}
	}

	active, err := SelectActive(slotA, slotB)
	if err != nil {
		logger.Error("❌ No valid save slot", "error", err)
		return nil, err
	}

	f := &SaveFile{
		image:  append([]byte(nil), data...),
		active: active,
		logger: logger,
	}
	for id := uint16(0); id < SectionsPerSlot; id++ {
		f.sections[id] = active.Section(id).Clone()
	}

	f.report = LoadReport{
		ActiveSlot: active.ID,
		SaveIndex:  active.SaveIndex(),
		Rotation:   active.Rotation(),
		SlotErrors: [2]error{slotA.Err, slotB.Err},
	}

	f.game = opts.Game
	if f.game == GameUnknown {
		f.game = DetectGame(f.sections[SectionTrainer], f.sections[SectionTeamItems])
		f.report.Detected = true
	}
	f.report.Game = f.game

	logger.Debug("🔍 Selected save slot",
		"slot", active.ID,
		"save_index", f.report.SaveIndex,
		"rotation", f.report.Rotation,
		"game", f.game)

	if _, err := DecodeTrainer(f.game, f.sections[SectionTrainer], f.sections[SectionTeamItems], f.sections[SectionGameState]); err != nil {
		f.report.fail("trainer", err)
	}
	for _, p := range Pockets() {
		if _, err := decodePocket(f.game, p, f.sections[SectionTrainer], f.sections[SectionTeamItems]); err != nil {
			f.report.fail("items", fmt.Errorf("%s: %w", p, err))
			break
		}
	}
	f.decodeParty()
	f.decodeBoxes()

	for _, fail := range f.report.Failures {
		logger.Warn("⚠️ Subsystem failed to decode", "subsystem", fail.Subsystem, "error", fail.Err)
	}
	logger.Info("✅ Save decoded",
		"slot", active.ID,
		"game", f.game,
		"party", len(f.party),
		"failures", len(f.report.Failures))

	return f, nil
}

func (f *SaveFile) partyOffsets() (countOff, recordsOff int, err error) {
	l, err := layoutFor(f.game)
	if err != nil {
		return 0, 0, err
	}
	return l.teamSize, l.teamSize + 4, nil
}

func (f *SaveFile) decodeParty() {
	countOff, recordsOff, err := f.partyOffsets()
	if err != nil {
		f.report.fail("party", err)
		return
	}
	team := f.sections[SectionTeamItems]
	count := int(team.u32(countOff))
	if count > PartyCapacity {
		f.report.fail("party", fmt.Errorf("%w: team size %d", ErrValueOutOfRange, count))
		return
	}

	f.party = make([]*PokemonRecord, 0, count)
	for i := 0; i < count; i++ {
		off := recordsOff + i*PartyRecordSize
		rec, err := DecodeRecord(team.Data[off : off+PartyRecordSize])
		if err != nil {
			f.logger.Warn("⚠️ Corrupt party record", "slot", i, "error", err)
			f.report.fail("party", fmt.Errorf("slot %d: %w", i, err))
		}
		f.party = append(f.party, rec)
	}
}

func (f *SaveFile) decodeBoxes() {
	f.pc = gatherPC(f.active)
	for box := 0; box < BoxCount; box++ {
		for slot := 0; slot < BoxCapacity; slot++ {
			rec, err := DecodeRecord(f.pc.record(box, slot))
			if err != nil {
				f.logger.Warn("⚠️ Corrupt box record", "box", box+1, "slot", slot+1, "error", err)
				f.report.fail(BoxSubsystem(box), fmt.Errorf("slot %d: %w", slot+1, err))
			}
			f.boxes[box][slot] = rec
		}
	}
}

// Report returns the load report.
func (f *SaveFile) Report() *LoadReport { return &f.report }

// Game is the layout in use.
func (f *SaveFile) Game() Game { return f.game }

// ActiveSlot is the slot the save was decoded from.
func (f *SaveFile) ActiveSlot() SlotID { return f.active.ID }

// Section returns the working copy of a section. Callers must not modify it.
func (f *SaveFile) Section(id uint16) *Section {
	if int(id) >= SectionsPerSlot {
		return nil
	}
	return f.sections[id]
}

// Trainer decodes the trainer card from the current working sections.
func (f *SaveFile) Trainer() TrainerInfo {
	info, _ := DecodeTrainer(f.game, f.sections[SectionTrainer], f.sections[SectionTeamItems], f.sections[SectionGameState])
	return info
}

// Pocket returns the occupied slots of a pocket.
func (f *SaveFile) Pocket(p Pocket) ([]ItemStack, error) {
	return decodePocket(f.game, p, f.sections[SectionTrainer], f.sections[SectionTeamItems])
}

// Pokedex returns the owned and seen flags.
func (f *SaveFile) Pokedex() Pokedex { return decodePokedex(f.sections[SectionTrainer]) }

// HasNationalDex reports whether the national dex upgrade is unlocked.
func (f *SaveFile) HasNationalDex() bool { return hasNationalDex(f.game, f.sections[SectionTrainer]) }

// Party returns copies of the party members.
func (f *SaveFile) Party() []*PokemonRecord {
	out := make([]*PokemonRecord, len(f.party))
	for i, r := range f.party {
		out[i] = r.Clone()
	}
	return out
}

// PartyMember returns a copy of one party member.
func (f *SaveFile) PartyMember(slot int) (*PokemonRecord, error) {
	if slot < 0 || slot >= len(f.party) {
		return nil, &SlotRangeError{Area: "party", Index: slot, Max: len(f.party)}
	}
	return f.party[slot].Clone(), nil
}

// BoxRecord returns a copy of one box slot, which may be empty.
func (f *SaveFile) BoxRecord(box, slot int) (*PokemonRecord, error) {
	if err := checkBoxRange(box, slot); err != nil {
		return nil, err
	}
	return f.boxes[box][slot].Clone(), nil
}

// Box returns copies of all 30 slots of a box.
func (f *SaveFile) Box(box int) ([]*PokemonRecord, error) {
	if err := checkBoxRange(box, 0); err != nil {
		return nil, err
	}
	out := make([]*PokemonRecord, BoxCapacity)
	for i, r := range f.boxes[box] {
		out[i] = r.Clone()
	}
	return out, nil
}

// BoxName decodes a box label.
func (f *SaveFile) BoxName(box int) (string, error) {
	if err := checkBoxRange(box, 0); err != nil {
		return "", err
	}
	return DecodeText(f.pc.boxName(box)), nil
}

// Wallpaper returns a box's wallpaper index.
func (f *SaveFile) Wallpaper(box int) (int, error) {
	if err := checkBoxRange(box, 0); err != nil {
		return 0, err
	}
	return int(f.pc.wallpaper(box)), nil
}

// CurrentBox is the box the PC opens on, 0-based.
func (f *SaveFile) CurrentBox() int { return f.pc.currentBox() }

// FirstEmptyBoxSlot scans boxes in order for a free slot.
func (f *SaveFile) FirstEmptyBoxSlot() (box, slot int, ok bool) {
	for b := 0; b < BoxCount; b++ {
		for s := 0; s < BoxCapacity; s++ {
			if f.boxes[b][s].IsEmpty() {
				return b, s, true
			}
		}
	}
	return 0, 0, false
}

func checkBoxRange(box, slot int) error {
	if box < 0 || box >= BoxCount {
		return &SlotRangeError{Area: "box", Index: box, Max: BoxCount}
	}
	if slot < 0 || slot >= BoxCapacity {
		return &SlotRangeError{Area: "slot", Index: slot, Max: BoxCapacity}
	}
	return nil
}

// patch runs fn against clones of the listed sections. If fn succeeds the
// clones are checksummed and swapped in; otherwise nothing changes.
func (f *SaveFile) patch(ids []uint16, fn func(secs map[uint16]*Section) error) error {
	secs := make(map[uint16]*Section, len(ids))
	for _, id := range ids {
		secs[id] = f.sections[id].Clone()
	}
	if err := fn(secs); err != nil {
		return err
	}
	for id, sec := range secs {
		sec.UpdateChecksum()
		f.sections[id] = sec
	}
	return nil
}

func pcSectionIDs() []uint16 {
	ids := make([]uint16, 0, SectionPCLast-SectionPCFirst+1)
	for id := SectionPCFirst; id <= SectionPCLast; id++ {
		ids = append(ids, id)
	}
	return ids
}

// patchPC applies fn to a copy of the PC buffer and writes the changed
// sections back as one unit.
func (f *SaveFile) patchPC(fn func(pc pcBuffer) error) error {
	pc := append(pcBuffer(nil), f.pc...)
	if err := fn(pc); err != nil {
		return err
	}
	err := f.patch(pcSectionIDs(), func(secs map[uint16]*Section) error {
		changed := pc.scatter(secs)
		f.logger.Trace("🔧 PC sections patched", "sections", changed)
		return nil
	})
	if err != nil {
		return err
	}
	f.pc = pc
	return nil
}

// WriteBoxSlot stores rec in a box slot. Party records are stored in their
// 80-byte form.
func (f *SaveFile) WriteBoxSlot(box, slot int, rec *PokemonRecord) error {
	if err := checkBoxRange(box, slot); err != nil {
		return err
	}
	if rec == nil {
		return f.ClearBoxSlot(box, slot)
	}
	raw, err := EncodeRecord(rec.ToBox())
	if err != nil {
		return fmt.Errorf("encode box %d slot %d: %w", box+1, slot+1, err)
	}
	if err := f.storeBox(box, slot, raw); err != nil {
		return err
	}
	f.logger.Debug("📦 Wrote box slot", "box", box+1, "slot", slot+1, "species", rec.NationalDex())
	return nil
}

// ClearBoxSlot zeroes a box slot.
func (f *SaveFile) ClearBoxSlot(box, slot int) error {
	if err := checkBoxRange(box, slot); err != nil {
		return err
	}
	return f.storeBox(box, slot, make([]byte, BoxRecordSize))
}

func (f *SaveFile) storeBox(box, slot int, raw []byte) error {
	decoded, err := DecodeRecord(raw)
	if decoded == nil {
		return err
	}
	if err := f.patchPC(func(pc pcBuffer) error {
		copy(pc.record(box, slot), raw)
		return nil
	}); err != nil {
		return err
	}
	f.boxes[box][slot] = decoded
	return nil
}

// SetBoxName relabels a box. Names hold up to 8 characters.
func (f *SaveFile) SetBoxName(box int, name string) error {
	if err := checkBoxRange(box, 0); err != nil {
		return err
	}
	raw, err := EncodeText(name, BoxNameLength-1)
	if err != nil {
		return err
	}
	return f.patchPC(func(pc pcBuffer) error {
		dst := pc.boxName(box)
		copy(dst, raw)
		dst[BoxNameLength-1] = TextTerminator
		return nil
	})
}

// WritePartySlot stores rec in the party. slot may equal the current party
// size to append a member. Box records are promoted at the level their
// experience gives and with freshly computed stats.
func (f *SaveFile) WritePartySlot(slot int, rec *PokemonRecord) error {
	limit := len(f.party) + 1
	if limit > PartyCapacity {
		limit = PartyCapacity
	}
	if slot < 0 || slot >= limit {
		return &SlotRangeError{Area: "party", Index: slot, Max: limit}
	}
	if rec == nil {
		return fmt.Errorf("%w: nil record", ErrCorruptRecord)
	}

	member := rec
	if rec.Party == nil {
		if rec.IsCorrupt() {
			return ErrCorruptRecord
		}
		level, err := LevelForExperience(rec.NationalDex(), rec.Growth.Experience)
		if err != nil {
			return fmt.Errorf("promote to party slot %d: %w", slot+1, err)
		}
		if member, err = rec.ToParty(uint8(level)); err != nil {
			return err
		}
	}
	raw, err := EncodeRecord(member.Clone())
	if err != nil {
		return fmt.Errorf("encode party slot %d: %w", slot+1, err)
	}
	if len(raw) != PartyRecordSize {
		return fmt.Errorf("%w: %d bytes for party slot", ErrInvalidRecordSize, len(raw))
	}
	decoded, decErr := DecodeRecord(raw)
	if decoded == nil {
		return decErr
	}

	countOff, recordsOff, err := f.partyOffsets()
	if err != nil {
		return err
	}
	appending := slot == len(f.party)
	err = f.patch([]uint16{SectionTeamItems}, func(secs map[uint16]*Section) error {
		team := secs[SectionTeamItems]
		copy(team.Data[recordsOff+slot*PartyRecordSize:], raw)
		if appending {
			team.putU32(countOff, uint32(slot+1))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if appending {
		f.party = append(f.party, decoded)
	} else {
		f.party[slot] = decoded
	}
	f.logger.Debug("👥 Wrote party slot", "slot", slot+1, "species", decoded.NationalDex(), "party_size", len(f.party))
	return nil
}

// RemovePartySlot deletes a member and shifts the rest up. The last member
// cannot be removed.
func (f *SaveFile) RemovePartySlot(slot int) error {
	if slot < 0 || slot >= len(f.party) {
		return &SlotRangeError{Area: "party", Index: slot, Max: len(f.party)}
	}
	if len(f.party) == 1 {
		return fmt.Errorf("%w: party cannot be empty", ErrValueOutOfRange)
	}
	countOff, recordsOff, err := f.partyOffsets()
	if err != nil {
		return err
	}
	count := len(f.party)
	err = f.patch([]uint16{SectionTeamItems}, func(secs map[uint16]*Section) error {
		team := secs[SectionTeamItems]
		start := recordsOff + slot*PartyRecordSize
		end := recordsOff + count*PartyRecordSize
		copy(team.Data[start:end], team.Data[start+PartyRecordSize:end])
		clear(team.Data[end-PartyRecordSize : end])
		team.putU32(countOff, uint32(count-1))
		return nil
	})
	if err != nil {
		return err
	}
	f.party = append(f.party[:slot], f.party[slot+1:]...)
	return nil
}

// SetMoney writes money, applying the security key.
func (f *SaveFile) SetMoney(money uint32) error {
	return f.patch([]uint16{SectionTeamItems}, func(secs map[uint16]*Section) error {
		return writeMoney(f.game, f.sections[SectionTrainer], secs[SectionTeamItems], money)
	})
}

// SetCoins writes the Game Corner coin count.
func (f *SaveFile) SetCoins(coins uint16) error {
	return f.patch([]uint16{SectionTeamItems}, func(secs map[uint16]*Section) error {
		return writeCoins(f.game, f.sections[SectionTrainer], secs[SectionTeamItems], coins)
	})
}

// SetPocket replaces the contents of a pocket.
func (f *SaveFile) SetPocket(p Pocket, stacks []ItemStack) error {
	return f.patch([]uint16{SectionTeamItems}, func(secs map[uint16]*Section) error {
		return encodePocket(f.game, p, f.sections[SectionTrainer], secs[SectionTeamItems], stacks)
	})
}

// SetBadges overwrites the badge flags.
func (f *SaveFile) SetBadges(b Badges) error {
	return f.patch([]uint16{SectionGameState}, func(secs map[uint16]*Section) error {
		return writeBadges(f.game, secs[SectionGameState], b)
	})
}

// SetPokedex marks a national dex number as seen and optionally owned.
// Flags are only ever set, never cleared.
func (f *SaveFile) SetPokedex(national uint16, owned bool) error {
	ids := []uint16{SectionTrainer, SectionTeamItems, SectionRival}
	return f.patch(ids, func(secs map[uint16]*Section) error {
		return setPokedexFlags(f.game, secs[SectionTrainer], secs[SectionTeamItems], secs[SectionRival], national, true, owned)
	})
}

// UnlockNationalDex enables the national dex upgrade.
func (f *SaveFile) UnlockNationalDex() error {
	ids := []uint16{SectionTrainer, SectionGameState}
	return f.patch(ids, func(secs map[uint16]*Section) error {
		return unlockNationalDex(f.game, secs[SectionTrainer], secs[SectionGameState])
	})
}

// Encode serializes the save into a new image. The working sections are
// written to the inactive slot with the next save index and the rotation
// advanced by one; the previously active slot and the trailer are copied
// unchanged, so the old save remains as the backup.
func (f *SaveFile) Encode() []byte {
	out := append([]byte(nil), f.image...)

	target := f.active.ID.Other()
	index := f.active.SaveIndex() + 1
	rotation := (f.active.Rotation() + 1) % SectionsPerSlot
	base := target.Offset()

	for id := uint16(0); id < SectionsPerSlot; id++ {
		sec := f.sections[id].Clone()
		sec.ID = id
		sec.Signature = SectionSignature
		sec.SaveIndex = index
		sec.UpdateChecksum()

		phys := (int(id) + rotation) % SectionsPerSlot
		copy(out[base+phys*SectionSize:], sec.Pack())
	}

	f.logger.Debug("💾 Encoded save",
		"slot", target,
		"save_index", index,
		"rotation", rotation)
	return out
}
