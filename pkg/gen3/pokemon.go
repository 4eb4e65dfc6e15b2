package gen3

import (
	"encoding/binary"
	"fmt"
)

// Record header flag bits (byte 0x13)
const (
	FlagBadEgg     = 1 << 0
	FlagHasSpecies = 1 << 1
	FlagUseEggName = 1 << 2
)

// PartyStats is the 20-byte battle tail carried only by party members.
type PartyStats struct {
	Status           uint32
	Level            uint8
	PokerusRemaining uint8
	HP               uint16
	MaxHP            uint16
	Attack           uint16
	Defense          uint16
	Speed            uint16
	SpAttack         uint16
	SpDefense        uint16
}

// PokemonRecord is a decoded box (80-byte) or party (100-byte) Pokémon.
type PokemonRecord struct {
	Personality uint32
	OTID        uint32 // secret ID in the high half, public ID in the low half
	NicknameRaw [NicknameLength]byte
	Language    uint8
	Flags       uint8
	OTNameRaw   [OTNameLength]byte
	Markings    uint8
	Checksum    uint16 // as stored; recomputed by EncodeRecord
	Padding     uint16

	Growth  Growth
	Attacks Attacks
	EVs     EVs
	Misc    Misc

	// Party is nil for box records
	Party *PartyStats

	// raw holds the original bytes of a record that failed to decode;
	// such records are written back exactly as read.
	raw []byte
}

// DecodeRecord decrypts and parses an 80- or 100-byte record.
//
// A checksum mismatch or an impossible personality still returns a record:
// it is marked corrupt, keeps its original bytes and reports the cause in err.
func DecodeRecord(data []byte) (*PokemonRecord, error) {
	if len(data) != BoxRecordSize && len(data) != PartyRecordSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidRecordSize, len(data))
	}

	rec := &PokemonRecord{
		Personality: binary.LittleEndian.Uint32(data[0:4]),
		OTID:        binary.LittleEndian.Uint32(data[4:8]),
		Language:    data[0x12],
		Flags:       data[0x13],
		Markings:    data[0x1B],
		Checksum:    binary.LittleEndian.Uint16(data[0x1C:0x1E]),
		Padding:     binary.LittleEndian.Uint16(data[0x1E:0x20]),
	}
	copy(rec.NicknameRaw[:], data[0x08:0x12])
	copy(rec.OTNameRaw[:], data[0x14:0x1B])

	if len(data) == PartyRecordSize {
		rec.Party = unpackPartyStats(data[BoxRecordSize:])
	}

	order, err := SubstructureOrder(rec.Personality)
	if err != nil {
		rec.raw = append([]byte(nil), data...)
		return rec, err
	}

	block := CryptBlock(data[RecordHeaderSize:BoxRecordSize], rec.Personality, rec.OTID)
	if sum := RecordChecksum(block); sum != rec.Checksum {
		rec.raw = append([]byte(nil), data...)
		return rec, fmt.Errorf("%w: stored 0x%04x, computed 0x%04x", ErrRecordChecksum, rec.Checksum, sum)
	}

	for pos, tag := range order {
		sub := block[pos*SubstructureSize : (pos+1)*SubstructureSize]
		switch tag {
		case TagGrowth:
			rec.Growth.unpack(sub)
		case TagAttacks:
			rec.Attacks.unpack(sub)
		case TagEVs:
			rec.EVs.unpack(sub)
		case TagMisc:
			rec.Misc.unpack(sub)
		}
	}

	return rec, nil
}

// EncodeRecord serializes, checksums and encrypts a record. Party records
// produce 100 bytes, box records 80. Corrupt records return their original
// bytes.
func EncodeRecord(rec *PokemonRecord) ([]byte, error) {
	if rec.raw != nil {
		return append([]byte(nil), rec.raw...), nil
	}

	order, err := SubstructureOrder(rec.Personality)
	if err != nil {
		return nil, err
	}

	block := make([]byte, SubstructureBlock)
	for pos, tag := range order {
		sub := block[pos*SubstructureSize : (pos+1)*SubstructureSize]
		switch tag {
		case TagGrowth:
			rec.Growth.pack(sub)
		case TagAttacks:
			rec.Attacks.pack(sub)
		case TagEVs:
			rec.EVs.pack(sub)
		case TagMisc:
			rec.Misc.pack(sub)
		}
	}
	checksum := RecordChecksum(block)

	size := BoxRecordSize
	if rec.Party != nil {
		size = PartyRecordSize
	}
	out := make([]byte, size)
	binary.LittleEndian.PutUint32(out[0:4], rec.Personality)
	binary.LittleEndian.PutUint32(out[4:8], rec.OTID)
	copy(out[0x08:0x12], rec.NicknameRaw[:])
	out[0x12] = rec.Language
	out[0x13] = rec.Flags
	copy(out[0x14:0x1B], rec.OTNameRaw[:])
	out[0x1B] = rec.Markings
	binary.LittleEndian.PutUint16(out[0x1C:0x1E], checksum)
	binary.LittleEndian.PutUint16(out[0x1E:0x20], rec.Padding)
	copy(out[RecordHeaderSize:BoxRecordSize], CryptBlock(block, rec.Personality, rec.OTID))

	if rec.Party != nil {
		packPartyStats(rec.Party, out[BoxRecordSize:])
	}

	rec.Checksum = checksum
	return out, nil
}

func unpackPartyStats(b []byte) *PartyStats {
	return &PartyStats{
		Status:           binary.LittleEndian.Uint32(b[0:4]),
		Level:            b[4],
		PokerusRemaining: b[5],
		HP:               binary.LittleEndian.Uint16(b[6:8]),
		MaxHP:            binary.LittleEndian.Uint16(b[8:10]),
		Attack:           binary.LittleEndian.Uint16(b[10:12]),
		Defense:          binary.LittleEndian.Uint16(b[12:14]),
		Speed:            binary.LittleEndian.Uint16(b[14:16]),
		SpAttack:         binary.LittleEndian.Uint16(b[16:18]),
		SpDefense:        binary.LittleEndian.Uint16(b[18:20]),
	}
}

func packPartyStats(p *PartyStats, b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], p.Status)
	b[4] = p.Level
	b[5] = p.PokerusRemaining
	binary.LittleEndian.PutUint16(b[6:8], p.HP)
	binary.LittleEndian.PutUint16(b[8:10], p.MaxHP)
	binary.LittleEndian.PutUint16(b[10:12], p.Attack)
	binary.LittleEndian.PutUint16(b[12:14], p.Defense)
	binary.LittleEndian.PutUint16(b[14:16], p.Speed)
	binary.LittleEndian.PutUint16(b[16:18], p.SpAttack)
	binary.LittleEndian.PutUint16(b[18:20], p.SpDefense)
}

// IsCorrupt reports whether the record failed to decode.
func (r *PokemonRecord) IsCorrupt() bool { return r.raw != nil }

// IsEmpty reports whether the storage slot holds no Pokémon.
func (r *PokemonRecord) IsEmpty() bool {
	if r.IsCorrupt() {
		return r.Personality == 0 && r.OTID == 0
	}
	return r.Growth.Species == 0
}

// IsEgg reports the egg bit.
func (r *PokemonRecord) IsEgg() bool { return !r.IsCorrupt() && r.Misc.IsEgg() }

// TrainerID is the original trainer's public ID.
func (r *PokemonRecord) TrainerID() uint16 { return uint16(r.OTID & 0xFFFF) }

// SecretID is the original trainer's secret ID.
func (r *PokemonRecord) SecretID() uint16 { return uint16(r.OTID >> 16) }

// Nature is derived from the personality value.
func (r *PokemonRecord) Nature() Nature { return NatureOf(r.Personality) }

// IsShiny applies the shiny test against the record's own OT ID.
func (r *PokemonRecord) IsShiny() bool {
	return IsShiny(r.Personality, r.TrainerID(), r.SecretID())
}

// NationalDex converts the stored species index.
func (r *PokemonRecord) NationalDex() uint16 { return NationalDex(r.Growth.Species) }

// Nickname decodes the nickname field.
func (r *PokemonRecord) Nickname() string { return DecodeText(r.NicknameRaw[:]) }

// SetNickname encodes s into the nickname field.
func (r *PokemonRecord) SetNickname(s string) error {
	raw, err := EncodeText(s, NicknameLength)
	if err != nil {
		return err
	}
	copy(r.NicknameRaw[:], raw)
	return nil
}

// OTName decodes the original trainer's name.
func (r *PokemonRecord) OTName() string { return DecodeText(r.OTNameRaw[:]) }

// Level returns the party level, or 0 for box records.
func (r *PokemonRecord) Level() int {
	if r.Party == nil {
		return 0
	}
	return int(r.Party.Level)
}

// Clone returns a deep copy.
func (r *PokemonRecord) Clone() *PokemonRecord {
	c := *r
	if r.Party != nil {
		p := *r.Party
		c.Party = &p
	}
	if r.raw != nil {
		c.raw = append([]byte(nil), r.raw...)
	}
	return &c
}

// ToBox returns the 80-byte storage form of the record.
func (r *PokemonRecord) ToBox() *PokemonRecord {
	c := r.Clone()
	c.Party = nil
	if c.raw != nil && len(c.raw) == PartyRecordSize {
		c.raw = c.raw[:BoxRecordSize]
	}
	return c
}

// ToParty returns the 100-byte form. A box record gets the given level and
// stats computed from base stats; species without a base stat row are
// refused with ErrUnknownBaseStats.
func (r *PokemonRecord) ToParty(level uint8) (*PokemonRecord, error) {
	if r.IsCorrupt() {
		return nil, ErrCorruptRecord
	}
	c := r.Clone()
	if c.Party != nil {
		return c, nil
	}
	c.Party = &PartyStats{Level: level}
	if err := c.RecalculateStats(); err != nil {
		return nil, err
	}
	c.Party.HP = c.Party.MaxHP
	return c, nil
}
