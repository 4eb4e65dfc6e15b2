package gen3

import (
	"encoding/binary"

	"github.com/provide-io/gen3save/pkg/utils"
)

// SubstructureTag identifies one of the four 12-byte blocks of a record.
type SubstructureTag int

const (
	TagGrowth SubstructureTag = iota
	TagAttacks
	TagEVs
	TagMisc
)

func (t SubstructureTag) String() string {
	switch t {
	case TagGrowth:
		return "G"
	case TagAttacks:
		return "A"
	case TagEVs:
		return "E"
	case TagMisc:
		return "M"
	default:
		return "?"
	}
}

// permutations[personality%24][position] is the tag stored at that position.
var permutations = [PermutationCount][4]SubstructureTag{
	{TagGrowth, TagAttacks, TagEVs, TagMisc}, // GAEM
	{TagGrowth, TagAttacks, TagMisc, TagEVs}, // GAME
	{TagGrowth, TagEVs, TagAttacks, TagMisc}, // GEAM
	{TagGrowth, TagEVs, TagMisc, TagAttacks}, // GEMA
	{TagGrowth, TagMisc, TagAttacks, TagEVs}, // GMAE
	{TagGrowth, TagMisc, TagEVs, TagAttacks}, // GMEA
	{TagAttacks, TagGrowth, TagEVs, TagMisc}, // AGEM
	{TagAttacks, TagGrowth, TagMisc, TagEVs}, // AGME
	{TagAttacks, TagEVs, TagGrowth, TagMisc}, // AEGM
	{TagAttacks, TagEVs, TagMisc, TagGrowth}, // AEMG
	{TagAttacks, TagMisc, TagGrowth, TagEVs}, // AMGE
	{TagAttacks, TagMisc, TagEVs, TagGrowth}, // AMEG
	{TagEVs, TagGrowth, TagAttacks, TagMisc}, // EGAM
	{TagEVs, TagGrowth, TagMisc, TagAttacks}, // EGMA
	{TagEVs, TagAttacks, TagGrowth, TagMisc}, // EAGM
	{TagEVs, TagAttacks, TagMisc, TagGrowth}, // EAMG
	{TagEVs, TagMisc, TagGrowth, TagAttacks}, // EMGA
	{TagEVs, TagMisc, TagAttacks, TagGrowth}, // EMAG
	{TagMisc, TagGrowth, TagAttacks, TagEVs}, // MGAE
	{TagMisc, TagGrowth, TagEVs, TagAttacks}, // MGEA
	{TagMisc, TagAttacks, TagGrowth, TagEVs}, // MAGE
	{TagMisc, TagAttacks, TagEVs, TagGrowth}, // MAEG
	{TagMisc, TagEVs, TagGrowth, TagAttacks}, // MEGA
	{TagMisc, TagEVs, TagAttacks, TagGrowth}, // MEAG
}

// SubstructureOrder returns the storage order for a personality value.
func SubstructureOrder(personality uint32) ([4]SubstructureTag, error) {
	idx := int(personality % PermutationCount)
	if idx < 0 || idx >= len(permutations) {
		return [4]SubstructureTag{}, &InvalidPersonalityError{Personality: personality, OrderIndex: idx, Tag: -1}
	}
	order := permutations[idx]
	var seen [4]bool
	for _, tag := range order {
		if tag < TagGrowth || tag > TagMisc || seen[tag] {
			return [4]SubstructureTag{}, &InvalidPersonalityError{Personality: personality, OrderIndex: idx, Tag: int(tag)}
		}
		seen[tag] = true
	}
	return order, nil
}

// OrderString renders an order as its four-letter name, e.g. "GAEM".
func OrderString(order [4]SubstructureTag) string {
	b := make([]byte, 4)
	for i, tag := range order {
		b[i] = tag.String()[0]
	}
	return string(b)
}

// cryptKey is the XOR key shared by encryption and decryption.
func cryptKey(personality, otID uint32) uint32 {
	return personality ^ otID
}

// CryptBlock encrypts or decrypts the 48-byte substructure block.
func CryptBlock(block []byte, personality, otID uint32) []byte {
	return utils.XORWords(block, cryptKey(personality, otID))
}

// Growth substructure
type Growth struct {
	Species    uint16 // internal species index
	Item       uint16
	Experience uint32
	PPBonuses  uint8
	Friendship uint8
	Unknown    uint16
}

// Attacks substructure
type Attacks struct {
	Moves [4]uint16
	PP    [4]uint8
}

// EVs substructure: effort values and contest condition
type EVs struct {
	HP        uint8
	Attack    uint8
	Defense   uint8
	Speed     uint8
	SpAttack  uint8
	SpDefense uint8
	Cool      uint8
	Beauty    uint8
	Cute      uint8
	Smart     uint8
	Tough     uint8
	Feel      uint8
}

// Misc substructure
type Misc struct {
	Pokerus      uint8
	MetLocation  uint8
	Origins      uint16 // met level, game, ball, OT gender
	IVEggAbility uint32 // six 5-bit IVs, egg bit, ability bit
	Ribbons      uint32
}

func (g *Growth) unpack(b []byte) {
	g.Species = binary.LittleEndian.Uint16(b[0:2])
	g.Item = binary.LittleEndian.Uint16(b[2:4])
	g.Experience = binary.LittleEndian.Uint32(b[4:8])
	g.PPBonuses = b[8]
	g.Friendship = b[9]
	g.Unknown = binary.LittleEndian.Uint16(b[10:12])
}

func (g *Growth) pack(b []byte) {
	binary.LittleEndian.PutUint16(b[0:2], g.Species)
	binary.LittleEndian.PutUint16(b[2:4], g.Item)
	binary.LittleEndian.PutUint32(b[4:8], g.Experience)
	b[8] = g.PPBonuses
	b[9] = g.Friendship
	binary.LittleEndian.PutUint16(b[10:12], g.Unknown)
}

func (a *Attacks) unpack(b []byte) {
	for i := 0; i < 4; i++ {
		a.Moves[i] = binary.LittleEndian.Uint16(b[i*2 : i*2+2])
		a.PP[i] = b[8+i]
	}
}

func (a *Attacks) pack(b []byte) {
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint16(b[i*2:i*2+2], a.Moves[i])
		b[8+i] = a.PP[i]
	}
}

func (e *EVs) fields() [12]*uint8 {
	return [12]*uint8{
		&e.HP, &e.Attack, &e.Defense, &e.Speed, &e.SpAttack, &e.SpDefense,
		&e.Cool, &e.Beauty, &e.Cute, &e.Smart, &e.Tough, &e.Feel,
	}
}

func (e *EVs) unpack(b []byte) {
	for i, f := range e.fields() {
		*f = b[i]
	}
}

func (e *EVs) pack(b []byte) {
	for i, f := range e.fields() {
		b[i] = *f
	}
}

// Total returns the sum of the six effort values.
func (e EVs) Total() int {
	return int(e.HP) + int(e.Attack) + int(e.Defense) + int(e.Speed) + int(e.SpAttack) + int(e.SpDefense)
}

func (m *Misc) unpack(b []byte) {
	m.Pokerus = b[0]
	m.MetLocation = b[1]
	m.Origins = binary.LittleEndian.Uint16(b[2:4])
	m.IVEggAbility = binary.LittleEndian.Uint32(b[4:8])
	m.Ribbons = binary.LittleEndian.Uint32(b[8:12])
}

func (m *Misc) pack(b []byte) {
	b[0] = m.Pokerus
	b[1] = m.MetLocation
	binary.LittleEndian.PutUint16(b[2:4], m.Origins)
	binary.LittleEndian.PutUint32(b[4:8], m.IVEggAbility)
	binary.LittleEndian.PutUint32(b[8:12], m.Ribbons)
}

// IVs are the six individual values, each 0-31.
type IVs struct {
	HP        uint8
	Attack    uint8
	Defense   uint8
	Speed     uint8
	SpAttack  uint8
	SpDefense uint8
}

// IVs unpacks the 5-bit fields in storage order HP, Atk, Def, Spe, SpA, SpD.
func (m Misc) IVs() IVs {
	v := m.IVEggAbility
	return IVs{
		HP:        uint8(v & 0x1F),
		Attack:    uint8((v >> 5) & 0x1F),
		Defense:   uint8((v >> 10) & 0x1F),
		Speed:     uint8((v >> 15) & 0x1F),
		SpAttack:  uint8((v >> 20) & 0x1F),
		SpDefense: uint8((v >> 25) & 0x1F),
	}
}

// SetIVs packs ivs back, leaving the egg and ability bits untouched.
func (m *Misc) SetIVs(ivs IVs) {
	v := m.IVEggAbility &^ 0x3FFFFFFF
	v |= uint32(ivs.HP&0x1F) |
		uint32(ivs.Attack&0x1F)<<5 |
		uint32(ivs.Defense&0x1F)<<10 |
		uint32(ivs.Speed&0x1F)<<15 |
		uint32(ivs.SpAttack&0x1F)<<20 |
		uint32(ivs.SpDefense&0x1F)<<25
	m.IVEggAbility = v
}

// IsEgg reports bit 30 of the IV word.
func (m Misc) IsEgg() bool { return m.IVEggAbility&(1<<30) != 0 }

// AbilitySlot is 0 or 1 (bit 31 of the IV word).
func (m Misc) AbilitySlot() int { return int(m.IVEggAbility >> 31) }

// MetLevel is 0 for hatched eggs.
func (m Misc) MetLevel() int { return int(m.Origins & 0x7F) }

// OriginGame is the version ID the Pokémon was caught in.
func (m Misc) OriginGame() int { return int((m.Origins >> 7) & 0xF) }

// Ball is the item ID of the Poké Ball it was caught in.
func (m Misc) Ball() int { return int((m.Origins >> 11) & 0xF) }

// OTFemale reports the original trainer's gender bit.
func (m Misc) OTFemale() bool { return m.Origins&0x8000 != 0 }
