package gen3

import (
	"errors"
	"fmt"
)

// ErrUnknownBaseStats is returned when no base stat row exists for a species.
var ErrUnknownBaseStats = errors.New("❌ no base stats for species")

// BaseStats in HP, Attack, Defense, Speed, SpAttack, SpDefense order.
type BaseStats [6]int

// baseStats is keyed by national dex number. It covers the species that
// change through a trade, before and after.
var baseStats = map[uint16]BaseStats{
	61:  {65, 65, 65, 90, 50, 50},     // Poliwhirl
	64:  {40, 35, 30, 105, 120, 70},   // Kadabra
	65:  {55, 50, 45, 120, 135, 85},   // Alakazam
	67:  {80, 100, 70, 45, 50, 60},    // Machoke
	68:  {90, 130, 80, 55, 65, 85},    // Machamp
	75:  {55, 95, 115, 35, 45, 45},    // Graveler
	76:  {80, 120, 130, 45, 55, 65},   // Golem
	79:  {90, 65, 65, 15, 40, 40},     // Slowpoke
	93:  {45, 50, 45, 95, 115, 55},    // Haunter
	94:  {60, 65, 60, 110, 130, 75},   // Gengar
	95:  {35, 45, 160, 70, 30, 45},    // Onix
	117: {55, 65, 95, 85, 95, 45},     // Seadra
	123: {70, 110, 80, 105, 55, 80},   // Scyther
	137: {65, 60, 70, 40, 85, 75},     // Porygon
	186: {90, 75, 75, 70, 90, 100},    // Politoed
	199: {95, 75, 80, 30, 100, 110},   // Slowking
	208: {75, 85, 200, 30, 55, 65},    // Steelix
	212: {70, 130, 100, 65, 55, 80},   // Scizor
	230: {75, 95, 95, 85, 95, 95},     // Kingdra
	233: {85, 80, 90, 60, 105, 95},    // Porygon2
	366: {35, 64, 85, 32, 74, 55},     // Clamperl
	367: {55, 104, 105, 52, 94, 75},   // Huntail
	368: {55, 84, 105, 52, 114, 75},   // Gorebyss
}

// GrowthRate is an experience group.
type GrowthRate int

const (
	GrowthMediumFast GrowthRate = iota
	GrowthMediumSlow
	GrowthErratic
)

// growthRates covers the same species as baseStats.
var growthRates = map[uint16]GrowthRate{
	61: GrowthMediumSlow, 64: GrowthMediumSlow, 65: GrowthMediumSlow,
	67: GrowthMediumSlow, 68: GrowthMediumSlow, 75: GrowthMediumSlow,
	76: GrowthMediumSlow, 79: GrowthMediumFast, 93: GrowthMediumSlow,
	94: GrowthMediumSlow, 95: GrowthMediumFast, 117: GrowthMediumFast,
	123: GrowthMediumFast, 137: GrowthMediumFast, 186: GrowthMediumSlow,
	199: GrowthMediumFast, 208: GrowthMediumFast, 212: GrowthMediumFast,
	230: GrowthMediumFast, 233: GrowthMediumFast, 366: GrowthErratic,
	367: GrowthErratic, 368: GrowthErratic,
}

// ExperienceForLevel returns the total experience needed to reach level.
func ExperienceForLevel(rate GrowthRate, level int) int {
	if level <= 1 {
		return 0
	}
	n := level
	cube := n * n * n
	switch rate {
	case GrowthMediumSlow:
		return 6*cube/5 - 15*n*n + 100*n - 140
	case GrowthErratic:
		switch {
		case n <= 50:
			return cube * (100 - n) / 50
		case n <= 68:
			return cube * (150 - n) / 100
		case n <= 98:
			return cube * ((1911 - 10*n) / 3) / 500
		default:
			return cube * (160 - n) / 100
		}
	default:
		return cube
	}
}

// LevelForExperience returns the level a species has with exp points.
func LevelForExperience(national uint16, exp uint32) (int, error) {
	rate, ok := growthRates[national]
	if !ok {
		return 0, fmt.Errorf("%w: #%d", ErrUnknownBaseStats, national)
	}
	level := 1
	for level < 100 && uint32(ExperienceForLevel(rate, level+1)) <= exp {
		level++
	}
	return level, nil
}

// LookupBaseStats returns the base stats for a national dex number.
func LookupBaseStats(national uint16) (BaseStats, bool) {
	b, ok := baseStats[national]
	return b, ok
}

// Stats is a full computed stat line.
type Stats struct {
	HP, Attack, Defense, Speed, SpAttack, SpDefense int
}

// CalcStats applies the Gen III stat formula.
func CalcStats(base BaseStats, ivs IVs, evs EVs, level int, nature Nature) Stats {
	iv := [6]int{int(ivs.HP), int(ivs.Attack), int(ivs.Defense), int(ivs.Speed), int(ivs.SpAttack), int(ivs.SpDefense)}
	ev := [6]int{int(evs.HP), int(evs.Attack), int(evs.Defense), int(evs.Speed), int(evs.SpAttack), int(evs.SpDefense)}

	var out [6]int
	out[0] = (2*base[0]+iv[0]+ev[0]/4)*level/100 + level + 10
	for i := 1; i < 6; i++ {
		raw := (2*base[i]+iv[i]+ev[i]/4)*level/100 + 5
		out[i] = raw * nature.modifier(i-1) / 100
	}
	return Stats{out[0], out[1], out[2], out[3], out[4], out[5]}
}

// RecalculateStats recomputes the party stat block from the record's
// species, IVs, EVs, level and nature. Current HP is moved by the same
// amount as max HP and clamped to the new range.
func (r *PokemonRecord) RecalculateStats() error {
	if r.IsCorrupt() {
		return ErrCorruptRecord
	}
	if r.Party == nil {
		return nil
	}
	dex := r.NationalDex()
	base, ok := LookupBaseStats(dex)
	if !ok {
		return fmt.Errorf("%w: #%d", ErrUnknownBaseStats, dex)
	}

	s := CalcStats(base, r.Misc.IVs(), r.EVs, int(r.Party.Level), r.Nature())
	hp := int(r.Party.HP) + s.HP - int(r.Party.MaxHP)
	if hp < 0 {
		hp = 0
	}
	if hp > s.HP {
		hp = s.HP
	}

	r.Party.MaxHP = uint16(s.HP)
	r.Party.HP = uint16(hp)
	r.Party.Attack = uint16(s.Attack)
	r.Party.Defense = uint16(s.Defense)
	r.Party.Speed = uint16(s.Speed)
	r.Party.SpAttack = uint16(s.SpAttack)
	r.Party.SpDefense = uint16(s.SpDefense)
	return nil
}
