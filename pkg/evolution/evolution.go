// Package evolution applies the evolutions that happen when a Pokémon is
// traded. Rules are keyed by national dex number.
package evolution

import (
	"errors"
	"fmt"
	"strings"

	"github.com/provide-io/gen3save/pkg/gen3"
)

// Held item IDs
const (
	ItemNone         uint16 = 0
	ItemKingsRock    uint16 = 187
	ItemDeepSeaTooth uint16 = 192
	ItemDeepSeaScale uint16 = 193
	ItemEverstone    uint16 = 195
	ItemMetalCoat    uint16 = 199
	ItemDragonScale  uint16 = 201
	ItemUpGrade      uint16 = 218
)

var (
	ErrNotEligible = errors.New("❌ not eligible for trade evolution")
	ErrEgg         = errors.New("❌ eggs cannot evolve")
)

// Rule is one trade evolution.
type Rule struct {
	From     uint16
	To       uint16
	Item     uint16 // ItemNone when no held item is needed
	FromName string
	ToName   string
	ItemName string
}

// ConsumesItem reports whether the held item is used up.
func (r Rule) ConsumesItem() bool { return r.Item != ItemNone }

func (r Rule) String() string {
	if r.Item == ItemNone {
		return fmt.Sprintf("%s -> %s", r.FromName, r.ToName)
	}
	return fmt.Sprintf("%s -> %s (%s)", r.FromName, r.ToName, r.ItemName)
}

var rules = []Rule{
	{64, 65, ItemNone, "Kadabra", "Alakazam", ""},
	{67, 68, ItemNone, "Machoke", "Machamp", ""},
	{75, 76, ItemNone, "Graveler", "Golem", ""},
	{93, 94, ItemNone, "Haunter", "Gengar", ""},
	{61, 186, ItemKingsRock, "Poliwhirl", "Politoed", "King's Rock"},
	{79, 199, ItemKingsRock, "Slowpoke", "Slowking", "King's Rock"},
	{95, 208, ItemMetalCoat, "Onix", "Steelix", "Metal Coat"},
	{123, 212, ItemMetalCoat, "Scyther", "Scizor", "Metal Coat"},
	{117, 230, ItemDragonScale, "Seadra", "Kingdra", "Dragon Scale"},
	{137, 233, ItemUpGrade, "Porygon", "Porygon2", "Up-Grade"},
	{366, 367, ItemDeepSeaTooth, "Clamperl", "Huntail", "Deep Sea Tooth"},
	{366, 368, ItemDeepSeaScale, "Clamperl", "Gorebyss", "Deep Sea Scale"},
}

// Rules returns every known trade evolution.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// RulesFor lists the trade evolutions of a species, whether or not the
// required item is held.
func RulesFor(national uint16) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.From == national {
			out = append(out, r)
		}
	}
	return out
}

// Check returns the evolution that would happen if rec were traded now.
// Rules without an item fire whatever is held. Eggs, corrupt records and
// Pokémon holding an Everstone never evolve.
func Check(rec *gen3.PokemonRecord) (Rule, bool) {
	if rec == nil || rec.IsCorrupt() || rec.IsEmpty() || rec.IsEgg() {
		return Rule{}, false
	}
	if rec.Growth.Item == ItemEverstone {
		return Rule{}, false
	}
	national, held := rec.NationalDex(), rec.Growth.Item
	for _, r := range rules {
		if r.From == national && (r.Item == ItemNone || r.Item == held) {
			return r, true
		}
	}
	return Rule{}, false
}

// Apply evolves a copy of rec. IVs, moves, EVs, OT data and personality
// carry over; the held item is consumed when the rule needs one; a nickname
// that is still the species name follows the new species; party stats are
// recalculated.
func Apply(rec *gen3.PokemonRecord) (*gen3.PokemonRecord, Rule, error) {
	if rec != nil && rec.IsEgg() {
		return nil, Rule{}, ErrEgg
	}
	rule, ok := Check(rec)
	if !ok {
		if rec != nil && rec.IsCorrupt() {
			return nil, Rule{}, gen3.ErrCorruptRecord
		}
		return nil, Rule{}, ErrNotEligible
	}

	out := rec.Clone()
	out.Growth.Species = gen3.InternalIndex(rule.To)
	if rule.ConsumesItem() {
		out.Growth.Item = ItemNone
	}

	if isDefaultNickname(rec.Nickname(), rule.FromName) {
		if err := out.SetNickname(strings.ToUpper(rule.ToName)); err != nil {
			return nil, Rule{}, fmt.Errorf("rename to %s: %w", rule.ToName, err)
		}
	}

	if err := out.RecalculateStats(); err != nil {
		return nil, Rule{}, fmt.Errorf("recalculate %s stats: %w", rule.ToName, err)
	}
	return out, rule, nil
}

func isDefaultNickname(nickname, species string) bool {
	nickname = strings.TrimSpace(nickname)
	return nickname == "" || strings.EqualFold(nickname, species)
}
