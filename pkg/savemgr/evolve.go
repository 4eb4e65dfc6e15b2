package savemgr

import (
	"fmt"

	"github.com/provide-io/gen3save/pkg/evolution"
	"github.com/provide-io/gen3save/pkg/gen3"
)

// EvolveParty applies a trade evolution to a party member and registers
// the new species in the Pokédex.
func (m *Manager) EvolveParty(slot int) (evolution.Rule, error) {
	f, err := m.SaveFile()
	if err != nil {
		return evolution.Rule{}, err
	}
	rec, err := f.PartyMember(slot)
	if err != nil {
		return evolution.Rule{}, err
	}
	return m.evolve(f, rec, fmt.Sprintf("party slot %d", slot+1), func(out *gen3.PokemonRecord) error {
		return f.WritePartySlot(slot, out)
	})
}

// EvolveBox applies a trade evolution to a boxed Pokémon.
func (m *Manager) EvolveBox(pos Position) (evolution.Rule, error) {
	f, err := m.SaveFile()
	if err != nil {
		return evolution.Rule{}, err
	}
	rec, err := f.BoxRecord(pos.Box, pos.Slot)
	if err != nil {
		return evolution.Rule{}, err
	}
	return m.evolve(f, rec, pos.String(), func(out *gen3.PokemonRecord) error {
		return f.WriteBoxSlot(pos.Box, pos.Slot, out)
	})
}

func (m *Manager) evolve(f *gen3.SaveFile, rec *gen3.PokemonRecord, where string, store func(*gen3.PokemonRecord) error) (evolution.Rule, error) {
	out, rule, err := evolution.Apply(rec)
	if err != nil {
		return evolution.Rule{}, fmt.Errorf("%s: %w", where, err)
	}
	if err := store(out); err != nil {
		return evolution.Rule{}, err
	}
	if err := f.SetPokedex(rule.To, true); err != nil {
		return rule, fmt.Errorf("updating pokedex: %w", err)
	}

	m.logger.Info("✨ Evolved", "where", where, "evolution", rule.String(), "item_consumed", rule.ConsumesItem())
	return rule, nil
}
