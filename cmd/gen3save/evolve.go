package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provide-io/gen3save/pkg/evolution"
	"github.com/provide-io/gen3save/pkg/gen3"
	"github.com/provide-io/gen3save/pkg/savemgr"
)

func newEvolveCmd(a *app) *cobra.Command {
	var (
		partySlot int
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "evolve SAVE [BOX SLOT]",
		Short: "Apply a trade evolution to a boxed or party Pokémon",
		Example: `  gen3save evolve emerald.sav 1 5
  gen3save evolve emerald.sav --party 2`,
		Args: func(cmd *cobra.Command, args []string) error {
			if partySlot > 0 {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, f, err := a.open(args[0])
			if err != nil {
				return err
			}

			var (
				rec  *gen3.PokemonRecord
				pos  savemgr.Position
				slot int
			)
			if partySlot > 0 {
				if slot, err = parseIndex("party slot", fmt.Sprint(partySlot), gen3.PartyCapacity); err != nil {
					return err
				}
				rec, err = f.PartyMember(slot)
			} else {
				if pos.Box, err = parseIndex("box", args[1], gen3.BoxCount); err != nil {
					return err
				}
				if pos.Slot, err = parseIndex("slot", args[2], gen3.BoxCapacity); err != nil {
					return err
				}
				rec, err = f.BoxRecord(pos.Box, pos.Slot)
			}
			if err != nil {
				return err
			}

			if dryRun {
				rule, ok := evolution.Check(rec)
				if !ok {
					fmt.Fprintln(out(cmd), warnText("not eligible for a trade evolution"))
					return nil
				}
				fmt.Fprintf(out(cmd), "would evolve: %s\n", rule)
				return nil
			}

			var rule evolution.Rule
			if partySlot > 0 {
				rule, err = m.EvolveParty(slot)
			} else {
				rule, err = m.EvolveBox(pos)
			}
			if err != nil {
				return err
			}
			if err := m.Save(); err != nil {
				return err
			}
			msg := fmt.Sprintf("✨ %s", rule)
			if rule.ConsumesItem() {
				msg += fmt.Sprintf(" (%s consumed)", rule.ItemName)
			}
			fmt.Fprintln(out(cmd), okText(msg))
			return nil
		},
	}
	cmd.Flags().IntVar(&partySlot, "party", 0, "Evolve party member N (1-6) instead of a box slot")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only report what would happen")
	return cmd
}

func newTransferCmd(a *app) *cobra.Command {
	var (
		box, slot     int
		toBox, toSlot int
	)

	cmd := &cobra.Command{
		Use:   "transfer SRC DST",
		Short: "Copy a boxed Pokémon from one save into another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from := savemgr.Position{}
			var err error
			if from.Box, err = parseIndex("box", fmt.Sprint(box), gen3.BoxCount); err != nil {
				return err
			}
			if from.Slot, err = parseIndex("slot", fmt.Sprint(slot), gen3.BoxCapacity); err != nil {
				return err
			}

			src, _, err := a.open(args[0])
			if err != nil {
				return err
			}
			dst, _, err := a.open(args[1])
			if err != nil {
				return err
			}

			var pos savemgr.Position
			if toBox > 0 || toSlot > 0 {
				to := savemgr.Position{}
				if to.Box, err = parseIndex("to-box", fmt.Sprint(toBox), gen3.BoxCount); err != nil {
					return err
				}
				if to.Slot, err = parseIndex("to-slot", fmt.Sprint(toSlot), gen3.BoxCapacity); err != nil {
					return err
				}
				pos, err = savemgr.TransferTo(src, from, dst, to)
			} else {
				pos, err = savemgr.Transfer(src, from, dst)
			}
			if err != nil {
				return err
			}
			if err := dst.Save(); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), okText(fmt.Sprintf("🔁 copied %s to %s", from, pos)))
			return nil
		},
	}
	cmd.Flags().IntVar(&box, "box", 0, "Source box (1-14)")
	cmd.Flags().IntVar(&slot, "slot", 0, "Source slot (1-30)")
	cmd.Flags().IntVar(&toBox, "to-box", 0, "Destination box; first empty slot when unset")
	cmd.Flags().IntVar(&toSlot, "to-slot", 0, "Destination slot")
	_ = cmd.MarkFlagRequired("box")
	_ = cmd.MarkFlagRequired("slot")
	return cmd
}
