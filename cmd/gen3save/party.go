package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provide-io/gen3save/pkg/gen3"
)

func newPartyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "party SAVE",
		Short: "List party members with stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := a.open(args[0])
			if err != nil {
				return err
			}
			w := out(cmd)
			party := f.Party()
			heading(w, "Party (%d/%d)", len(party), gen3.PartyCapacity)
			for i, rec := range party {
				fmt.Fprintf(w, "%d  %s\n", i+1, describeMon(rec))
				if rec.IsCorrupt() || rec.Party == nil {
					continue
				}
				p := rec.Party
				fmt.Fprintf(w, "   HP %d/%d  Atk %d  Def %d  SpA %d  SpD %d  Spe %d\n",
					p.HP, p.MaxHP, p.Attack, p.Defense, p.SpAttack, p.SpDefense, p.Speed)
				iv := rec.Misc.IVs()
				fmt.Fprintf(w, "   IVs %d/%d/%d/%d/%d/%d  OT %s (%05d)\n",
					iv.HP, iv.Attack, iv.Defense, iv.SpAttack, iv.SpDefense, iv.Speed,
					rec.OTName(), rec.TrainerID())
			}
			return nil
		},
	}
}

func newBoxCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "box SAVE N",
		Short: "List the contents of PC box N (1-14)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := parseIndex("box", args[1], gen3.BoxCount)
			if err != nil {
				return err
			}
			_, f, err := a.open(args[0])
			if err != nil {
				return err
			}
			name, err := f.BoxName(box)
			if err != nil {
				return err
			}
			recs, err := f.Box(box)
			if err != nil {
				return err
			}

			w := out(cmd)
			heading(w, "Box %d: %s", box+1, name)
			used := 0
			for i, rec := range recs {
				if rec.IsEmpty() && !rec.IsCorrupt() {
					continue
				}
				used++
				fmt.Fprintf(w, "  %2d  %s\n", i+1, describeMon(rec))
			}
			fmt.Fprintf(w, "%d/%d slots used\n", used, gen3.BoxCapacity)
			return nil
		},
	}
}
