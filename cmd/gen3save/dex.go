package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/provide-io/gen3save/pkg/gen3"
)

func newDexCmd(a *app) *cobra.Command {
	var (
		seenOnly       bool
		unlockNational bool
	)

	cmd := &cobra.Command{
		Use:   "dex SAVE [SPECIES...]",
		Short: "Show Pokédex progress or register national dex numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var species []uint16
			for _, arg := range args[1:] {
				n, err := strconv.Atoi(arg)
				if err != nil || n < 1 || n > gen3.NationalDexSize || !gen3.IsValidSpecies(gen3.InternalIndex(uint16(n))) {
					return fmt.Errorf("%w: species must be a national dex number 1-%d, got %q", errInvalidArgs, gen3.NationalDexSize, arg)
				}
				species = append(species, uint16(n))
			}

			m, f, err := a.open(args[0])
			if err != nil {
				return err
			}
			w := out(cmd)

			if len(species) == 0 && !unlockNational {
				dex := f.Pokedex()
				heading(w, "Pokédex")
				fmt.Fprintf(w, "seen %d  owned %d  national %v\n", dex.SeenCount(), dex.OwnedCount(), f.HasNationalDex())
				for _, n := range dex.OwnedList() {
					fmt.Fprintf(w, "  #%03d\n", n)
				}
				return nil
			}

			for _, n := range species {
				if err := f.SetPokedex(n, !seenOnly); err != nil {
					return err
				}
			}
			if unlockNational {
				if err := f.UnlockNationalDex(); err != nil {
					return err
				}
			}
			if err := m.Save(); err != nil {
				return err
			}

			saved, err := m.SaveFile()
			if err != nil {
				return err
			}
			dex := saved.Pokedex()
			fmt.Fprintln(w, okText(fmt.Sprintf("✅ Pokédex updated: seen %d  owned %d", dex.SeenCount(), dex.OwnedCount())))
			return nil
		},
	}
	cmd.Flags().BoolVar(&seenOnly, "seen", false, "Mark species as seen only, not owned")
	cmd.Flags().BoolVar(&unlockNational, "unlock-national", false, "Unlock the national Pokédex")
	return cmd
}
