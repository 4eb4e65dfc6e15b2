package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provide-io/gen3save/pkg/gen3"
)

type infoJSON struct {
	Path       string    `json:"path"`
	Game       string    `json:"game"`
	ActiveSlot string    `json:"active_slot"`
	SaveIndex  uint32    `json:"save_index"`
	Trainer    trainerJS `json:"trainer"`
	Pokedex    dexJSON   `json:"pokedex"`
	Party      []monJSON `json:"party"`
	Failures   []string  `json:"failures,omitempty"`
}

type trainerJS struct {
	Name     string `json:"name"`
	Female   bool   `json:"female"`
	ID       uint16 `json:"id"`
	SecretID uint16 `json:"secret_id"`
	Money    uint32 `json:"money"`
	Coins    uint16 `json:"coins"`
	PlayTime string `json:"play_time"`
	Badges   int    `json:"badges"`
}

type dexJSON struct {
	Seen     int  `json:"seen"`
	Owned    int  `json:"owned"`
	National bool `json:"national"`
}

func newInfoCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info SAVE",
		Short: "Show trainer, Pokédex and party summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, f, err := a.open(args[0])
			if err != nil {
				return err
			}
			tr := f.Trainer()
			dex := f.Pokedex()
			report := f.Report()

			if asJSON {
				info := infoJSON{
					Path:       m.Path(),
					Game:       f.Game().String(),
					ActiveSlot: f.ActiveSlot().String(),
					SaveIndex:  report.SaveIndex,
					Trainer: trainerJS{
						Name:     tr.Name,
						Female:   tr.Female,
						ID:       tr.TrainerID,
						SecretID: tr.SecretID,
						Money:    tr.Money,
						Coins:    tr.Coins,
						PlayTime: tr.PlayTime.String(),
						Badges:   tr.Badges.Count(),
					},
					Pokedex: dexJSON{Seen: dex.SeenCount(), Owned: dex.OwnedCount(), National: f.HasNationalDex()},
					Party:   []monJSON{},
				}
				for i, rec := range f.Party() {
					info.Party = append(info.Party, toMonJSON(i, rec))
				}
				for _, fail := range report.Failures {
					info.Failures = append(info.Failures, fail.Error())
				}
				enc := json.NewEncoder(out(cmd))
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			w := out(cmd)
			heading(w, "%s (%s, slot %s, save #%d)", m.Path(), f.Game(), f.ActiveSlot(), report.SaveIndex)
			if !tr.IsValid {
				fmt.Fprintln(w, errText("trainer section is damaged"))
			} else {
				gender := "♂"
				if tr.Female {
					gender = "♀"
				}
				fmt.Fprintf(w, "Trainer   %s %s  ID %05d  SID %05d\n", tr.Name, gender, tr.TrainerID, tr.SecretID)
				fmt.Fprintf(w, "Money     ₽%d   Coins %d\n", tr.Money, tr.Coins)
				fmt.Fprintf(w, "Play time %s   Badges %d/%d\n", tr.PlayTime, tr.Badges.Count(), gen3.BadgeCount)
			}
			national := ""
			if f.HasNationalDex() {
				national = " (national)"
			}
			fmt.Fprintf(w, "Pokédex   seen %d  owned %d%s\n", dex.SeenCount(), dex.OwnedCount(), national)

			heading(w, "Party")
			for i, rec := range f.Party() {
				fmt.Fprintf(w, "  %d  %s\n", i+1, describeMon(rec))
			}
			if !report.OK() {
				fmt.Fprintln(w, warnText(fmt.Sprintf("%d subsystem(s) failed to decode, run verify for details", len(report.Failures))))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print machine-readable JSON")
	return cmd
}
