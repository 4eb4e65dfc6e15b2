package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provide-io/gen3save/pkg/gen3"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify SAVE",
		Short: "Check section checksums and report damaged subsystems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := a.open(args[0])
			if err != nil {
				return err
			}
			w := out(cmd)
			report := f.Report()

			for i, slotErr := range report.SlotErrors {
				slot := gen3.SlotID(i)
				marker := ""
				if slot == report.ActiveSlot {
					marker = " (active)"
				}
				if slotErr != nil {
					fmt.Fprintf(w, "slot %s%s: %s %v\n", slot, marker, warnText("invalid"), slotErr)
				} else {
					fmt.Fprintf(w, "slot %s%s: %s\n", slot, marker, okText("ok"))
				}
			}
			detected := ""
			if report.Detected {
				detected = " (detected)"
			}
			fmt.Fprintf(w, "game %s%s, save index %d, rotation %d\n", report.Game, detected, report.SaveIndex, report.Rotation)

			if report.OK() {
				fmt.Fprintln(w, okText("✅ all subsystems decoded"))
				return nil
			}
			for _, fail := range report.Failures {
				fmt.Fprintf(w, "%s %s\n", errText("✗"), fail)
			}
			return fmt.Errorf("%w: %d problem(s)", errVerifyFailed, len(report.Failures))
		},
	}
}
