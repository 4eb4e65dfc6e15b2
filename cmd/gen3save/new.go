package main

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/provide-io/gen3save/pkg/gen3"
	"github.com/provide-io/gen3save/pkg/utils/fsutil"
)

func newNewCmd(a *app) *cobra.Command {
	var (
		name   string
		female bool
		tid    uint16
		sid    uint16
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "new SAVE",
		Short: "Create an empty save for a new game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game := a.cfg.ParsedGame()
			if game == gen3.GameUnknown {
				return fmt.Errorf("%w: --game is required for new saves", errInvalidArgs)
			}
			if _, err := os.Stat(args[0]); err == nil && !force {
				return fmt.Errorf("%w: %s exists, use --force to overwrite", errInvalidArgs, args[0])
			}

			var seed [8]byte
			if _, err := rand.Read(seed[:]); err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("tid") {
				tid = binary.LittleEndian.Uint16(seed[0:])
			}
			if !flags.Changed("sid") {
				sid = binary.LittleEndian.Uint16(seed[2:])
			}
			key := binary.LittleEndian.Uint32(seed[4:]) | 2

			img, err := gen3.NewSave(gen3.NewSaveOptions{
				Game:        game,
				TrainerName: name,
				Female:      female,
				TrainerID:   tid,
				SecretID:    sid,
				SecurityKey: key,
			})
			if err != nil {
				return err
			}
			if err := fsutil.WriteFileAtomic(args[0], img, fsutil.DefaultFileMode); err != nil {
				return err
			}
			a.logger.Info("🆕 Created save", "path", args[0], "game", game)
			fmt.Fprintln(out(cmd), okText(fmt.Sprintf("✅ created %s save for %s (ID %05d)", game, name, tid)))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Trainer name, up to 7 characters (required)")
	cmd.Flags().BoolVar(&female, "female", false, "Female player character")
	cmd.Flags().Uint16Var(&tid, "tid", 0, "Trainer ID; random when unset")
	cmd.Flags().Uint16Var(&sid, "sid", 0, "Secret ID; random when unset")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
