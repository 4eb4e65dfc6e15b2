package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/provide-io/gen3save/internal/config"
	"github.com/provide-io/gen3save/pkg/backup"
	"github.com/provide-io/gen3save/pkg/gen3"
	"github.com/provide-io/gen3save/pkg/logging"
	"github.com/provide-io/gen3save/pkg/savemgr"
)

var errInvalidArgs = errors.New("❌ invalid arguments")

// app carries what every subcommand needs once flags and config are merged
type app struct {
	configPath string
	logLevel   string
	game       string
	noBackup   bool

	cfg    config.Config
	logger hclog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "gen3save",
		Short:         "Inspect and edit Generation III Pokémon save files",
		Long:          `Inspect and edit Ruby, Sapphire, Emerald, FireRed and LeafGreen save files`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("gen3save {{.Version}}\nBuilt: %s\n", getBuildTimestamp()))

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to gen3save.ini (default "+config.DefaultPath()+")")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.game, "game", "", "Force the game layout (rs, e, frlg); detected when unset")
	flags.BoolVar(&a.noBackup, "no-backup", false, "Skip the backup taken before writing a save")

	rootCmd.AddCommand(
		newInfoCmd(a),
		newPartyCmd(a),
		newBoxCmd(a),
		newVerifyCmd(a),
		newEvolveCmd(a),
		newTransferCmd(a),
		newDexCmd(a),
		newNewCmd(a),
		newBackupCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

// setup layers flags over the loaded configuration and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("game") {
		cfg.Game = a.game
	}
	if a.noBackup {
		cfg.BackupOnSave = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.NewLogger(logging.DefaultName, cfg.LogLevel, cmd.ErrOrStderr())
	a.logger.Debug("⚙️ Configuration loaded", "source", cfg.Source, "game", cfg.Game, "backup_codec", cfg.BackupCodec)
	return nil
}

func (a *app) backupStore() (*backup.Store, error) {
	return backup.New(backup.Options{
		Root:     a.cfg.BackupRoot(),
		Codec:    a.cfg.BackupCodec,
		FileMode: a.cfg.BackupFileMode,
		Logger:   a.logger,
	})
}

// open loads a save through a manager configured for writing back
func (a *app) open(path string) (*savemgr.Manager, *gen3.SaveFile, error) {
	opts := savemgr.Options{
		Game:   a.cfg.ParsedGame(),
		Logger: a.logger,
	}
	if a.cfg.BackupOnSave {
		store, err := a.backupStore()
		if err != nil {
			return nil, nil, err
		}
		opts.Backups = store
		opts.BackupKeep = a.cfg.BackupKeep
	}

	m := savemgr.New(opts)
	if err := m.Load(path); err != nil {
		return nil, nil, err
	}
	f, err := m.SaveFile()
	if err != nil {
		return nil, nil, err
	}
	return m, f, nil
}

// parseIndex reads a 1-based number from args and returns it 0-based
func parseIndex(what, arg string, max int) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("%w: %s must be 1-%d, got %q", errInvalidArgs, what, max, arg)
	}
	return n - 1, nil
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
