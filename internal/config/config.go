// Package config loads gen3save settings. Values are layered: built-in
// defaults, then the ini file, then GEN3SAVE_* environment variables.
// Command-line flags are applied last by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/ini.v1"

	"github.com/provide-io/gen3save/internal/workenv"
	"github.com/provide-io/gen3save/pkg/backup"
	"github.com/provide-io/gen3save/pkg/backup/operations"
	"github.com/provide-io/gen3save/pkg/gen3"
	"github.com/provide-io/gen3save/pkg/logging"
	"github.com/provide-io/gen3save/pkg/utils/fsutil"
)

// FileName is the config file looked up in workenv.ConfigDir()
const FileName = "gen3save.ini"

const (
	DefaultGame       = "auto"
	DefaultLogLevel   = "warn"
	DefaultBackupKeep = 10
)

var ErrInvalidConfig = errors.New("❌ invalid configuration")

// Config is the effective gen3save configuration
type Config struct {
	// Source is the ini file that was read, or "" when none existed
	Source string

	Game     string
	LogLevel string

	BackupDir      string
	BackupCodec    string
	BackupOnSave   bool
	BackupKeep     int
	BackupFileMode os.FileMode
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Game:           DefaultGame,
		LogLevel:       DefaultLogLevel,
		BackupCodec:    backup.DefaultCodec,
		BackupOnSave:   true,
		BackupKeep:     DefaultBackupKeep,
		BackupFileMode: fsutil.BackupFileMode,
	}
}

// DefaultPath is where Load looks when no path is given
func DefaultPath() string {
	return filepath.Join(workenv.ConfigDir(), FileName)
}

// Load reads the configuration. An empty path falls back to DefaultPath,
// which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	_, statErr := os.Stat(path)
	if statErr == nil {
		file, err := ini.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("loading config: %w", err)
		}
		cfg.Source = path
		if err := cfg.applyFile(file); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	} else if explicit || !errors.Is(statErr, os.ErrNotExist) {
		return cfg, fmt.Errorf("loading config: %w", statErr)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyFile(file *ini.File) error {
	root := file.Section("")
	if k := root.Key("game"); k.String() != "" {
		c.Game = k.String()
	}
	if k := root.Key("log_level"); k.String() != "" {
		c.LogLevel = k.String()
	}

	sec := file.Section("backup")
	if k := sec.Key("dir"); k.String() != "" {
		c.BackupDir = k.String()
	}
	if k := sec.Key("codec"); k.String() != "" {
		c.BackupCodec = k.String()
	}
	if sec.HasKey("on_save") {
		v, err := sec.Key("on_save").Bool()
		if err != nil {
			return fmt.Errorf("%w: backup.on_save: %v", ErrInvalidConfig, err)
		}
		c.BackupOnSave = v
	}
	if sec.HasKey("keep") {
		v, err := sec.Key("keep").Int()
		if err != nil {
			return fmt.Errorf("%w: backup.keep: %v", ErrInvalidConfig, err)
		}
		c.BackupKeep = v
	}
	if sec.HasKey("file_mode") {
		mode, err := fsutil.ParseMode(sec.Key("file_mode").String(), c.BackupFileMode)
		if err != nil {
			return fmt.Errorf("%w: backup.file_mode: %v", ErrInvalidConfig, err)
		}
		c.BackupFileMode = mode
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GEN3SAVE_GAME"); v != "" {
		c.Game = v
	}
	if v := os.Getenv("GEN3SAVE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("GEN3SAVE_BACKUP_DIR"); v != "" {
		c.BackupDir = v
	}
	if v := os.Getenv("GEN3SAVE_BACKUP_CODEC"); v != "" {
		c.BackupCodec = v
	}
	if v := os.Getenv("GEN3SAVE_BACKUP_ON_SAVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: GEN3SAVE_BACKUP_ON_SAVE=%q", ErrInvalidConfig, v)
		}
		c.BackupOnSave = b
	}
	if v := os.Getenv("GEN3SAVE_BACKUP_KEEP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: GEN3SAVE_BACKUP_KEEP=%q", ErrInvalidConfig, v)
		}
		c.BackupKeep = n
	}
	return nil
}

// Validate checks every field can be used as-is
func (c Config) Validate() error {
	if _, err := gen3.ParseGame(c.Game); err != nil {
		return fmt.Errorf("%w: game %q", ErrInvalidConfig, c.Game)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if _, err := operations.ParseChain(c.BackupCodec); err != nil {
		return fmt.Errorf("%w: backup codec: %v", ErrInvalidConfig, err)
	}
	if c.BackupKeep < 1 {
		return fmt.Errorf("%w: backup keep must be at least 1, got %d", ErrInvalidConfig, c.BackupKeep)
	}
	return nil
}

// ParsedGame returns Game as a gen3.Game; "auto" maps to gen3.GameUnknown
func (c Config) ParsedGame() gen3.Game {
	g, _ := gen3.ParseGame(c.Game)
	return g
}

// BackupRoot resolves BackupDir, defaulting to the data root
func (c Config) BackupRoot() string {
	if c.BackupDir != "" {
		return c.BackupDir
	}
	return workenv.DataRoot()
}

// Save writes c as an ini file at path, creating parent directories
func (c Config) Save(path string) error {
	file := ini.Empty()
	root := file.Section("")
	root.Key("game").SetValue(c.Game)
	root.Key("log_level").SetValue(c.LogLevel)

	sec := file.Section("backup")
	if c.BackupDir != "" {
		sec.Key("dir").SetValue(c.BackupDir)
	}
	sec.Key("codec").SetValue(c.BackupCodec)
	sec.Key("on_save").SetValue(strconv.FormatBool(c.BackupOnSave))
	sec.Key("keep").SetValue(strconv.Itoa(c.BackupKeep))
	sec.Key("file_mode").SetValue(fsutil.FormatMode(c.BackupFileMode))

	if err := os.MkdirAll(filepath.Dir(path), fsutil.DefaultDirMode); err != nil {
		return err
	}
	return file.SaveTo(path)
}
