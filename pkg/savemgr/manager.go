// Package savemgr loads a save file from disk, hands out the decoded
// SaveFile for editing and writes it back safely.
package savemgr

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/gen3save/pkg/backup"
	"github.com/provide-io/gen3save/pkg/gen3"
	"github.com/provide-io/gen3save/pkg/logging"
	"github.com/provide-io/gen3save/pkg/utils/fsutil"
)

var (
	ErrNotLoaded       = errors.New("❌ no save loaded")
	ErrChangedOnDisk   = errors.New("❌ save changed on disk since it was loaded")
	ErrEncodeRoundTrip = errors.New("❌ encoded save failed to decode")
)

// Options configures a Manager
type Options struct {
	// Game forces a layout; gen3.GameUnknown detects it
	Game gen3.Game
	// Backups receives a copy of the file before every Save; nil disables
	Backups *backup.Store
	// BackupKeep prunes older backups of the same save after Save; 0 keeps all
	BackupKeep int
	Logger     hclog.Logger
}

// Manager owns one loaded save. It is not safe for concurrent use.
type Manager struct {
	opts   Options
	logger hclog.Logger

	path     string
	mode     os.FileMode
	original []byte
	file     *gen3.SaveFile
}

// New creates a Manager with nothing loaded
func New(opts Options) *Manager {
	return &Manager{
		opts:   opts,
		logger: logging.For(opts.Logger, "savemgr"),
	}
}

// Load reads and decodes the save at path. A save with subsystem failures
// still loads; inspect Report for them.
func (m *Manager) Load(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("loading save: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("loading save: %w", err)
	}

	file, err := gen3.Decode(data, gen3.Options{Game: m.opts.Game, Logger: m.logger})
	if err != nil {
		return fmt.Errorf("decoding %s: %w", abs, err)
	}

	m.path = abs
	m.mode = info.Mode().Perm()
	m.original = data
	m.file = file

	m.logger.Info("📂 Loaded save", "path", abs, "game", file.Game(), "slot", file.ActiveSlot())
	return nil
}

// Reload discards unsaved edits and decodes the file again.
func (m *Manager) Reload() error {
	if m.file == nil {
		return ErrNotLoaded
	}
	return m.Load(m.path)
}

// Path returns the absolute path of the loaded save
func (m *Manager) Path() string { return m.path }

// SaveFile returns the decoded save for reading and editing
func (m *Manager) SaveFile() (*gen3.SaveFile, error) {
	if m.file == nil {
		return nil, ErrNotLoaded
	}
	return m.file, nil
}

// Report returns the load report, or nil when nothing is loaded
func (m *Manager) Report() *gen3.LoadReport {
	if m.file == nil {
		return nil
	}
	return m.file.Report()
}

// Save encodes the edits and replaces the file on disk. The write holds
// <save>.lock, refuses to overwrite a file that changed since Load, backs
// the old bytes up when a store is configured and goes through a synced
// temp file, so a failure leaves the original intact.
func (m *Manager) Save() error {
	if m.file == nil {
		return ErrNotLoaded
	}

	release, err := acquireLock(m.path, m.logger)
	if err != nil {
		return err
	}
	defer release()

	current, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("reading current save: %w", err)
	}
	if !bytes.Equal(current, m.original) {
		return fmt.Errorf("%w: %s", ErrChangedOnDisk, m.path)
	}

	data := m.file.Encode()
	// Temp file plus the worst-case uncompressed backup
	if err := fsutil.CheckDiskSpace(filepath.Dir(m.path), int64(2*len(data)), m.logger); err != nil {
		return err
	}
	check, err := gen3.Decode(data, gen3.Options{Game: m.file.Game(), Logger: m.logger})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeRoundTrip, err)
	}

	if m.opts.Backups != nil {
		entry, err := m.opts.Backups.CreateFromBytes(m.path, current)
		if err != nil {
			return fmt.Errorf("backing up before save: %w", err)
		}
		m.logger.Debug("📦 Backed up previous save", "id", entry.ShortID())
		if m.opts.BackupKeep > 0 {
			if _, err := m.opts.Backups.Prune(m.path, m.opts.BackupKeep); err != nil {
				m.logger.Warn("⚠️ Failed to prune backups", "error", err)
			}
		}
	}

	mode := m.mode
	if mode == 0 {
		mode = fsutil.DefaultFileMode
	}
	if err := fsutil.WriteFileAtomic(m.path, data, mode); err != nil {
		return fmt.Errorf("writing save: %w", err)
	}

	m.original = data
	m.file = check
	m.logger.Info("💾 Saved", "path", m.path, "slot", check.ActiveSlot(), "save_index", check.Report().SaveIndex)
	return nil
}
