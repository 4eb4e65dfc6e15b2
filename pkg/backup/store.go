// Package backup keeps compressed, checksummed copies of save files.
//
// Backups live under <root>/backups/<save>-<hash>/ with a single
// index.json at the root describing every entry.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/gen3save/internal/workenv"
	"github.com/provide-io/gen3save/pkg/backup/operations"
	_ "github.com/provide-io/gen3save/pkg/backup/operations/compress"
	"github.com/provide-io/gen3save/pkg/logging"
	"github.com/provide-io/gen3save/pkg/utils/fsutil"
)

const (
	indexName       = "index.json"
	timestampFormat = "20060102T150405Z"
	DefaultCodec    = operations.OpZstd
)

var (
	ErrNotFound         = errors.New("❌ backup not found")
	ErrAmbiguousID      = errors.New("❌ backup id prefix matches more than one entry")
	ErrChecksumMismatch = errors.New("❌ backup checksum mismatch")
	ErrInvalidKeep      = errors.New("❌ keep count must be at least 1")
)

// Entry describes one stored backup
type Entry struct {
	ID       uuid.UUID `json:"id"`
	Source   string    `json:"source"`
	File     string    `json:"file"`
	Created  time.Time `json:"created"`
	Codec    string    `json:"codec"`
	Size     int       `json:"size"`
	Checksum string    `json:"checksum"`
}

// ShortID is the first eight characters of the entry id
func (e Entry) ShortID() string {
	return e.ID.String()[:8]
}

type index struct {
	Entries []Entry `json:"entries"`
}

// Options configures a Store
type Options struct {
	// Root defaults to workenv.DataRoot()
	Root string
	// Codec is an operation chain such as "zstd" or "bzip2"
	Codec string
	// FileMode applies to backup files; zero means fsutil.BackupFileMode
	FileMode os.FileMode
	Logger   hclog.Logger
	Now      func() time.Time
}

// Store manages the backups under one root directory
type Store struct {
	root   string
	chain  operations.Chain
	mode   os.FileMode
	logger hclog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// New creates the root directory if needed and resolves the codec.
func New(opts Options) (*Store, error) {
	root := opts.Root
	if root == "" {
		root = workenv.DataRoot()
	}
	codec := opts.Codec
	if codec == "" {
		codec = DefaultCodec
	}
	chain, err := operations.ParseChain(codec)
	if err != nil {
		return nil, fmt.Errorf("backup codec: %w", err)
	}
	mode := opts.FileMode
	if mode == 0 {
		mode = fsutil.BackupFileMode
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	if err := workenv.Ensure(root, []workenv.DirectorySpec{{Path: "backups"}}); err != nil {
		return nil, err
	}

	return &Store{
		root:   root,
		chain:  chain,
		mode:   mode,
		logger: logging.For(opts.Logger, "backup"),
		now:    now,
	}, nil
}

// Root returns the store's root directory
func (s *Store) Root() string { return s.root }

// Codec returns the operation chain new backups are written with
func (s *Store) Codec() string { return s.chain.String() }

// Create copies the save at path into the store.
func (s *Store) Create(path string) (Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Entry{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Entry{}, fmt.Errorf("reading save: %w", err)
	}
	return s.CreateFromBytes(abs, data)
}

// CreateFromBytes stores data as a backup of source. The save manager
// uses it to back up the exact bytes it is about to replace.
func (s *Store) CreateFromBytes(source string, data []byte) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	abs, err := filepath.Abs(source)
	if err != nil {
		return Entry{}, err
	}
	dir := workenv.BackupDir(s.root, abs)
	if err := workenv.Ensure(dir, nil); err != nil {
		return Entry{}, err
	}
	if err := workenv.ClaimDir(dir, abs); err != nil {
		return Entry{}, err
	}

	packed, err := s.chain.Apply(data)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:       uuid.New(),
		Source:   abs,
		Created:  s.now().UTC(),
		Codec:    s.chain.String(),
		Size:     len(data),
		Checksum: CalculateChecksum(data, ChecksumSHA256),
	}
	base := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	name := fmt.Sprintf("%s_%s_%s.sav%s", base, entry.Created.Format(timestampFormat), entry.ShortID(), s.chain.Extension())
	file := filepath.Join(dir, name)
	if entry.File, err = filepath.Rel(s.root, file); err != nil {
		return Entry{}, err
	}

	if err := fsutil.WriteFileAtomic(file, packed, s.mode); err != nil {
		return Entry{}, err
	}

	idx, err := s.load()
	if err != nil {
		os.Remove(file)
		return Entry{}, err
	}
	idx.Entries = append(idx.Entries, entry)
	if err := s.store(idx); err != nil {
		os.Remove(file)
		return Entry{}, err
	}

	s.logger.Info("📦 Created backup",
		"id", entry.ShortID(),
		"source", abs,
		"codec", entry.Codec,
		"size", len(data),
		"stored", len(packed))
	return entry, nil
}

// List returns entries newest first. A non-empty source restricts the
// result to backups of that save.
func (s *Store) List(source string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.load()
	if err != nil {
		return nil, err
	}
	return filterSource(idx.Entries, source)
}

// Get looks an entry up by full id or unique id prefix
func (s *Store) Get(id string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	return find(idx.Entries, id)
}

// Restore decompresses a backup, checks it against its recorded checksum
// and writes it to dst. An empty dst restores over the original source.
func (s *Store) Restore(id, dst string) (Entry, error) {
	entry, err := s.Get(id)
	if err != nil {
		return Entry{}, err
	}
	data, err := s.Read(entry)
	if err != nil {
		return Entry{}, err
	}

	if dst == "" {
		dst = entry.Source
	}
	if err := fsutil.WriteFileAtomic(dst, data, fsutil.DefaultFileMode); err != nil {
		return Entry{}, fmt.Errorf("restoring %s: %w", dst, err)
	}

	s.logger.Info("♻️ Restored backup", "id", entry.ShortID(), "dst", dst)
	return entry, nil
}

// Read returns the verified original bytes of a backup
func (s *Store) Read(entry Entry) ([]byte, error) {
	packed, err := os.ReadFile(filepath.Join(s.root, entry.File))
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}
	chain, err := operations.ParseChain(entry.Codec)
	if err != nil {
		return nil, err
	}
	data, err := chain.Reverse(packed)
	if err != nil {
		return nil, err
	}

	ok, err := VerifyChecksum(data, entry.Checksum)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Error("🚨 Backup failed verification", "id", entry.ShortID(), "file", entry.File)
		return nil, fmt.Errorf("%w: %s", ErrChecksumMismatch, entry.ShortID())
	}
	return data, nil
}

// Prune keeps the newest keep backups of each source and deletes the rest.
// A non-empty source limits pruning to that save.
func (s *Store) Prune(source string, keep int) ([]Entry, error) {
	if keep < 1 {
		return nil, ErrInvalidKeep
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.load()
	if err != nil {
		return nil, err
	}
	if source != "" {
		if source, err = filepath.Abs(source); err != nil {
			return nil, err
		}
	}

	sortNewestFirst(idx.Entries)
	seen := make(map[string]int)
	var kept, removed []Entry
	for _, e := range idx.Entries {
		if source != "" && e.Source != source {
			kept = append(kept, e)
			continue
		}
		seen[e.Source]++
		if seen[e.Source] <= keep {
			kept = append(kept, e)
			continue
		}
		if err := os.Remove(filepath.Join(s.root, e.File)); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("⚠️ Failed to remove backup file", "file", e.File, "error", err)
			kept = append(kept, e)
			continue
		}
		removed = append(removed, e)
	}

	if len(removed) == 0 {
		return nil, nil
	}
	// index.json stays oldest first
	slices.Reverse(kept)
	idx.Entries = kept
	if err := s.store(idx); err != nil {
		return nil, err
	}
	s.logger.Info("🧹 Pruned backups", "removed", len(removed), "kept", len(kept))
	return removed, nil
}

func (s *Store) load() (*index, error) {
	data, err := os.ReadFile(filepath.Join(s.root, indexName))
	if os.IsNotExist(err) {
		return &index{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup index: %w", err)
	}
	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parsing backup index: %w", err)
	}
	return &idx, nil
}

func (s *Store) store(idx *index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(filepath.Join(s.root, indexName), data, fsutil.DefaultFileMode)
}

func filterSource(entries []Entry, source string) ([]Entry, error) {
	if source != "" {
		abs, err := filepath.Abs(source)
		if err != nil {
			return nil, err
		}
		source = abs
	}
	var out []Entry
	for _, e := range entries {
		if source == "" || e.Source == source {
			out = append(out, e)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func find(entries []Entry, id string) (Entry, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return Entry{}, ErrNotFound
	}
	var match *Entry
	for i := range entries {
		full := entries[i].ID.String()
		if full == id {
			return entries[i], nil
		}
		if strings.HasPrefix(full, id) {
			if match != nil {
				return Entry{}, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
			}
			match = &entries[i]
		}
	}
	if match == nil {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *match, nil
}

// sortNewestFirst orders by creation time; entries created in the same
// instant keep reverse index order.
func sortNewestFirst(entries []Entry) {
	slices.Reverse(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Created.After(entries[j].Created)
	})
}
