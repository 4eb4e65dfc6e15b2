package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/gen3save/internal/workenv"
)

func testLogger(t *testing.T) hclog.Logger {
	t.Helper()
	return hclog.New(&hclog.LoggerOptions{
		Name:   t.Name(),
		Level:  hclog.Trace,
		Output: os.Stderr,
	})
}

// fakeClock returns a clock that advances one minute per call
func fakeClock() func() time.Time {
	current := time.Date(2004, time.September, 16, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func writeSave(t *testing.T, dir, name string, fill byte) (string, []byte) {
	t.Helper()
	data := bytes.Repeat([]byte{fill}, 0x20000)
	for i := 0; i < 0x800; i++ {
		data[i] = byte(i) ^ fill
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path, data
}

func newStore(t *testing.T, codec string) *Store {
	t.Helper()
	s, err := New(Options{
		Root:   t.TempDir(),
		Codec:  codec,
		Logger: testLogger(t),
		Now:    fakeClock(),
	})
	require.NoError(t, err)
	return s
}

func TestStore_CreateRestore(t *testing.T) {
	for _, codec := range []string{"none", "gzip", "bzip2", "zstd", "bzip2|gzip"} {
		t.Run(codec, func(t *testing.T) {
			s := newStore(t, codec)
			saves := t.TempDir()
			path, original := writeSave(t, saves, "emerald.sav", 0xFF)

			entry, err := s.Create(path)
			require.NoError(t, err)
			assert.Equal(t, codec, entry.Codec)
			assert.Equal(t, len(original), entry.Size)
			assert.True(t, strings.HasPrefix(entry.Checksum, "sha256:"))
			assert.Contains(t, filepath.Base(entry.File), "emerald_20040916T120100Z_"+entry.ShortID()+".sav")
			assert.FileExists(t, filepath.Join(s.Root(), entry.File))

			// Clobber the save, then bring it back
			require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
			restored, err := s.Restore(entry.ShortID(), "")
			require.NoError(t, err)
			assert.Equal(t, entry.ID, restored.ID)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(original, data))
		})
	}
}

func TestStore_RestoreToOtherPath(t *testing.T) {
	s := newStore(t, "zstd")
	saves := t.TempDir()
	path, original := writeSave(t, saves, "ruby.sav", 0x00)

	entry, err := s.Create(path)
	require.NoError(t, err)

	dst := filepath.Join(saves, "copy.sav")
	_, err = s.Restore(entry.ID.String(), dst)
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(original, data))
}

func TestStore_RestoreDetectsTampering(t *testing.T) {
	s := newStore(t, "none")
	path, _ := writeSave(t, t.TempDir(), "firered.sav", 0xAA)

	entry, err := s.Create(path)
	require.NoError(t, err)

	stored := filepath.Join(s.Root(), entry.File)
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	data[0x100] ^= 0x01
	require.NoError(t, os.WriteFile(stored, data, 0o600))

	dst := filepath.Join(t.TempDir(), "out.sav")
	_, err = s.Restore(entry.ShortID(), dst)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
	assert.NoFileExists(t, dst)
}

func TestStore_ListAndGet(t *testing.T) {
	s := newStore(t, "gzip")
	saves := t.TempDir()
	emerald, _ := writeSave(t, saves, "emerald.sav", 0x11)
	ruby, _ := writeSave(t, saves, "ruby.sav", 0x22)

	first, err := s.Create(emerald)
	require.NoError(t, err)
	_, err = s.Create(ruby)
	require.NoError(t, err)
	third, err := s.Create(emerald)
	require.NoError(t, err)

	all, err := s.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyEmerald, err := s.List(emerald)
	require.NoError(t, err)
	require.Len(t, onlyEmerald, 2)
	assert.Equal(t, third.ID, onlyEmerald[0].ID, "newest first")
	assert.Equal(t, first.ID, onlyEmerald[1].ID)

	got, err := s.Get(first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, first.File, got.File)

	_, err = s.Get("ffffffff-none")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Prune(t *testing.T) {
	s := newStore(t, "zstd")
	saves := t.TempDir()
	emerald, _ := writeSave(t, saves, "emerald.sav", 0x11)
	ruby, _ := writeSave(t, saves, "ruby.sav", 0x22)

	var emeraldEntries []Entry
	for i := 0; i < 4; i++ {
		e, err := s.Create(emerald)
		require.NoError(t, err)
		emeraldEntries = append(emeraldEntries, e)
	}
	_, err := s.Create(ruby)
	require.NoError(t, err)

	_, err = s.Prune("", 0)
	assert.ErrorIs(t, err, ErrInvalidKeep)

	removed, err := s.Prune(emerald, 2)
	require.NoError(t, err)
	require.Len(t, removed, 2)
	for _, e := range removed {
		assert.NoFileExists(t, filepath.Join(s.Root(), e.File))
	}

	left, err := s.List(emerald)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, emeraldEntries[3].ID, left[0].ID)
	assert.Equal(t, emeraldEntries[2].ID, left[1].ID)

	rubyLeft, err := s.List(ruby)
	require.NoError(t, err)
	assert.Len(t, rubyLeft, 1)

	removed, err = s.Prune("", 5)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestStore_SameNameDifferentFolders(t *testing.T) {
	s := newStore(t, "none")
	a, _ := writeSave(t, t.TempDir(), "game.sav", 0x01)
	b, _ := writeSave(t, t.TempDir(), "game.sav", 0x02)

	ea, err := s.Create(a)
	require.NoError(t, err)
	eb, err := s.Create(b)
	require.NoError(t, err)

	assert.NotEqual(t, filepath.Dir(ea.File), filepath.Dir(eb.File))
	assert.Equal(t, ea.Source, workenv.ClaimedSource(filepath.Join(s.Root(), filepath.Dir(ea.File))))
}

func TestNew_UnknownCodec(t *testing.T) {
	_, err := New(Options{Root: t.TempDir(), Codec: "lzma"})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("GEN3SAVE_DATA_DIR", t.TempDir())
	s, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultCodec, s.Codec())
	assert.Equal(t, os.Getenv("GEN3SAVE_DATA_DIR"), s.Root())
}

func TestCreate_MissingSource(t *testing.T) {
	s := newStore(t, "none")
	_, err := s.Create(filepath.Join(t.TempDir(), "missing.sav"))
	assert.Error(t, err)
}
