package savemgr

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/gen3save/pkg/backup"
	"github.com/provide-io/gen3save/pkg/evolution"
	"github.com/provide-io/gen3save/pkg/gen3"
)

const (
	testKey uint32 = 0x5A3C9E17
	testTID uint16 = 24294
	testSID uint16 = 38834
)

func testLogger(t *testing.T) hclog.Logger {
	t.Helper()
	return hclog.New(&hclog.LoggerOptions{
		Name:   t.Name(),
		Level:  hclog.Trace,
		Output: os.Stderr,
	})
}

// writeNewSave creates a fresh save in a temp dir and returns its path.
func writeNewSave(t *testing.T, game gen3.Game, name string) string {
	t.Helper()
	img, err := gen3.NewSave(gen3.NewSaveOptions{
		Game:        game,
		TrainerName: name,
		TrainerID:   testTID,
		SecretID:    testSID,
		SecurityKey: testKey,
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name+".sav")
	require.NoError(t, os.WriteFile(path, img, 0o644))
	return path
}

func testPokemon(t *testing.T, pid uint32, national uint16, nickname string, item uint16) *gen3.PokemonRecord {
	t.Helper()
	r := &gen3.PokemonRecord{
		Personality: pid,
		OTID:        uint32(testSID)<<16 | uint32(testTID),
		Language:    2,
		Flags:       gen3.FlagHasSpecies,
	}
	r.Growth = gen3.Growth{Species: gen3.InternalIndex(national), Item: item, Experience: 27000, Friendship: 70}
	r.Attacks = gen3.Attacks{Moves: [4]uint16{93, 50, 0, 0}, PP: [4]uint8{25, 20, 0, 0}}
	r.Misc.Origins = 20 | 3<<7 | 4<<11
	r.Misc.SetIVs(gen3.IVs{HP: 31, Attack: 20, Defense: 17, Speed: 28, SpAttack: 30, SpDefense: 9})
	require.NoError(t, r.SetNickname(nickname))
	ot, err := gen3.EncodeText("MAY", gen3.OTNameLength)
	require.NoError(t, err)
	copy(r.OTNameRaw[:], ot)
	return r
}

func loadManager(t *testing.T, path string, opts Options) *Manager {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = testLogger(t)
	}
	m := New(opts)
	require.NoError(t, m.Load(path))
	return m
}

func TestManager_NotLoaded(t *testing.T) {
	m := New(Options{})
	_, err := m.SaveFile()
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, m.Save(), ErrNotLoaded)
	assert.ErrorIs(t, m.Reload(), ErrNotLoaded)
	assert.Nil(t, m.Report())
}

func TestManager_LoadErrors(t *testing.T) {
	m := New(Options{Logger: testLogger(t)})
	assert.Error(t, m.Load(filepath.Join(t.TempDir(), "missing.sav")))

	short := filepath.Join(t.TempDir(), "short.sav")
	require.NoError(t, os.WriteFile(short, make([]byte, 1024), 0o644))
	err := m.Load(short)
	var corrupt *gen3.CorruptSaveError
	assert.ErrorAs(t, err, &corrupt)
}

func TestManager_SaveReload(t *testing.T) {
	for _, game := range []gen3.Game{gen3.GameRubySapphire, gen3.GameEmerald, gen3.GameFireRedLeafGreen} {
		t.Run(game.String(), func(t *testing.T) {
			path := writeNewSave(t, game, "MAY")
			m := loadManager(t, path, Options{})
			assert.Equal(t, game, m.Report().Game)
			assert.Equal(t, gen3.SlotA, m.Report().ActiveSlot)

			f, err := m.SaveFile()
			require.NoError(t, err)
			require.NoError(t, f.WritePartySlot(0, testPokemon(t, 0x12345678, 64, "KADABRA", 0)))
			require.NoError(t, f.SetMoney(123456))
			require.NoError(t, f.WriteBoxSlot(2, 5, testPokemon(t, 0x0BADF00D, 95, "ONIX", evolution.ItemMetalCoat)))
			require.NoError(t, m.Save())

			// The manager re-decodes what it wrote
			assert.Equal(t, gen3.SlotB, m.Report().ActiveSlot)
			assert.NoFileExists(t, LockPath(path))

			fresh := loadManager(t, path, Options{})
			ff, err := fresh.SaveFile()
			require.NoError(t, err)
			assert.Equal(t, game, ff.Game())
			assert.Equal(t, uint32(123456), ff.Trainer().Money)
			require.Len(t, ff.Party(), 1)
			assert.Equal(t, "KADABRA", ff.Party()[0].Nickname())
			onix, err := ff.BoxRecord(2, 5)
			require.NoError(t, err)
			assert.Equal(t, uint16(95), onix.NationalDex())

			// Saving twice alternates slots
			require.NoError(t, ff.SetCoins(9))
			require.NoError(t, fresh.Save())
			assert.Equal(t, gen3.SlotA, fresh.Report().ActiveSlot)
		})
	}
}

func TestManager_ReloadDiscardsEdits(t *testing.T) {
	path := writeNewSave(t, gen3.GameEmerald, "MAY")
	m := loadManager(t, path, Options{})

	f, err := m.SaveFile()
	require.NoError(t, err)
	require.NoError(t, f.SetMoney(500))
	require.NoError(t, m.Reload())

	f, err = m.SaveFile()
	require.NoError(t, err)
	assert.Zero(t, f.Trainer().Money)
}

func TestManager_SaveRefusesChangedFile(t *testing.T) {
	path := writeNewSave(t, gen3.GameRubySapphire, "MAY")
	m := loadManager(t, path, Options{})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[gen3.TrailerOffset] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	err = m.Save()
	assert.ErrorIs(t, err, ErrChangedOnDisk)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, after), "file must be untouched")
}

func TestManager_LockContention(t *testing.T) {
	path := writeNewSave(t, gen3.GameEmerald, "MAY")
	m := loadManager(t, path, Options{})
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	t.Run("held by live process", func(t *testing.T) {
		require.NoError(t, os.WriteFile(LockPath(path), []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644))
		defer os.Remove(LockPath(path))

		err := m.Save()
		assert.ErrorIs(t, err, ErrLocked)
		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(before, after))
		assert.FileExists(t, LockPath(path), "someone else's lock stays")
	})

	t.Run("invalid lock contents", func(t *testing.T) {
		require.NoError(t, os.WriteFile(LockPath(path), []byte("not-a-pid"), 0o644))
		require.NoError(t, m.Save())
		assert.NoFileExists(t, LockPath(path))
	})

	t.Run("dead process", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("signal probing is unix only")
		}
		require.NoError(t, os.WriteFile(LockPath(path), []byte("999999999\n"), 0o644))
		require.NoError(t, m.Save())
		assert.NoFileExists(t, LockPath(path))
	})
}

func TestManager_SaveWithBackup(t *testing.T) {
	path := writeNewSave(t, gen3.GameFireRedLeafGreen, "RED")
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	store, err := backup.New(backup.Options{Root: t.TempDir(), Codec: "zstd", Logger: testLogger(t)})
	require.NoError(t, err)
	m := loadManager(t, path, Options{Backups: store, BackupKeep: 2})

	for i := 0; i < 3; i++ {
		f, err := m.SaveFile()
		require.NoError(t, err)
		require.NoError(t, f.SetMoney(uint32(1000*(i+1))))
		require.NoError(t, m.Save())
	}

	entries, err := store.List(path)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "pruned to BackupKeep")

	// Restoring the oldest remaining backup yields a decodable save
	restored := filepath.Join(t.TempDir(), "restored.sav")
	_, err = store.Restore(entries[len(entries)-1].ID.String(), restored)
	require.NoError(t, err)
	r := loadManager(t, restored, Options{})
	rf, err := r.SaveFile()
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), rf.Trainer().Money)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(original, data))
}

func TestTransfer(t *testing.T) {
	srcPath := writeNewSave(t, gen3.GameRubySapphire, "BRENDAN")
	dstPath := writeNewSave(t, gen3.GameFireRedLeafGreen, "RED")

	src := loadManager(t, srcPath, Options{})
	dst := loadManager(t, dstPath, Options{})

	sf, err := src.SaveFile()
	require.NoError(t, err)
	require.NoError(t, sf.WriteBoxSlot(0, 3, testPokemon(t, 0x0BADF00D, 366, "CLAMPERL", 0)))

	df, err := dst.SaveFile()
	require.NoError(t, err)
	require.NoError(t, df.WriteBoxSlot(0, 0, testPokemon(t, 0x11111111, 25, "PIKACHU", 0)))

	pos, err := Transfer(src, Position{Box: 0, Slot: 3}, dst)
	require.NoError(t, err)
	assert.Equal(t, Position{Box: 0, Slot: 1}, pos)
	assert.Equal(t, "box 1 slot 2", pos.String())

	got, err := df.BoxRecord(0, 1)
	require.NoError(t, err)
	assert.Equal(t, uint16(366), got.NationalDex())
	assert.Equal(t, "CLAMPERL", got.Nickname())
	dex := df.Pokedex()
	assert.True(t, dex.IsOwned(366))
	assert.True(t, dex.IsSeen(366))

	// The source keeps its copy
	still, err := sf.BoxRecord(0, 3)
	require.NoError(t, err)
	assert.False(t, still.IsEmpty())

	require.NoError(t, dst.Save())
	reloaded := loadManager(t, dstPath, Options{})
	rf, err := reloaded.SaveFile()
	require.NoError(t, err)
	moved, err := rf.BoxRecord(0, 1)
	require.NoError(t, err)
	assert.Equal(t, uint16(366), moved.NationalDex())
}

func TestTransfer_NoDexEntryLeavesDestination(t *testing.T) {
	src := loadManager(t, writeNewSave(t, gen3.GameEmerald, "MAY"), Options{})
	dst := loadManager(t, writeNewSave(t, gen3.GameEmerald, "WALLY"), Options{})
	sf, err := src.SaveFile()
	require.NoError(t, err)
	df, err := dst.SaveFile()
	require.NoError(t, err)

	// Internal indices 252-276 are unused placeholders
	placeholder := testPokemon(t, 0x0BADF00D, 25, "PIKACHU", 0)
	placeholder.Growth.Species = 260
	require.NoError(t, sf.WriteBoxSlot(0, 0, placeholder))
	before := df.Encode()

	_, err = Transfer(src, Position{Box: 0, Slot: 0}, dst)
	assert.ErrorIs(t, err, ErrNoDexEntry)

	slot, err := df.BoxRecord(0, 0)
	require.NoError(t, err)
	assert.True(t, slot.IsEmpty())
	assert.Equal(t, before, df.Encode())

	// A retry fails the same way instead of filling a second slot
	_, err = Transfer(src, Position{Box: 0, Slot: 0}, dst)
	assert.ErrorIs(t, err, ErrNoDexEntry)
	box, next, ok := df.FirstEmptyBoxSlot()
	require.True(t, ok)
	assert.Equal(t, [2]int{0, 0}, [2]int{box, next})
}

func TestTransferTo_Errors(t *testing.T) {
	src := loadManager(t, writeNewSave(t, gen3.GameEmerald, "MAY"), Options{})
	dst := loadManager(t, writeNewSave(t, gen3.GameEmerald, "WALLY"), Options{})
	sf, err := src.SaveFile()
	require.NoError(t, err)
	df, err := dst.SaveFile()
	require.NoError(t, err)

	require.NoError(t, sf.WriteBoxSlot(0, 0, testPokemon(t, 0x0BADF00D, 25, "PIKACHU", 0)))
	require.NoError(t, df.WriteBoxSlot(1, 1, testPokemon(t, 0x11111111, 25, "PIKACHU", 0)))

	_, err = TransferTo(src, Position{Box: 0, Slot: 1}, dst, Position{Box: 0, Slot: 0})
	assert.ErrorIs(t, err, ErrEmptySlot)

	_, err = TransferTo(src, Position{Box: 0, Slot: 0}, dst, Position{Box: 1, Slot: 1})
	assert.ErrorIs(t, err, ErrSlotOccupied)

	_, err = TransferTo(src, Position{Box: 14, Slot: 0}, dst, Position{Box: 0, Slot: 0})
	var rangeErr *gen3.SlotRangeError
	assert.ErrorAs(t, err, &rangeErr)

	_, err = Transfer(src, Position{}, New(Options{}))
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestEvolve(t *testing.T) {
	path := writeNewSave(t, gen3.GameEmerald, "MAY")
	m := loadManager(t, path, Options{})
	f, err := m.SaveFile()
	require.NoError(t, err)

	require.NoError(t, f.WritePartySlot(0, testPokemon(t, 0x12345678, 64, "KADABRA", 0)))
	require.NoError(t, f.WriteBoxSlot(0, 0, testPokemon(t, 0x0BADF00D, 95, "Rocky", evolution.ItemMetalCoat)))
	require.NoError(t, f.WriteBoxSlot(0, 1, testPokemon(t, 0x0BADF00D, 25, "PIKACHU", 0)))

	rule, err := m.EvolveParty(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(65), rule.To)

	rule, err = m.EvolveBox(Position{Box: 0, Slot: 0})
	require.NoError(t, err)
	assert.Equal(t, uint16(208), rule.To)

	_, err = m.EvolveBox(Position{Box: 0, Slot: 1})
	assert.ErrorIs(t, err, evolution.ErrNotEligible)

	require.NoError(t, m.Save())
	reloaded := loadManager(t, path, Options{})
	rf, err := reloaded.SaveFile()
	require.NoError(t, err)

	alakazam, err := rf.PartyMember(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(65), alakazam.NationalDex())
	assert.Equal(t, "ALAKAZAM", alakazam.Nickname())
	assert.NotZero(t, alakazam.Party.MaxHP)

	steelix, err := rf.BoxRecord(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(208), steelix.NationalDex())
	assert.Equal(t, "Rocky", steelix.Nickname())
	assert.Equal(t, evolution.ItemNone, steelix.Growth.Item)

	dex := rf.Pokedex()
	assert.True(t, dex.IsOwned(65))
	assert.True(t, dex.IsOwned(208))
}
