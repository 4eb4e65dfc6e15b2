package gen3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionChecksum(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		want uint16
	}{
		{"empty", nil, 0},
		{"zeros", make([]byte, 16), 0},
		{"fold_halves", []byte{0x02, 0x00, 0x01, 0x00}, 0x0003},
		{"sum_wraps_32", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x02, 0x00, 0x00, 0x00}, 0x0001},
		{"fold_overflow", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0xFFFE},
		{"trailing_bytes_ignored", []byte{0x01, 0x00, 0x00, 0x00, 0xAA, 0xBB}, 0x0001},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SectionChecksum(tc.data))
		})
	}
}

func TestChecksumForSection_UsesIDLength(t *testing.T) {
	sec := &Section{ID: SectionTrainer, Signature: SectionSignature}
	base := sec.ComputeChecksum()

	// Byte 3884 is past the trainer section's checksummed length
	sec.Data[3884] = 0xAA
	assert.Equal(t, base, sec.ComputeChecksum())

	sec.Data[3880] = 0x01
	assert.NotEqual(t, base, sec.ComputeChecksum())

	assert.Equal(t, 2000, SectionDataSize(SectionPCLast))
	assert.Equal(t, 0, SectionDataSize(14))
	assert.Equal(t, 33744, PCBufferSize)
	assert.Equal(t, 0x8344, PCBoxNamesOffset)
	assert.Equal(t, 0x83C2, PCWallpaperOffset)
}

func TestSection_PackUnpackVerify(t *testing.T) {
	sec := &Section{ID: SectionRival, Signature: SectionSignature, SaveIndex: 77}
	for i := range sec.Data {
		sec.Data[i] = byte(i)
	}
	sum := sec.UpdateChecksum()
	require.NoError(t, sec.Verify())

	var back Section
	require.NoError(t, back.Unpack(sec.Pack()))
	assert.Equal(t, *sec, back)
	assert.Equal(t, sum, back.ComputeChecksum(), "no-op recompute")

	assert.Error(t, back.Unpack(make([]byte, 10)))

	bad := back.Clone()
	bad.Signature = 0
	assert.ErrorIs(t, bad.Verify(), ErrBadSignature)

	bad = back.Clone()
	bad.ID = 14
	assert.ErrorIs(t, bad.Verify(), ErrUnknownSection)

	bad = back.Clone()
	bad.Data[0]++
	assert.ErrorIs(t, bad.Verify(), ErrSectionChecksum)
}

func TestParseSlot(t *testing.T) {
	secs := testSections(t, GameEmerald, 5)
	img := make([]byte, SaveSize)
	writeSlot(img, SlotA, secs, 7)

	slot := ParseSlot(SlotA, img[:SlotSize])
	require.True(t, slot.Valid(), "%v", slot.Err)
	assert.Equal(t, 7, slot.Rotation())
	assert.Equal(t, uint32(5), slot.SaveIndex())
	for id := uint16(0); id < SectionsPerSlot; id++ {
		assert.Equal(t, id, slot.Section(id).ID)
	}
	assert.Nil(t, slot.Section(SectionsPerSlot))

	t.Run("duplicate", func(t *testing.T) {
		dup := append([]byte(nil), img[:SlotSize]...)
		copy(dup[SectionSize:2*SectionSize], dup[:SectionSize])
		assert.ErrorIs(t, ParseSlot(SlotA, dup).Err, ErrDuplicateSection)
	})

	t.Run("mixed_index", func(t *testing.T) {
		mixed := append([]byte(nil), img[:SlotSize]...)
		other := testSections(t, GameEmerald, 6)
		copy(mixed[0:SectionSize], other[(SectionsPerSlot-7)%SectionsPerSlot].Pack())
		assert.ErrorIs(t, ParseSlot(SlotA, mixed).Err, ErrSaveIndexMismatch)
	})

	t.Run("short_region", func(t *testing.T) {
		assert.ErrorIs(t, ParseSlot(SlotB, img[:100]).Err, ErrInvalidSize)
	})
}

func TestSelectActive_TieGoesToA(t *testing.T) {
	img := make([]byte, SaveSize)
	writeSlot(img, SlotA, testSections(t, GameEmerald, 3), 0)
	writeSlot(img, SlotB, testSections(t, GameEmerald, 3), 1)

	a := ParseSlot(SlotA, img[SlotAOffset:SlotAOffset+SlotSize])
	b := ParseSlot(SlotB, img[SlotBOffset:SlotBOffset+SlotSize])
	active, err := SelectActive(a, b)
	require.NoError(t, err)
	assert.Equal(t, SlotA, active.ID)
	assert.Equal(t, SlotB, active.ID.Other())
	assert.Equal(t, "B", SlotB.String())
}
