package gen3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadges_OnDiskLayout(t *testing.T) {
	testCases := []struct {
		game   Game
		badges Badges
		offset int
		want   []byte
	}{
		{GameEmerald, 0x01, 0x3FD, []byte{0x80}},
		{GameEmerald, 0x81, 0x3FD, []byte{0x81}},
		{GameRubySapphire, 0x01, 0x3A0, []byte{0x80, 0x00}},
		{GameRubySapphire, 0xFF, 0x3A0, []byte{0x80, 0x7F}},
		{GameRubySapphire, 0x02, 0x3A0, []byte{0x00, 0x01}},
		{GameFireRedLeafGreen, 0x05, 0x64, []byte{0x05}},
	}
	for _, tc := range testCases {
		t.Run(tc.game.String(), func(t *testing.T) {
			sec := &Section{ID: SectionGameState}
			require.NoError(t, writeBadges(tc.game, sec, tc.badges))
			assert.Equal(t, tc.want, sec.Data[tc.offset:tc.offset+len(tc.want)])
			assert.Equal(t, tc.badges, readBadges(tc.game, sec))
		})
	}
}

func TestBadges_RSKeepsNeighbourFlags(t *testing.T) {
	sec := &Section{ID: SectionGameState}
	sec.Data[0x3A0] = 0x7F
	sec.Data[0x3A1] = 0x80
	require.NoError(t, writeBadges(GameRubySapphire, sec, 0xFF))
	assert.Equal(t, byte(0xFF), sec.Data[0x3A0])
	assert.Equal(t, byte(0xFF), sec.Data[0x3A1])
	require.NoError(t, writeBadges(GameRubySapphire, sec, 0))
	assert.Equal(t, byte(0x7F), sec.Data[0x3A0])
	assert.Equal(t, byte(0x80), sec.Data[0x3A1])
}

func TestBadges_Count(t *testing.T) {
	b := Badges(0b10010011)
	assert.Equal(t, 4, b.Count())
	assert.True(t, b.Has(1))
	assert.True(t, b.Has(8))
	assert.False(t, b.Has(3))
	assert.False(t, b.Has(0))
	assert.False(t, b.Has(9))
}

func TestSaveFile_SetBadges(t *testing.T) {
	f := decodeImage(t, buildImage(t, GameEmerald), GameUnknown)
	require.NoError(t, f.SetBadges(0x0F))
	again := decodeImage(t, f.Encode(), GameUnknown)
	assert.Equal(t, Badges(0x0F), again.Trainer().Badges)
	assert.Equal(t, 4, again.Trainer().Badges.Count())
}
