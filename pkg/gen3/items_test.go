package gen3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPocket_KeyXOR(t *testing.T) {
	for _, game := range []Game{GameRubySapphire, GameEmerald, GameFireRedLeafGreen} {
		t.Run(game.String(), func(t *testing.T) {
			f := decodeImage(t, buildImage(t, game), GameUnknown)

			items := []ItemStack{{ID: 13, Quantity: 5}, {ID: 17, Quantity: 99}}
			require.NoError(t, f.SetPocket(PocketItems, items))
			require.NoError(t, f.SetPocket(PocketPC, []ItemStack{{ID: 68, Quantity: 3}}))

			l := layouts[game]
			team := f.Section(SectionTeamItems)
			var key uint16
			if game.UsesSecurityKey() {
				key = uint16(testKey & 0xFFFF)
			}
			items0 := l.pockets[PocketItems].Offset
			assert.Equal(t, uint16(13), team.u16(items0))
			assert.Equal(t, 5^key, team.u16(items0+2), "bag quantity is encrypted")
			assert.Equal(t, key, team.u16(items0+itemStackSize*2+2), "empty slots hold an encrypted zero")
			assert.Equal(t, uint16(3), team.u16(l.pockets[PocketPC].Offset+2), "PC quantity is plain")

			again := decodeImage(t, f.Encode(), GameUnknown)
			got, err := again.Pocket(PocketItems)
			require.NoError(t, err)
			assert.Equal(t, items, got)

			pc, err := again.Pocket(PocketPC)
			require.NoError(t, err)
			assert.Equal(t, []ItemStack{{ID: 68, Quantity: 3}}, pc)

			balls, err := again.Pocket(PocketBalls)
			require.NoError(t, err)
			assert.Empty(t, balls)
		})
	}
}

func TestPocket_Full(t *testing.T) {
	f := decodeImage(t, buildImage(t, GameFireRedLeafGreen), GameUnknown)
	before := f.Encode()

	stacks := make([]ItemStack, PocketCapacity(GameFireRedLeafGreen, PocketBalls)+1)
	for i := range stacks {
		stacks[i] = ItemStack{ID: 4, Quantity: 1}
	}
	assert.ErrorIs(t, f.SetPocket(PocketBalls, stacks), ErrPocketFull)
	assert.Equal(t, before, f.Encode())

	_, err := f.Pocket(Pocket(42))
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}
