package gen3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNationalDex(t *testing.T) {
	testCases := []struct {
		internal uint16
		national uint16
	}{
		{0, 0},
		{1, 1},
		{251, 251},
		{252, 0}, // placeholder
		{276, 0},
		{277, 252}, // Treecko
		{373, 366}, // Clamperl
		{374, 367},
		{375, 368},
		{411, 358},
		{412, 0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.national, NationalDex(tc.internal), "internal %d", tc.internal)
		assert.Equal(t, tc.national != 0, IsValidSpecies(tc.internal))
	}
}

func TestInternalIndex_Bijection(t *testing.T) {
	used := make(map[uint16]bool)
	for n := uint16(1); n <= NationalDexSize; n++ {
		idx := InternalIndex(n)
		require.NotZero(t, idx, "national %d", n)
		require.False(t, used[idx], "internal %d reused", idx)
		used[idx] = true
		assert.Equal(t, n, NationalDex(idx))
	}
	assert.Zero(t, InternalIndex(0))
	assert.Zero(t, InternalIndex(387))
}
