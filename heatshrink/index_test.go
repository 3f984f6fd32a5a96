package heatshrink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchIndex_FindsExactRepeat(t *testing.T) {
	buffer := make([]byte, 64)
	copy(buffer, []byte("abcabcabc"))
	end := uint16(6)

	// build is always called over the whole valid prefix, including the
	// bytes still awaiting a match search; mirror that here
	// rather than building only up to end.
	idx := newSearchIndex(uint16(len(buffer)))
	idx.build(buffer, 9)

	pos, length := idx.findLongestMatch(buffer, 0, end, 3, 8, 4)
	require.NotEqual(t, matchNotFound, pos)
	require.Equal(t, uint16(3), length)
}

func TestSearchIndex_NoMatchBelowBreakEven(t *testing.T) {
	buffer := make([]byte, 64)
	buffer[0] = 'x'
	buffer[1] = 'a'
	end := uint16(2)
	buffer[2] = 'a'

	idx := newSearchIndex(uint16(len(buffer)))
	idx.build(buffer, 3)

	pos, _ := idx.findLongestMatch(buffer, 0, end, 1, 8, 4)
	require.Equal(t, matchNotFound, pos)
}

func TestLinearFindLongestMatch_AgreesWithIndexed(t *testing.T) {
	buffer := make([]byte, 64)
	copy(buffer, []byte("mississippi-miss"))
	end := uint16(13)

	idx := newSearchIndex(uint16(len(buffer)))
	idx.build(buffer, uint16(len(buffer)))
	posIdx, lenIdx := idx.findLongestMatch(buffer, 0, end, 4, 8, 4)
	posLin, lenLin := linearFindLongestMatch(buffer, 0, end, 4, 8, 4)

	require.Equal(t, lenIdx, lenLin)
	if lenIdx > 0 {
		require.Equal(t, posIdx, posLin)
	}
}
