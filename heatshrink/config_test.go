package heatshrink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, Config{WindowBits: 8, LookaheadBits: 4}.Validate())
	require.ErrorIs(t, Config{WindowBits: 3, LookaheadBits: 3}.Validate(), ErrInvalid)
	require.ErrorIs(t, Config{WindowBits: 16, LookaheadBits: 4}.Validate(), ErrInvalid)
	require.ErrorIs(t, Config{WindowBits: 8, LookaheadBits: 2}.Validate(), ErrInvalid)
	require.ErrorIs(t, Config{WindowBits: 8, LookaheadBits: 9}.Validate(), ErrInvalid)
}

func TestConfig_DefaultInputBufferSize(t *testing.T) {
	cfg := Config{WindowBits: 8, LookaheadBits: 4}
	require.Equal(t, uint16(defaultDecoderInputBuffer), cfg.inputBufferSize())

	cfg.InputBufferSize = 128
	require.Equal(t, uint16(128), cfg.inputBufferSize())
}

func TestConfig_Sizes(t *testing.T) {
	cfg := Config{WindowBits: 8, LookaheadBits: 4}
	require.Equal(t, uint16(256), cfg.windowSize())
	require.Equal(t, uint16(16), cfg.lookaheadSize())
}
