package heatshrink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEncoder_RejectsBadConfig(t *testing.T) {
	_, err := NewEncoder(Config{WindowBits: 3, LookaheadBits: 3})
	require.ErrorIs(t, err, ErrInvalid)

	_, err = NewEncoder(Config{WindowBits: 8, LookaheadBits: 2})
	require.ErrorIs(t, err, ErrInvalid)

	_, err = NewEncoder(Config{WindowBits: 8, LookaheadBits: 9})
	require.ErrorIs(t, err, ErrInvalid)
}

func TestEncoder_SinkAfterFinishIsMisuse(t *testing.T) {
	enc, err := NewEncoder(Config{WindowBits: 8, LookaheadBits: 4})
	require.NoError(t, err)

	enc.Finish()
	_, err = enc.Sink([]byte("too late"))
	require.ErrorIs(t, err, ErrMisuse)
}

func TestEncoder_SinkWhileDrainingIsMisuse(t *testing.T) {
	enc, err := NewEncoder(Config{WindowBits: 4, LookaheadBits: 3})
	require.NoError(t, err)

	full := make([]byte, enc.cfg.windowSize())
	n, err := enc.Sink(full)
	require.NoError(t, err)
	require.Equal(t, len(full), n)
	require.Equal(t, stateFilled, enc.state)

	_, err = enc.Sink([]byte{0x01})
	require.ErrorIs(t, err, ErrMisuse)
}

func TestEncoder_SinkNeverOverflowsBuffer(t *testing.T) {
	enc, err := NewEncoder(Config{WindowBits: 4, LookaheadBits: 3})
	require.NoError(t, err)

	capacity := int(enc.cfg.windowSize())
	n, err := enc.Sink(make([]byte, capacity+50))
	require.NoError(t, err)
	require.Equal(t, capacity, n)
}

func TestEncoder_ResetIsIdempotentAcrossStreams(t *testing.T) {
	cfg := Config{WindowBits: 8, LookaheadBits: 4, UseIndex: true}
	enc, err := NewEncoder(cfg)
	require.NoError(t, err)

	buf := make([]byte, 64)
	for i := 0; i < 3; i++ {
		_, err := enc.Sink([]byte("repeat after me, repeat after me"))
		require.NoError(t, err)
		require.Equal(t, FinishMore, enc.Finish())
		for {
			_, res := enc.Poll(buf)
			if res == PollEmpty {
				break
			}
		}
		require.Equal(t, FinishDone, enc.Finish())
		enc.Reset()
	}
}

func TestEncoder_PollMakesProgressUntilEmpty(t *testing.T) {
	enc, err := NewEncoder(Config{WindowBits: 8, LookaheadBits: 4})
	require.NoError(t, err)

	_, err = enc.Sink([]byte("progress progress progress progress"))
	require.NoError(t, err)
	enc.Finish()

	buf := make([]byte, 1)
	total := 0
	for i := 0; i < 10000; i++ {
		n, res := enc.Poll(buf)
		total += n
		if res == PollEmpty {
			require.Greater(t, total, 0)
			return
		}
	}
	t.Fatal("encoder did not reach PollEmpty within bound")
}
