package heatshrink_test

import (
	"bytes"
	"testing"

	"github.com/kickmaker/heatshrink/heatshrink"
)

// FuzzRoundTrip checks that EncodeAll/DecodeAll round-trip arbitrary input
// under a fixed configuration, regardless of how repetitive or how random
// the bytes are.
func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0})
	f.Add([]byte("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"))
	f.Add([]byte("ABCDABCDABCDABCDABCDABCDABCDABCDABCDABCD"))
	f.Add(bytes.Repeat([]byte{0xff}, 100))
	f.Add(bytes.Repeat([]byte("The quick brown fox. "), 10))

	seq := make([]byte, 256)
	for i := range seq {
		seq[i] = byte(i)
	}
	f.Add(seq)

	cfg := heatshrink.Config{WindowBits: 9, LookaheadBits: 5, UseIndex: true}

	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > 32*1024 {
			return
		}
		compressed, err := heatshrink.EncodeAll(cfg, input)
		if err != nil {
			t.Fatalf("EncodeAll failed: %v", err)
		}
		decompressed, err := heatshrink.DecodeAll(cfg, compressed)
		if err != nil {
			t.Fatalf("DecodeAll failed: %v", err)
		}
		if !bytes.Equal(input, decompressed) {
			t.Fatalf("round-trip mismatch: in=%d out=%d", len(input), len(decompressed))
		}
	})
}

// FuzzDecodeNeverPanics checks that feeding arbitrary (likely malformed)
// bytes straight to the decoder either produces a result or a clean error,
// never a panic or an infinite loop.
func FuzzDecodeNeverPanics(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0xff})
	f.Add([]byte{0x00, 0x00, 0x00, 0x00})

	cfg := heatshrink.Config{WindowBits: 8, LookaheadBits: 4}

	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > 8*1024 {
			return
		}
		_, _ = heatshrink.DecodeAll(cfg, input)
	})
}
