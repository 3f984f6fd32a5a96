package heatshrink

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Window/lookahead range limits, matching the original heatshrink codec.
const (
	MinWindowBits    = 4
	MaxWindowBits    = 15
	MinLookaheadBits = 3
)

// defaultDecoderInputBuffer is used when Config.InputBufferSize is left
// at zero: a modest default for memory-constrained targets, which are
// expected to set it explicitly when they need something smaller or
// larger.
const defaultDecoderInputBuffer = 512

// Config holds the build-time parameters for an Encoder/Decoder pair:
// window size, lookahead size, whether the encoder builds a search index,
// and the decoder's input buffer capacity. An Encoder and Decoder must
// share the same WindowBits/LookaheadBits to interoperate; nothing in the
// wire format communicates them.
type Config struct {
	// WindowBits is W: the sliding window holds 2^WindowBits bytes.
	WindowBits uint8
	// LookaheadBits is L: the maximum match length is 2^LookaheadBits bytes.
	LookaheadBits uint8
	// UseIndex enables the encoder's per-byte search index. Disabling
	// it falls back to a linear scan, trading CPU for the index's RAM.
	UseIndex bool
	// InputBufferSize is IB: the decoder's input buffer capacity in bytes.
	// Zero selects defaultDecoderInputBuffer. Unused by the encoder, which
	// always sizes its input+window region as 2*2^WindowBits.
	InputBufferSize uint16
	// Logger receives Debug-level tracing of Encoder/Decoder construction
	// and of each Sink call; state transitions are not logged. A disabled
	// logger (zerolog.Nop()) costs nothing per call; the default zero value
	// already behaves as a no-op writer.
	Logger zerolog.Logger
}

// Validate checks that the configuration is within the documented ranges
// (4 <= W <= 15, 3 <= L <= W).
func (c Config) Validate() error {
	if c.WindowBits < MinWindowBits || c.WindowBits > MaxWindowBits {
		return fmt.Errorf("window bits %d outside [%d,%d]: %w", c.WindowBits, MinWindowBits, MaxWindowBits, ErrInvalid)
	}
	if c.LookaheadBits < MinLookaheadBits || c.LookaheadBits > c.WindowBits {
		return fmt.Errorf("lookahead bits %d outside [%d,%d]: %w", c.LookaheadBits, MinLookaheadBits, c.WindowBits, ErrInvalid)
	}
	return nil
}

func (c Config) windowSize() uint16 {
	return 1 << c.WindowBits
}

func (c Config) lookaheadSize() uint16 {
	return 1 << c.LookaheadBits
}

func (c Config) inputBufferSize() uint16 {
	if c.InputBufferSize == 0 {
		return defaultDecoderInputBuffer
	}
	return c.InputBufferSize
}

// minMatch is the shortest match length the encoder will ever emit as a
// back-reference (a match must be at least 2 bytes). The wire bias applied
// to the transmitted length field is kept at a constant 1 regardless of W;
// see DESIGN.md for why a W-dependent bias is not implemented literally.
const minMatch = 2
