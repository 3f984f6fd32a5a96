package heatshrink

import "fmt"

// encState names the encoder's state-machine nodes.
type encState uint8

const (
	stateNotFull encState = iota
	stateFilled
	stateSearch
	stateYieldTagBit
	stateYieldLiteral
	stateYieldBRIndex
	stateYieldBRLength
	stateSaveBacklog
	stateFlushBits
	stateDone
)

const (
	literalMarker = 1
	backrefMarker = 0
)

// Encoder is a streaming LZSS-family compressor. The zero value is not
// usable; construct one with NewEncoder.
type Encoder struct {
	cfg Config

	// buffer is the input+window region: size 2*2^WindowBits. The low
	// half is the processed window; the high half accumulates bytes sunk
	// by the caller and awaiting a match-search pass.
	buffer []byte
	index  *searchIndex

	inputSize      uint16
	matchScanIndex uint16
	matchLength    uint16
	matchPos       uint16

	outgoingBits      uint16
	outgoingBitsCount uint8

	finishing bool
	state     encState

	currentByte byte
	bitIndex    uint8 // 0x80..0x01 = bits free in currentByte; 0x00 = a completed byte awaits flushing
}

// NewEncoder allocates an Encoder for the given configuration.
func NewEncoder(cfg Config) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Encoder{cfg: cfg}
	e.buffer = make([]byte, 2*cfg.windowSize())
	if cfg.UseIndex {
		e.index = newSearchIndex(2 * cfg.windowSize())
	}
	e.Reset()
	cfg.Logger.Debug().Uint8("window_bits", cfg.WindowBits).Uint8("lookahead_bits", cfg.LookaheadBits).
		Int("buffer_size", len(e.buffer)).Msg("encoder allocated")
	return e, nil
}

// Reset returns the encoder to its initial state, ready for a new logical
// stream. It must be called before reuse after Finish/Poll drain to DONE,
// or after any error.
func (e *Encoder) Reset() {
	e.inputSize = 0
	e.state = stateNotFull
	e.matchScanIndex = 0
	e.matchLength = 0
	e.finishing = false
	e.bitIndex = 0x80
	e.currentByte = 0
	e.outgoingBits = 0
	e.outgoingBitsCount = 0
	clear(e.buffer)
	if e.index != nil {
		e.index.reset()
	}
}

// Sink appends up to len(p) bytes into the high half of the window
// region, returning how many were accepted. It returns ErrMisuse if
// called after Finish, or while a previous fill is still awaiting a Poll
// pass (sink never overflows: excess bytes are simply not accepted).
func (e *Encoder) Sink(p []byte) (int, error) {
	if e.finishing {
		return 0, fmt.Errorf("sink called after finish: %w", ErrMisuse)
	}
	if e.state != stateNotFull {
		return 0, fmt.Errorf("sink called while state machine is draining (state=%d): %w", e.state, ErrMisuse)
	}

	writeOffset := e.inputOffset() + e.inputSize
	bufSize := e.cfg.windowSize()
	rem := bufSize - e.inputSize
	n := rem
	if uint16(len(p)) < n {
		n = uint16(len(p))
	}
	copy(e.buffer[writeOffset:], p[:n])
	e.inputSize += n
	if n == rem {
		e.state = stateFilled
	}
	e.cfg.Logger.Debug().Int("accepted", int(n)).Uint16("input_size", e.inputSize).Msg("encoder sink")
	return int(n), nil
}

// Finish signals end-of-stream. It returns FinishMore if Poll must still
// be called to flush trailing output, or FinishDone once that output has
// already fully drained.
func (e *Encoder) Finish() FinishResult {
	e.finishing = true
	if e.state == stateNotFull {
		if e.inputSize == 0 && e.bitIndex == 0x80 {
			// No unprocessed input and no partial output byte: there is
			// no trailing output to poll for.
			e.state = stateDone
		} else {
			e.state = stateFilled
		}
	}
	if e.state == stateDone {
		return FinishDone
	}
	return FinishMore
}

// Poll drives the state machine, writing produced bytes into out. It
// returns PollMore if out filled before the machine blocked, or PollEmpty
// once the machine has no further work for the current input.
func (e *Encoder) Poll(out []byte) (int, PollResult) {
	opos := 0
	for {
		switch e.state {
		case stateNotFull:
			return opos, PollEmpty
		case stateFilled:
			if e.cfg.UseIndex {
				e.index.build(e.buffer, e.inputOffset()+e.inputSize)
			}
			e.state = stateSearch
		case stateSearch:
			e.state = e.stepSearch()
		case stateYieldTagBit:
			next, blocked := e.stepYieldTagBit(out, &opos)
			if blocked {
				return opos, PollMore
			}
			e.state = next
		case stateYieldLiteral:
			next, blocked := e.stepYieldLiteral(out, &opos)
			if blocked {
				return opos, PollMore
			}
			e.state = next
		case stateYieldBRIndex:
			next, blocked := e.stepYieldBRIndex(out, &opos)
			if blocked {
				return opos, PollMore
			}
			e.state = next
		case stateYieldBRLength:
			next, blocked := e.stepYieldBRLength(out, &opos)
			if blocked {
				return opos, PollMore
			}
			e.state = next
		case stateSaveBacklog:
			e.state = e.stepSaveBacklog()
		case stateFlushBits:
			next, blocked := e.stepFlushBits(out, &opos)
			if blocked {
				return opos, PollMore
			}
			e.state = next
		case stateDone:
			return opos, PollEmpty
		default:
			// Unreachable for the encoder (internal-inconsistency is
			// defined as a decoder-only condition), but fail closed
			// rather than loop forever on a corrupted state value.
			return opos, PollEmpty
		}
	}
}

func (e *Encoder) inputOffset() uint16 {
	return e.cfg.windowSize()
}

func (e *Encoder) stepSearch() encState {
	windowLength := e.cfg.windowSize()
	lookaheadSize := e.cfg.lookaheadSize()
	msi := e.matchScanIndex

	bias := lookaheadSize
	if e.finishing {
		bias = 1
	}
	// Computed with wider arithmetic to avoid the uint16 underflow that
	// would otherwise mis-evaluate this check whenever bias > inputSize
	// (notably: finishing right after a window promotion that left no
	// unprocessed input while a partial output byte is still pending).
	if uint32(msi)+uint32(bias) > uint32(e.inputSize) {
		if e.finishing {
			return stateFlushBits
		}
		return stateSaveBacklog
	}

	inputOffset := e.inputOffset()
	end := inputOffset + msi
	start := end - windowLength

	maxPossible := lookaheadSize
	if e.inputSize-msi < lookaheadSize {
		maxPossible = e.inputSize - msi
	}

	var pos, length uint16
	if e.cfg.UseIndex {
		pos, length = e.index.findLongestMatch(e.buffer, start, end, maxPossible, e.cfg.WindowBits, e.cfg.LookaheadBits)
	} else {
		pos, length = linearFindLongestMatch(e.buffer, start, end, maxPossible, e.cfg.WindowBits, e.cfg.LookaheadBits)
	}

	if pos == matchNotFound {
		e.matchScanIndex++
		e.matchLength = 0
		e.outgoingBits = literalMarker
		e.outgoingBitsCount = 1
		return stateYieldTagBit
	}

	e.matchPos = pos
	e.matchLength = length
	e.outgoingBits = backrefMarker
	e.outgoingBitsCount = 1
	return stateYieldTagBit
}

func (e *Encoder) stepYieldTagBit(out []byte, opos *int) (encState, bool) {
	drained, blocked := e.pushOutgoingBits(out, opos)
	if blocked {
		return e.state, true
	}
	if !drained {
		return e.state, false
	}
	if e.matchLength == 0 {
		e.outgoingBits = uint16(e.literalByte())
		e.outgoingBitsCount = 8
		return stateYieldLiteral, false
	}
	e.outgoingBits = e.matchPos - 1
	e.outgoingBitsCount = e.cfg.WindowBits
	return stateYieldBRIndex, false
}

func (e *Encoder) stepYieldLiteral(out []byte, opos *int) (encState, bool) {
	drained, blocked := e.pushOutgoingBits(out, opos)
	if blocked {
		return e.state, true
	}
	if !drained {
		return e.state, false
	}
	return stateSearch, false
}

func (e *Encoder) stepYieldBRIndex(out []byte, opos *int) (encState, bool) {
	drained, blocked := e.pushOutgoingBits(out, opos)
	if blocked {
		return e.state, true
	}
	if !drained {
		return e.state, false
	}
	e.outgoingBits = e.matchLength - 1
	e.outgoingBitsCount = e.cfg.LookaheadBits
	return stateYieldBRLength, false
}

func (e *Encoder) stepYieldBRLength(out []byte, opos *int) (encState, bool) {
	drained, blocked := e.pushOutgoingBits(out, opos)
	if blocked {
		return e.state, true
	}
	if !drained {
		return e.state, false
	}
	e.matchScanIndex += e.matchLength
	e.matchLength = 0
	return stateSearch, false
}

func (e *Encoder) stepSaveBacklog() encState {
	bufSize := e.cfg.windowSize()
	msi := e.matchScanIndex
	rem := bufSize - msi
	copy(e.buffer, e.buffer[bufSize-rem:])
	e.matchScanIndex = 0
	e.inputSize -= bufSize - rem
	return stateNotFull
}

func (e *Encoder) stepFlushBits(out []byte, opos *int) (encState, bool) {
	if e.bitIndex == 0x80 {
		return stateDone, false
	}
	if !e.emit(e.currentByte, out, opos) {
		return e.state, true
	}
	e.bitIndex = 0x80
	e.currentByte = 0
	return stateDone, false
}

func (e *Encoder) literalByte() byte {
	return e.buffer[e.inputOffset()+e.matchScanIndex-1]
}

// emit writes a completed output byte to out if there is room, recording
// progress in opos. It returns false (blocked) without mutating anything
// else when out is full; the byte remains exactly where it already lives
// (currentByte), so the next call can retry with a fresh out slice.
func (e *Encoder) emit(b byte, out []byte, opos *int) bool {
	if *opos >= len(out) {
		return false
	}
	out[*opos] = b
	*opos++
	return true
}

// pushOutgoingBits drains up to 8 bits at a time from the outgoingBits
// queue. It returns drained=true once the queue is empty, or
// blocked=true if the output buffer filled before any further bits could
// be placed. This is the single mechanism used for every
// field: tag bit, literal byte, back-reference index, and back-reference
// length all flow through it uniformly.
func (e *Encoder) pushOutgoingBits(out []byte, opos *int) (drained, blocked bool) {
	if e.outgoingBitsCount == 0 {
		return true, false
	}
	var count uint8
	var bits uint8
	if e.outgoingBitsCount > 8 {
		count = 8
		bits = uint8(e.outgoingBits >> (e.outgoingBitsCount - 8))
	} else {
		count = e.outgoingBitsCount
		bits = uint8(e.outgoingBits)
	}
	consumed := e.pushBits(count, bits, out, opos)
	if consumed == 0 {
		return false, true
	}
	e.outgoingBitsCount -= consumed
	return e.outgoingBitsCount == 0, false
}

// pushBits packs up to 8 bits (MSB-first) into the output accumulator,
// flushing completed bytes via emit. It returns how many of the
// requested bits were actually consumed; a short count (including zero)
// means the output buffer filled and the caller must retry on the next
// Poll call — currentByte/bitIndex retain exactly the state needed to
// resume, including a completed-but-unflushed byte (bitIndex == 0).
func (e *Encoder) pushBits(count, bits uint8, out []byte, opos *int) uint8 {
	if e.bitIndex == 0 {
		if !e.emit(e.currentByte, out, opos) {
			return 0
		}
		e.bitIndex = 0x80
		e.currentByte = 0
	}

	if count == 8 && e.bitIndex == 0x80 {
		if e.emit(bits, out, opos) {
			return 8
		}
		return 0
	}

	var consumed uint8
	for consumed < count {
		bitPos := count - 1 - consumed
		if bits&(1<<bitPos) != 0 {
			e.currentByte |= e.bitIndex
		}
		e.bitIndex >>= 1
		consumed++
		if e.bitIndex == 0 {
			if consumed == count {
				if e.emit(e.currentByte, out, opos) {
					e.bitIndex = 0x80
					e.currentByte = 0
				}
				return consumed
			}
			if !e.emit(e.currentByte, out, opos) {
				return consumed
			}
			e.bitIndex = 0x80
			e.currentByte = 0
		}
	}
	return consumed
}
