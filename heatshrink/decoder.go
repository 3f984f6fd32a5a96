package heatshrink

import "fmt"

// decState names the decoder's state-machine nodes. W and L
// fields wider than 8 bits are split into MSB/LSB sub-states so that every
// input-bit pull request stays at or below 8 bits (see the getBits
// comment for why this bound matters for correctness).
type decState uint8

const (
	decStateTagBit decState = iota
	decStateYieldLiteral
	decStateBackrefIndexMSB
	decStateBackrefIndexLSB
	decStateBackrefCountMSB
	decStateBackrefCountLSB
	decStateYieldBackref
)

// noBits signals that getBits could not supply a full field from the
// bytes currently available.
const noBits = uint16(0xffff)

// Decoder is a streaming LZSS-family decompressor. The zero value is not
// usable; construct one with NewDecoder.
type Decoder struct {
	cfg Config

	inbuf      []byte
	inputSize  uint16
	inputIndex uint16

	window     []byte
	headIndex  uint16

	outputCount uint16
	outputIndex uint16

	state       decState
	currentByte byte
	bitIndex    uint8 // 0x80..0x01 = unread bits in currentByte; 0x00 = need a new input byte

	finishing bool
}

// NewDecoder allocates a Decoder for the given configuration.
func NewDecoder(cfg Config) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Decoder{cfg: cfg}
	d.inbuf = make([]byte, cfg.inputBufferSize())
	d.window = make([]byte, cfg.windowSize())
	d.Reset()
	cfg.Logger.Debug().Uint8("window_bits", cfg.WindowBits).Uint8("lookahead_bits", cfg.LookaheadBits).
		Int("input_buffer", len(d.inbuf)).Msg("decoder allocated")
	return d, nil
}

// Reset returns the decoder to its initial state.
func (d *Decoder) Reset() {
	d.state = decStateTagBit
	d.inputSize = 0
	d.inputIndex = 0
	d.bitIndex = 0
	d.currentByte = 0
	d.outputCount = 0
	d.outputIndex = 0
	d.headIndex = 0
	d.finishing = false
	clear(d.window)
}

// Sink copies up to len(p) bytes into the decoder's input buffer,
// returning how many were accepted. SinkFull means the buffer has no
// room; Poll first to make room.
func (d *Decoder) Sink(p []byte) (int, SinkResult) {
	rem := uint16(len(d.inbuf)) - d.inputSize
	if rem == 0 {
		return 0, SinkFull
	}
	n := rem
	if uint16(len(p)) < n {
		n = uint16(len(p))
	}
	copy(d.inbuf[d.inputSize:], p[:n])
	d.inputSize += n
	d.cfg.Logger.Debug().Int("accepted", int(n)).Msg("decoder sink")
	return int(n), SinkOK
}

// Finish signals end-of-input. It returns FinishDone once the input buffer
// is empty while the decoder is waiting on a tag bit, a literal, or a
// back-reference index or count field; any bits still left in the
// accumulator are then taken to be the encoder's zero padding. It returns
// FinishMore while input remains or a back-reference copy is in progress.
func (d *Decoder) Finish() FinishResult {
	d.finishing = true
	switch d.state {
	case decStateTagBit, decStateBackrefIndexMSB, decStateBackrefIndexLSB,
		decStateBackrefCountMSB, decStateBackrefCountLSB, decStateYieldLiteral:
		if d.inputSize == 0 {
			return FinishDone
		}
		return FinishMore
	}
	return FinishMore
}

// Poll drives the state machine, writing decoded bytes into out. It
// returns PollMore if out filled before the machine blocked, PollEmpty if
// input is exhausted, or ErrUnknownState wrapped in err if an
// unreachable state is somehow reached.
func (d *Decoder) Poll(out []byte) (int, PollResult, error) {
	opos := 0
	for {
		switch d.state {
		case decStateTagBit:
			next, ok := d.stepTagBit()
			if !ok {
				return opos, PollEmpty, nil
			}
			d.state = next
		case decStateYieldLiteral:
			if opos >= len(out) {
				return opos, PollMore, nil
			}
			c, ok := d.stepYieldLiteral()
			if !ok {
				return opos, PollEmpty, nil
			}
			out[opos] = c
			opos++
			d.state = decStateTagBit
		case decStateBackrefIndexMSB:
			next, ok := d.stepBackrefIndexMSB()
			if !ok {
				return opos, PollEmpty, nil
			}
			d.state = next
		case decStateBackrefIndexLSB:
			next, ok := d.stepBackrefIndexLSB()
			if !ok {
				return opos, PollEmpty, nil
			}
			d.state = next
		case decStateBackrefCountMSB:
			next, ok := d.stepBackrefCountMSB()
			if !ok {
				return opos, PollEmpty, nil
			}
			d.state = next
		case decStateBackrefCountLSB:
			next, ok := d.stepBackrefCountLSB()
			if !ok {
				return opos, PollEmpty, nil
			}
			d.state = next
		case decStateYieldBackref:
			if opos >= len(out) {
				return opos, PollMore, nil
			}
			out[opos] = d.stepYieldBackrefByte()
			opos++
			if d.outputCount == 0 {
				d.state = decStateTagBit
			}
		default:
			return opos, PollEmpty, fmt.Errorf("decoder reached state %d: %w", d.state, ErrUnknownState)
		}
	}
}

func (d *Decoder) windowMask() uint16 {
	return d.cfg.windowSize() - 1
}

func (d *Decoder) stepTagBit() (decState, bool) {
	bits, ok := d.getBits(1)
	if !ok {
		return d.state, false
	}
	if bits > 0 {
		return decStateYieldLiteral, true
	}
	if d.cfg.WindowBits > 8 {
		return decStateBackrefIndexMSB, true
	}
	d.outputIndex = 0
	return decStateBackrefIndexLSB, true
}

func (d *Decoder) stepYieldLiteral() (byte, bool) {
	bits, ok := d.getBits(8)
	if !ok {
		return 0, false
	}
	c := byte(bits)
	d.window[d.headIndex&d.windowMask()] = c
	d.headIndex++
	return c, true
}

func (d *Decoder) stepBackrefIndexMSB() (decState, bool) {
	bits, ok := d.getBits(d.cfg.WindowBits - 8)
	if !ok {
		return d.state, false
	}
	d.outputIndex = bits << 8
	return decStateBackrefIndexLSB, true
}

func (d *Decoder) stepBackrefIndexLSB() (decState, bool) {
	bitCt := d.cfg.WindowBits
	if bitCt > 8 {
		bitCt = 8
	}
	bits, ok := d.getBits(bitCt)
	if !ok {
		return d.state, false
	}
	d.outputIndex |= bits
	d.outputIndex++
	d.outputCount = 0
	if d.cfg.LookaheadBits > 8 {
		return decStateBackrefCountMSB, true
	}
	return decStateBackrefCountLSB, true
}

func (d *Decoder) stepBackrefCountMSB() (decState, bool) {
	bits, ok := d.getBits(d.cfg.LookaheadBits - 8)
	if !ok {
		return d.state, false
	}
	d.outputCount = bits << 8
	return decStateBackrefCountLSB, true
}

func (d *Decoder) stepBackrefCountLSB() (decState, bool) {
	bitCt := d.cfg.LookaheadBits
	if bitCt > 8 {
		bitCt = 8
	}
	bits, ok := d.getBits(bitCt)
	if !ok {
		return d.state, false
	}
	d.outputCount |= bits
	d.outputCount++
	return decStateYieldBackref, true
}

// stepYieldBackrefByte emits exactly one byte of the current
// back-reference run, advancing head_index and decrementing
// output_count. Spreading the copy across Poll calls this way, rather
// than looping output_count times in one shot, is what lets a single
// back-reference survive an output buffer smaller than its length.
func (d *Decoder) stepYieldBackrefByte() byte {
	mask := d.windowMask()
	c := d.window[(d.headIndex-d.outputIndex)&mask]
	d.window[d.headIndex&mask] = c
	d.headIndex++
	d.outputCount--
	return c
}

// getBits returns the next count bits (count <= 15) from the input
// stream, MSB-first, or (noBits, false) if fewer than count bits are
// currently available. It never consumes bits it cannot fully deliver:
// the guard below refuses to start pulling unless either enough bits
// already sit in the partial current_byte, or more input bytes remain to
// refill from, which combined with every caller here requesting at most
// 8 bits guarantees at most one refill per call.
func (d *Decoder) getBits(count uint8) (uint16, bool) {
	if count == 0 || count > 15 {
		return noBits, false
	}
	if d.inputSize == 0 && d.bitIndex < (1<<(count-1)) {
		return noBits, false
	}

	var accumulator uint16
	for i := uint8(0); i < count; i++ {
		if d.bitIndex == 0 {
			if d.inputSize == 0 {
				return noBits, false
			}
			d.currentByte = d.inbuf[d.inputIndex]
			d.inputIndex++
			if d.inputIndex == d.inputSize {
				d.inputIndex = 0
				d.inputSize = 0
			}
			d.bitIndex = 0x80
		}
		accumulator <<= 1
		if d.currentByte&d.bitIndex != 0 {
			accumulator |= 1
		}
		d.bitIndex >>= 1
	}
	return accumulator, true
}
