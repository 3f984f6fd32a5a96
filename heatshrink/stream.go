package heatshrink

// pollChunk is the output buffer size convenience helpers poll with. It
// has no bearing on correctness (chunk-invariance holds for any output
// buffer size >= 1); it's just a reasonable default.
const pollChunk = 512

// EncodeAll compresses data in one call, driving the Sink/Poll/Finish
// loop to completion. It exists for callers that don't need incremental
// control; Encoder's own Sink/Poll/Finish remain the primitive,
// streaming-friendly contract.
func EncodeAll(cfg Config, data []byte) ([]byte, error) {
	enc, err := NewEncoder(cfg)
	if err != nil {
		return nil, err
	}
	var out []byte
	buf := make([]byte, pollChunk)
	sunk := 0
	for {
		if sunk < len(data) {
			n, err := enc.Sink(data[sunk:])
			if err != nil {
				return nil, err
			}
			sunk += n
		}
		for {
			n, res := enc.Poll(buf)
			out = append(out, buf[:n]...)
			if res == PollEmpty {
				break
			}
		}
		if sunk >= len(data) {
			if enc.Finish() == FinishDone {
				return out, nil
			}
		}
	}
}

// DecodeAll decompresses data in one call, driving the Sink/Poll/Finish
// loop to completion. It returns ErrUnexpectedStreamEnd if finish never
// reaches FinishDone despite all input having been sunk and polled — a
// truncated or malformed stream, since a stream produced by Encoder
// always converges.
func DecodeAll(cfg Config, data []byte) ([]byte, error) {
	dec, err := NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	var out []byte
	buf := make([]byte, pollChunk)
	sunk := 0
	for {
		for sunk < len(data) {
			n, res := dec.Sink(data[sunk:])
			sunk += n
			if res == SinkFull || n == 0 {
				break
			}
		}
		produced := 0
		for {
			n, res, err := dec.Poll(buf)
			if err != nil {
				return nil, err
			}
			out = append(out, buf[:n]...)
			produced += n
			if res == PollEmpty {
				break
			}
		}
		if sunk >= len(data) {
			if dec.Finish() == FinishDone {
				return out, nil
			}
			if produced == 0 {
				return nil, ErrUnexpectedStreamEnd
			}
		}
	}
}
