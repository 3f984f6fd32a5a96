package heatshrink

// PollResult reports why Poll returned.
type PollResult uint8

const (
	// PollEmpty means the state machine has no further work until more
	// input is sunk (or, for the encoder, until Finish is called).
	PollEmpty PollResult = iota
	// PollMore means the output buffer filled before the state machine
	// blocked; call Poll again with a fresh (or drained) buffer.
	PollMore
)

func (r PollResult) String() string {
	switch r {
	case PollEmpty:
		return "empty"
	case PollMore:
		return "more"
	default:
		return "unknown"
	}
}

// FinishResult reports whether end-of-stream flushing is complete.
type FinishResult uint8

const (
	// FinishDone means all output has been produced; no further Poll
	// calls are necessary.
	FinishDone FinishResult = iota
	// FinishMore means residual output remains; keep calling Poll.
	FinishMore
)

func (r FinishResult) String() string {
	switch r {
	case FinishDone:
		return "done"
	case FinishMore:
		return "more"
	default:
		return "unknown"
	}
}

// SinkResult reports whether Sink accepted input.
type SinkResult uint8

const (
	// SinkOK means some (possibly zero) bytes were accepted.
	SinkOK SinkResult = iota
	// SinkFull means the decoder's input buffer has no room; poll before
	// sinking more.
	SinkFull
)

func (r SinkResult) String() string {
	switch r {
	case SinkOK:
		return "ok"
	case SinkFull:
		return "full"
	default:
		return "unknown"
	}
}
