package heatshrink

import "errors"

// Sentinel errors returned by Encoder and Decoder methods. Callers should
// use errors.Is against these, since the concrete error returned is always
// wrapped with additional context.
var (
	// ErrInvalid is returned when a configuration value or argument is
	// out of its documented range. The instance is left unchanged.
	ErrInvalid = errors.New("heatshrink: invalid argument")

	// ErrMisuse is returned when a method is called while the instance is
	// not in a state that accepts it (e.g. Sink after Finish, or Sink
	// while a previous fill has not yet been polled out). The instance
	// must be Reset before further use.
	ErrMisuse = errors.New("heatshrink: api misuse")

	// ErrUnknownState is returned when the decoder's state machine lands
	// on a node that should be unreachable. This is fatal to the
	// instance; Reset is required.
	ErrUnknownState = errors.New("heatshrink: internal inconsistency")

	// ErrUnexpectedStreamEnd is returned by DecodeAll when all input has
	// been sunk and polled, Finish has been called, and the decoder still
	// reports FinishMore with no further output forthcoming: a truncated
	// or otherwise malformed compressed stream.
	ErrUnexpectedStreamEnd = errors.New("heatshrink: unexpected end of compressed stream")
)
