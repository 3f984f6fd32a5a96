// Package heatshrink implements a streaming LZSS-family compression codec
// for memory-constrained environments. Both the Encoder and the Decoder
// are incremental: callers push input with Sink and pull output with Poll
// in arbitrarily small chunks, and the state machine suspends mid-token
// (even mid-bit) across calls rather than requiring the whole stream in
// memory at once.
//
// The wire format has no header, trailer, checksum, or stream framing; an
// Encoder/Decoder pair must agree on window and lookahead sizes out of
// band.
package heatshrink
