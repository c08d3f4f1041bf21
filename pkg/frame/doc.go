// Package frame is the record-framing engine between a network transport
// and record-processing logic. It reassembles length-prefixed records from
// fixed-capacity transport buffers, decoding small records zero-copy from
// the buffer they arrived in and gathering records that straddle buffer
// boundaries, spilling abnormally large ones to a temporary file so a single
// record can never pin an unbounded amount of memory.
package frame
