package codec

import (
	"encoding/binary"
	"fmt"
	"io"
)

// LengthBytes is the size of the length prefix preceding every record payload.
const LengthBytes = 4

// Deserializable is implemented by record types that populate themselves from
// a sequential byte view. The reader passed to DecodeFrom is bounded to
// exactly the record's payload; the framing layer never interprets payload
// bytes itself.
type Deserializable interface {
	DecodeFrom(r io.Reader) error
}

// PutLength writes the 4-byte big-endian length prefix for a payload of n
// bytes into buf.
func PutLength(buf []byte, n int) {
	binary.BigEndian.PutUint32(buf, uint32(n))
}

// Length reads a 4-byte big-endian length prefix from buf.
func Length(buf []byte) int {
	return int(binary.BigEndian.Uint32(buf))
}

// EncodeFrame appends the length prefix and payload of a single record to dst
// and returns the extended slice. Useful for building test streams in memory.
func EncodeFrame(dst, payload []byte) []byte {
	var hdr [LengthBytes]byte
	PutLength(hdr[:], len(payload))
	dst = append(dst, hdr[:]...)
	return append(dst, payload...)
}

// WriteFrame writes a single length-prefixed record to w.
func WriteFrame(w io.Writer, payload []byte) (int64, error) {
	var hdr [LengthBytes]byte
	PutLength(hdr[:], len(payload))
	if _, err := w.Write(hdr[:]); err != nil {
		return 0, fmt.Errorf("error writing length prefix: %w", err)
	}
	n, err := w.Write(payload)
	if err != nil {
		return LengthBytes, fmt.Errorf("error writing payload: %w", err)
	}
	return LengthBytes + int64(n), nil
}
