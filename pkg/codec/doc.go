// Package codec defines the wire format shared by the stream producer and
// the deserialization engine: length-prefixed records with a 4-byte
// big-endian length followed by that many payload bytes, repeated with no
// separators. Record types implement Deserializable to populate themselves
// from a bounded byte view; the codec never interprets payload bytes.
package codec
