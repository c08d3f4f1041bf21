package buffer

// Buffer describes an externally owned region of a transport memory segment.
// The transport layer allocates and recycles segments; a Buffer only points
// into one. The bytes must not be mutated by the owner while a consumer holds
// the Buffer.
type Buffer struct {
	segment []byte
	offset  int
	length  int
}

// New creates a buffer over segment[offset : offset+length].
func New(segment []byte, offset, length int) *Buffer {
	return &Buffer{
		segment: segment,
		offset:  offset,
		length:  length,
	}
}

// Wrap creates a buffer covering all of data.
func Wrap(data []byte) *Buffer {
	return New(data, 0, len(data))
}

// Segment returns the underlying memory segment, including bytes outside the
// buffer's own region.
func (b *Buffer) Segment() []byte {
	return b.segment
}

// Offset returns the start of the buffer's region within the segment.
func (b *Buffer) Offset() int {
	return b.offset
}

// Len returns the number of readable bytes in the buffer.
func (b *Buffer) Len() int {
	return b.length
}

// Bytes returns the buffer's region of the segment without copying.
func (b *Buffer) Bytes() []byte {
	return b.segment[b.offset : b.offset+b.length]
}
