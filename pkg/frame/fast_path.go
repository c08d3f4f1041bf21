package frame

import (
	"bytes"
	"fmt"

	"github.com/ssargent/streamspill/pkg/codec"
)

// fastPathReader decodes records directly out of a single transport segment.
// When a record's length prefix and full body lie inside the current segment
// the record is decoded in place, without copying a byte. Anything that does
// not fit is handed to the spanning accumulator by the orchestrator.
type fastPathReader struct {
	segment       []byte
	position      int
	limit         int
	maxRecordSize int
}

// initFrom points the reader at segment[offset:limit], replacing any previous
// segment.
func (r *fastPathReader) initFrom(segment []byte, offset, limit int) {
	r.segment = segment
	r.position = offset
	r.limit = limit
}

func (r *fastPathReader) remaining() int {
	return r.limit - r.position
}

func (r *fastPathReader) hasRemaining() bool {
	return r.remaining() > 0
}

// hasCompleteLength reports whether the length prefix of the next record can
// be read without leaving the segment.
func (r *fastPathReader) hasCompleteLength() bool {
	return r.remaining() >= codec.LengthBytes
}

// readNextRecord decodes the next record if its body fits in the segment.
// When the body is short it reports PartialRecord together with the declared
// record length and leaves the cursor in front of the length prefix, so
// unconsumedBytes returns the exact remainder for hand-off.
func (r *fastPathReader) readNextRecord(target codec.Deserializable) (Result, int, error) {
	recordLength := codec.Length(r.segment[r.position:])
	if err := checkRecordLength(recordLength, r.maxRecordSize); err != nil {
		return PartialRecord, 0, err
	}

	available := r.remaining() - codec.LengthBytes
	if available < recordLength {
		return PartialRecord, recordLength, nil
	}

	start := r.position + codec.LengthBytes
	view := bytes.NewReader(r.segment[start : start+recordLength])
	if err := target.DecodeFrom(view); err != nil {
		return PartialRecord, 0, fmt.Errorf("error decoding record: %w", err)
	}
	r.position = start + recordLength

	if r.hasRemaining() {
		return IntermediateRecordFromBuffer, 0, nil
	}
	return LastRecordFromBuffer, 0, nil
}

// unconsumedBytes returns the unread tail of the segment without copying.
func (r *fastPathReader) unconsumedBytes() []byte {
	return r.segment[r.position:r.limit]
}

// clear drops the segment reference without decoding.
func (r *fastPathReader) clear() {
	r.segment = nil
	r.position = 0
	r.limit = 0
}
