package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/streamspill/pkg/codec"
)

func TestFastPathReader_InitFromRespectsOffsets(t *testing.T) {
	segment := append([]byte{0xde, 0xad}, encodeStream([]byte("hello"))...)

	var r fastPathReader
	r.initFrom(segment, 2, len(segment))

	assert.True(t, r.hasRemaining())
	assert.True(t, r.hasCompleteLength())
	assert.Equal(t, len(segment)-2, r.remaining())

	var record codec.RawRecord
	result, _, err := r.readNextRecord(&record)
	require.NoError(t, err)
	assert.Equal(t, LastRecordFromBuffer, result)
	assert.Equal(t, []byte("hello"), record.Data)
	assert.False(t, r.hasRemaining())
}

func TestFastPathReader_IncompleteLength(t *testing.T) {
	var r fastPathReader

	for n := 1; n < codec.LengthBytes; n++ {
		r.initFrom(make([]byte, n), 0, n)
		assert.True(t, r.hasRemaining(), "n=%d", n)
		assert.False(t, r.hasCompleteLength(), "n=%d", n)
	}
}

func TestFastPathReader_PartialBodyLeavesCursorBeforeHeader(t *testing.T) {
	stream := encodeStream(patternPayload(100))
	short := stream[:30]

	var r fastPathReader
	r.initFrom(short, 0, len(short))

	var record codec.RawRecord
	result, recordLength, err := r.readNextRecord(&record)
	require.NoError(t, err)
	assert.Equal(t, PartialRecord, result)
	assert.Equal(t, 100, recordLength)

	// The cursor did not move: the whole remainder, header included, is
	// available for hand-off.
	assert.Equal(t, short, r.unconsumedBytes())
}

func TestFastPathReader_IntermediateThenLast(t *testing.T) {
	stream := encodeStream([]byte("one"), []byte("two"))

	var r fastPathReader
	r.initFrom(stream, 0, len(stream))

	var record codec.RawRecord
	result, _, err := r.readNextRecord(&record)
	require.NoError(t, err)
	assert.Equal(t, IntermediateRecordFromBuffer, result)
	assert.Equal(t, []byte("one"), record.Data)

	result, _, err = r.readNextRecord(&record)
	require.NoError(t, err)
	assert.Equal(t, LastRecordFromBuffer, result)
	assert.Equal(t, []byte("two"), record.Data)
}

func TestFastPathReader_Clear(t *testing.T) {
	stream := encodeStream([]byte("data"))

	var r fastPathReader
	r.initFrom(stream, 0, len(stream))
	require.True(t, r.hasRemaining())

	r.clear()
	assert.False(t, r.hasRemaining())
	assert.False(t, r.hasCompleteLength())
	assert.Empty(t, r.unconsumedBytes())
}
