package frame

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/streamspill/pkg/codec"
)

func newTestAccumulator(t *testing.T, dir string, threshold int) *spanningAccumulator {
	t.Helper()
	spill, err := newSpillDirectories([]string{dir})
	require.NoError(t, err)
	return newSpanningAccumulator(spill, threshold, DefaultMaxRecordSize, engineMetrics)
}

func TestSpanningAccumulator_HeaderStagedByteByByte(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "spanning_header_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	payload := []byte("spanning payload")
	stream := encodeStream(payload)

	s := newTestAccumulator(t, tmpDir, DefaultSpillThreshold)

	for i := 0; i < codec.LengthBytes; i++ {
		require.NoError(t, s.addNextChunk(stream[i:i+1]))
		assert.Equal(t, i+1, s.numGatheredBytes())
		assert.False(t, s.hasFullRecord())
	}
	// Prefix complete, length known, no body yet.
	assert.Equal(t, len(payload), s.targetLength)
	assert.Equal(t, 0, s.bytesGathered)

	require.NoError(t, s.addNextChunk(stream[codec.LengthBytes:]))
	require.True(t, s.hasFullRecord())

	view, err := s.recordView()
	require.NoError(t, err)
	got, err := io.ReadAll(view)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSpanningAccumulator_KnownLengthAccounting(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "spanning_known_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	payload := patternPayload(40)

	s := newTestAccumulator(t, tmpDir, DefaultSpillThreshold)
	require.NoError(t, s.initWithKnownLength(len(payload), payload[:15]))

	assert.Equal(t, codec.LengthBytes+15, s.numGatheredBytes())
	assert.False(t, s.hasFullRecord())

	require.NoError(t, s.addNextChunk(payload[15:]))
	assert.True(t, s.hasFullRecord())
	assert.Equal(t, len(payload), s.bytesGathered)
}

func TestSpanningAccumulator_LeftoverBeyondRecordEnd(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "spanning_leftover_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	payload := patternPayload(20)
	extra := []byte("belongs to next record")

	s := newTestAccumulator(t, tmpDir, DefaultSpillThreshold)
	require.NoError(t, s.initWithKnownLength(len(payload), payload[:5]))

	chunk := append(append([]byte{}, payload[5:]...), extra...)
	require.NoError(t, s.addNextChunk(chunk))

	require.True(t, s.hasFullRecord())
	assert.Equal(t, len(payload), s.bytesGathered)

	var fast fastPathReader
	require.NoError(t, s.transferLeftoverTo(&fast))
	assert.Equal(t, extra, fast.unconsumedBytes())

	// Accumulator is fully reset for the next spanning record.
	assert.Zero(t, s.numGatheredBytes())
	assert.False(t, s.hasFullRecord())
}

func TestSpanningAccumulator_SpillFlushPreservesByteOrder(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "spanning_flush_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	payload := patternPayload(3000)

	s := newTestAccumulator(t, tmpDir, 1024)

	// Gathered bytes that precede the spill decision must land in the file
	// ahead of everything appended afterwards.
	s.inMem.Write(payload[:700])
	s.bytesGathered = 700
	s.targetLength = len(payload)

	require.NoError(t, s.maybeSpill())
	require.True(t, s.spilled())
	assert.Zero(t, s.inMem.Len())

	require.NoError(t, s.appendBody(payload[700:]))
	require.True(t, s.hasFullRecord())

	view, err := s.recordView()
	require.NoError(t, err)
	got, err := io.ReadAll(view)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, s.reset())
	assert.Zero(t, spillFileCount(t, tmpDir))
}

func TestSpanningAccumulator_SpillDecisionAtHeader(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "spanning_decision_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	t.Run("below threshold stays in memory", func(t *testing.T) {
		s := newTestAccumulator(t, tmpDir, 1024)
		require.NoError(t, s.initWithKnownLength(1024, nil))
		assert.False(t, s.spilled())
	})

	t.Run("above threshold spills immediately", func(t *testing.T) {
		s := newTestAccumulator(t, tmpDir, 1024)
		require.NoError(t, s.initWithKnownLength(1025, nil))
		assert.True(t, s.spilled())
		require.NoError(t, s.reset())
	})
}

func TestSpanningAccumulator_ClearDeletesSpillFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "spanning_clear_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	s := newTestAccumulator(t, tmpDir, 16)
	require.NoError(t, s.initWithKnownLength(1000, patternPayload(100)))
	require.True(t, s.spilled())
	require.Equal(t, 1, spillFileCount(t, tmpDir))

	s.clear()

	assert.Zero(t, spillFileCount(t, tmpDir))
	assert.Zero(t, s.numGatheredBytes())
	assert.Nil(t, s.unconsumedBytes())
}
