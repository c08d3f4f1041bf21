package frame

import (
	"fmt"
	"os"

	"github.com/ssargent/streamspill/pkg/buffer"
	"github.com/ssargent/streamspill/pkg/codec"
)

// Deserializer turns a sequence of transport buffers into discrete
// length-prefixed records. Records that fit inside one buffer are decoded in
// place by the fast path; records that span buffers are gathered by the
// accumulator, on disk once they cross the spill threshold.
//
// A Deserializer serves exactly one byte stream and must be driven by a
// single goroutine: the same one that feeds buffers and consumes records.
type Deserializer struct {
	fastPath fastPathReader
	spanning *spanningAccumulator

	current *buffer.Buffer
	metrics *Metrics
}

// New creates a Deserializer. Zero config fields take defaults; an empty
// SpillDirs falls back to the OS temp directory.
func New(config Config) (*Deserializer, error) {
	if config.SpillThreshold == 0 {
		config.SpillThreshold = DefaultSpillThreshold
	}
	if config.MaxRecordSize == 0 {
		config.MaxRecordSize = DefaultMaxRecordSize
	}
	if len(config.SpillDirs) == 0 {
		config.SpillDirs = []string{os.TempDir()}
	}

	spill, err := newSpillDirectories(config.SpillDirs)
	if err != nil {
		return nil, err
	}

	d := &Deserializer{
		spanning: newSpanningAccumulator(spill, config.SpillThreshold, config.MaxRecordSize, engineMetrics),
		metrics:  engineMetrics,
	}
	d.fastPath.maxRecordSize = config.MaxRecordSize
	return d, nil
}

// SetNextBuffer feeds the next transport buffer. While a spanning record is
// in progress the buffer's bytes go to the accumulator; otherwise the buffer
// becomes the fast path's active segment. The previous buffer reference is
// replaced regardless of whether the caller retrieved it.
func (d *Deserializer) SetNextBuffer(b *buffer.Buffer) error {
	d.current = b
	d.metrics.RecordBytesFed(b.Len())

	if d.spanning.numGatheredBytes() > 0 {
		return d.spanning.addNextChunk(b.Bytes())
	}
	d.fastPath.initFrom(b.Segment(), b.Offset(), b.Offset()+b.Len())
	return nil
}

// GetCurrentBuffer returns the most recently fed buffer and releases the
// engine's reference to it. Single-shot: a second call before the next
// SetNextBuffer returns nil.
func (d *Deserializer) GetCurrentBuffer() *buffer.Buffer {
	tmp := d.current
	d.current = nil
	return tmp
}

// GetNextRecord attempts to decode the next record into target. The fast
// path is always consulted first; it covers the majority of records, and for
// large spanning records its share of the work is negligible anyway.
func (d *Deserializer) GetNextRecord(target codec.Deserializable) (Result, error) {
	result, err := d.nextRecord(target)
	if err != nil {
		return result, err
	}
	d.metrics.RecordResult(result)
	return result, nil
}

func (d *Deserializer) nextRecord(target codec.Deserializable) (Result, error) {
	if d.fastPath.hasCompleteLength() {
		return d.readFastPathRecord(target)
	}

	if d.fastPath.hasRemaining() {
		// Fewer than four bytes remain: stage them as a partial length
		// prefix and let the accumulator take over.
		d.spanning.initWithPartialHeader(d.fastPath.unconsumedBytes())
		d.fastPath.clear()
		return PartialRecord, nil
	}

	if d.spanning.hasFullRecord() {
		view, err := d.spanning.recordView()
		if err != nil {
			return PartialRecord, err
		}
		if err := target.DecodeFrom(view); err != nil {
			return PartialRecord, fmt.Errorf("error decoding spanning record: %w", err)
		}
		if err := d.spanning.transferLeftoverTo(&d.fastPath); err != nil {
			return PartialRecord, err
		}
		if d.fastPath.hasRemaining() {
			return IntermediateRecordFromBuffer, nil
		}
		return LastRecordFromBuffer, nil
	}

	return PartialRecord, nil
}

func (d *Deserializer) readFastPathRecord(target codec.Deserializable) (Result, error) {
	result, recordLength, err := d.fastPath.readNextRecord(target)
	if err != nil {
		return result, err
	}
	if result == PartialRecord {
		// The length prefix is parsed but the body is cut short. Hand the
		// available body bytes to the accumulator along with the known
		// length.
		body := d.fastPath.unconsumedBytes()[codec.LengthBytes:]
		d.fastPath.clear()
		if err := d.spanning.initWithKnownLength(recordLength, body); err != nil {
			return PartialRecord, err
		}
	}
	return result, nil
}

// GetUnconsumedBuffer returns every byte the engine holds that has not yet
// been attributed to a decoded record, wrapped as a standalone buffer. Used
// to drain mid-record state during channel teardown. Returns nil when no
// unconsumed bytes exist, and a best-effort view once a record has spilled.
func (d *Deserializer) GetUnconsumedBuffer() (*buffer.Buffer, error) {
	if d.fastPath.hasRemaining() {
		unconsumed := d.fastPath.unconsumedBytes()
		data := make([]byte, len(unconsumed))
		copy(data, unconsumed)
		return buffer.Wrap(data), nil
	}

	data := d.spanning.unconsumedBytes()
	if data == nil {
		return nil, nil
	}
	return buffer.Wrap(data), nil
}

// Clear unconditionally resets both read paths, deleting any open spill
// file. Used on cancellation.
func (d *Deserializer) Clear() {
	d.fastPath.clear()
	d.spanning.clear()
}

// HasUnfinishedData reports whether mid-record state exists that must be
// drained or cleared before the stream can be torn down.
func (d *Deserializer) HasUnfinishedData() bool {
	return d.fastPath.hasRemaining() || d.spanning.numGatheredBytes() > 0
}
