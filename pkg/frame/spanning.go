package frame

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ssargent/streamspill/pkg/codec"
)

// spanningAccumulator gathers the bytes of a record that does not fit in one
// transport buffer. The length prefix may itself arrive split across buffers,
// so up to four bytes are staged until the prefix is complete. Body bytes
// accumulate in memory until the declared record length crosses the spill
// threshold, after which they go to a temporary file.
type spanningAccumulator struct {
	lengthBuf   [codec.LengthBytes]byte
	lengthBytes int // staged prefix bytes, meaningful while targetLength < 0

	targetLength  int // declared body length, -1 until the prefix is complete
	bytesGathered int // body bytes collected so far

	inMem bytes.Buffer

	spill       *spillDirectories
	spillFile   *os.File
	spillWriter *bufio.Writer
	spillPath   string

	// Bytes beyond the record's end from the chunk that completed it.
	// They belong to the next record and are handed back to the fast path.
	leftover []byte

	threshold     int
	maxRecordSize int
	metrics       *Metrics
}

func newSpanningAccumulator(spill *spillDirectories, threshold, maxRecordSize int, metrics *Metrics) *spanningAccumulator {
	return &spanningAccumulator{
		targetLength:  -1,
		spill:         spill,
		threshold:     threshold,
		maxRecordSize: maxRecordSize,
		metrics:       metrics,
	}
}

// numGatheredBytes counts every byte held for the in-progress record,
// including staged or completed length-prefix bytes. Non-zero means a record
// is in progress and new buffers must be routed here.
func (s *spanningAccumulator) numGatheredBytes() int {
	if s.targetLength >= 0 {
		return codec.LengthBytes + s.bytesGathered
	}
	return s.lengthBytes
}

func (s *spanningAccumulator) hasFullRecord() bool {
	return s.targetLength >= 0 && s.bytesGathered == s.targetLength
}

func (s *spanningAccumulator) spilled() bool {
	return s.spillFile != nil
}

// initWithKnownLength starts accumulation for a record whose length prefix
// the fast path already parsed but whose body was cut short. body holds the
// bytes after the prefix, always fewer than length.
func (s *spanningAccumulator) initWithKnownLength(length int, body []byte) error {
	s.targetLength = length
	if err := s.maybeSpill(); err != nil {
		return err
	}
	return s.appendBody(body)
}

// initWithPartialHeader stages a remainder too short to contain a complete
// length prefix.
func (s *spanningAccumulator) initWithPartialHeader(data []byte) {
	s.lengthBytes = copy(s.lengthBuf[:], data)
}

// addNextChunk consumes the bytes of a freshly fed buffer. It completes the
// staged length prefix first if necessary, then appends body bytes up to the
// record's declared length. Bytes past the record's end are retained as
// leftover for the fast path.
func (s *spanningAccumulator) addNextChunk(chunk []byte) error {
	if s.targetLength < 0 {
		n := copy(s.lengthBuf[s.lengthBytes:], chunk)
		s.lengthBytes += n
		chunk = chunk[n:]
		if s.lengthBytes < codec.LengthBytes {
			return nil
		}

		length := codec.Length(s.lengthBuf[:])
		if err := checkRecordLength(length, s.maxRecordSize); err != nil {
			return err
		}
		s.targetLength = length
		if err := s.maybeSpill(); err != nil {
			return err
		}
	}
	return s.appendBody(chunk)
}

func (s *spanningAccumulator) appendBody(chunk []byte) error {
	needed := s.targetLength - s.bytesGathered
	take := len(chunk)
	if take > needed {
		take = needed
	}
	part := chunk[:take]

	if s.spilled() {
		if _, err := s.spillWriter.Write(part); err != nil {
			return fmt.Errorf("failed to write to spill file %s: %w", s.spillPath, err)
		}
		s.metrics.RecordSpilledBytes(take)
	} else {
		s.inMem.Write(part)
	}
	s.bytesGathered += take
	s.metrics.SetGatheredBytes(s.numGatheredBytes())

	if take < len(chunk) {
		s.leftover = chunk[take:]
	}
	return nil
}

// maybeSpill moves accumulation to a temporary file once the declared record
// length exceeds the in-memory threshold. Any bytes gathered so far are
// flushed to the file so the backing store stays in original byte order.
func (s *spanningAccumulator) maybeSpill() error {
	if s.spilled() || s.targetLength <= s.threshold {
		return nil
	}

	file, path, err := s.spill.createFile()
	if err != nil {
		return err
	}
	s.spillFile = file
	s.spillPath = path
	s.spillWriter = bufio.NewWriter(file)
	s.metrics.RecordSpillCreated()

	if s.inMem.Len() > 0 {
		if _, err := s.spillWriter.Write(s.inMem.Bytes()); err != nil {
			return fmt.Errorf("failed to flush gathered bytes to spill file %s: %w", path, err)
		}
		s.metrics.RecordSpilledBytes(s.inMem.Len())
		s.inMem.Reset()
	}
	return nil
}

// recordView returns a sequential reader over the complete record body,
// identical for both backing stores. Valid only when hasFullRecord.
func (s *spanningAccumulator) recordView() (io.Reader, error) {
	if !s.spilled() {
		return bytes.NewReader(s.inMem.Bytes()), nil
	}

	if err := s.spillWriter.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush spill file %s: %w", s.spillPath, err)
	}
	if _, err := s.spillFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind spill file %s: %w", s.spillPath, err)
	}
	return bufio.NewReader(io.LimitReader(s.spillFile, int64(s.targetLength))), nil
}

// transferLeftoverTo resets the accumulator after its record was decoded and
// re-initializes the fast path with any bytes that belong to the next record.
func (s *spanningAccumulator) transferLeftoverTo(fast *fastPathReader) error {
	leftover := s.leftover
	if err := s.reset(); err != nil {
		return err
	}
	if len(leftover) > 0 {
		fast.initFrom(leftover, 0, len(leftover))
	}
	return nil
}

// unconsumedBytes reconstructs the in-memory portion of the in-progress
// record as stream bytes: the length prefix (staged or re-encoded) followed
// by the gathered body. A spilled body is not re-materialized, so the view is
// best-effort once a spill has happened.
func (s *spanningAccumulator) unconsumedBytes() []byte {
	if s.targetLength < 0 {
		if s.lengthBytes == 0 {
			return nil
		}
		out := make([]byte, s.lengthBytes)
		copy(out, s.lengthBuf[:s.lengthBytes])
		return out
	}

	if s.spilled() {
		return nil
	}

	out := make([]byte, codec.LengthBytes+s.inMem.Len())
	codec.PutLength(out, s.targetLength)
	copy(out[codec.LengthBytes:], s.inMem.Bytes())
	return out
}

// reset discards all in-progress state and deletes any spill file.
func (s *spanningAccumulator) reset() error {
	s.lengthBytes = 0
	s.targetLength = -1
	s.bytesGathered = 0
	s.inMem.Reset()
	s.leftover = nil
	s.metrics.SetGatheredBytes(0)

	if s.spillFile == nil {
		return nil
	}

	closeErr := s.spillFile.Close()
	removeErr := os.Remove(s.spillPath)
	path := s.spillPath
	s.spillFile = nil
	s.spillWriter = nil
	s.spillPath = ""
	s.metrics.RecordSpillDeleted()

	if closeErr != nil {
		return fmt.Errorf("failed to close spill file %s: %w", path, closeErr)
	}
	if removeErr != nil {
		return fmt.Errorf("failed to delete spill file %s: %w", path, removeErr)
	}
	return nil
}

// clear is reset without error reporting, for cancellation paths.
func (s *spanningAccumulator) clear() {
	_ = s.reset()
}
