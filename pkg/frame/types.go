package frame

import "fmt"

// Result reports the outcome of a deserialization attempt and drives the
// consumer's loop: keep calling GetNextRecord until PartialRecord, then feed
// the next buffer.
type Result int

const (
	// PartialRecord means the current data ended mid-record; more buffers
	// are needed before a record can be produced.
	PartialRecord Result = iota

	// IntermediateRecordFromBuffer means a record was decoded and unread
	// bytes remain in the current buffer.
	IntermediateRecordFromBuffer

	// LastRecordFromBuffer means a record was decoded and the current
	// buffer is fully consumed.
	LastRecordFromBuffer
)

// IsFullRecord reports whether a record was decoded.
func (r Result) IsFullRecord() bool {
	return r != PartialRecord
}

// IsBufferConsumed reports whether the current buffer holds no more
// readable bytes.
func (r Result) IsBufferConsumed() bool {
	return r != IntermediateRecordFromBuffer
}

func (r Result) String() string {
	switch r {
	case PartialRecord:
		return "PartialRecord"
	case IntermediateRecordFromBuffer:
		return "IntermediateRecordFromBuffer"
	case LastRecordFromBuffer:
		return "LastRecordFromBuffer"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

const (
	// DefaultSpillThreshold is the record size above which accumulation
	// moves from memory to a temporary file.
	DefaultSpillThreshold = 5 * 1024 * 1024

	// DefaultMaxRecordSize bounds the length prefix a stream may declare.
	// Anything larger is treated as stream corruption.
	DefaultMaxRecordSize = 256 * 1024 * 1024
)

// Config holds configuration for a Deserializer
type Config struct {
	SpillDirs      []string // Directories for spill files, rotated per spilled record
	SpillThreshold int      // Record size in bytes above which to spill, 0 = default
	MaxRecordSize  int      // Largest acceptable declared record size, 0 = default, negative = unbounded
}

// Errors
var (
	ErrNoSpillDirectories = &FrameError{"no spill directories configured"}
	ErrRecordTooLarge     = &FrameError{"record length exceeds configured maximum"}
)

// FrameError represents a framing-layer error
type FrameError struct {
	Message string
}

func (e *FrameError) Error() string {
	return e.Message
}

func checkRecordLength(length, maxRecordSize int) error {
	if maxRecordSize > 0 && length > maxRecordSize {
		return fmt.Errorf("declared record length %d: %w", length, ErrRecordTooLarge)
	}
	return nil
}
