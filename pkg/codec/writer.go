package codec

import (
	"bufio"
	"os"
	"path/filepath"
)

// StreamWriterConfig holds configuration for the stream writer
type StreamWriterConfig struct {
	FilePath   string // Path to the stream file
	BufferSize int    // Write buffer size, 0 for the bufio default
}

// StreamWriter appends length-prefixed records to a stream file. It is the
// producing side of the wire format, used to build stream files that the
// deserializer consumes.
type StreamWriter struct {
	file   *os.File
	writer *bufio.Writer
	config StreamWriterConfig
	offset int64 // Current write offset
}

// NewStreamWriter creates a new stream writer with the given configuration
func NewStreamWriter(config StreamWriterConfig) (*StreamWriter, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	bufferSize := config.BufferSize
	if bufferSize <= 0 {
		bufferSize = 4096
	}

	return &StreamWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, bufferSize),
		config: config,
		offset: stat.Size(),
	}, nil
}

// Append writes one record to the stream and returns the offset at which its
// length prefix starts.
func (w *StreamWriter) Append(payload []byte) (int64, error) {
	recordOffset := w.offset

	n, err := WriteFrame(w.writer, payload)
	w.offset += n
	if err != nil {
		return recordOffset, err
	}

	return recordOffset, nil
}

// Sync flushes buffered records and fsyncs the file
func (w *StreamWriter) Sync() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	return w.file.Sync()
}

// Size returns the current size of the stream file including buffered bytes
func (w *StreamWriter) Size() int64 {
	return w.offset
}

// Path returns the file path
func (w *StreamWriter) Path() string {
	return w.config.FilePath
}

// Close flushes outstanding records and closes the stream writer
func (w *StreamWriter) Close() error {
	if err := w.Sync(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
