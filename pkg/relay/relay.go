package relay

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/ssargent/streamspill/pkg/buffer"
	"github.com/ssargent/streamspill/pkg/codec"
	"github.com/ssargent/streamspill/pkg/frame"
)

// RecordHandler is invoked for every record deserialized from the stream.
type RecordHandler func(record *codec.RawRecord)

// Config holds configuration for the relay
type Config struct {
	Listen     string       // TCP listen address
	BufferSize int          // Size of the transport buffers read from the connection
	Frame      frame.Config // Deserialization engine configuration
}

// Stats describes the relay's progress so far
type Stats struct {
	Records    uint64 `json:"records"`
	Bytes      uint64 `json:"bytes"`
	Partial    bool   `json:"partial"` // true while a record is in progress
	Connected  bool   `json:"connected"`
	RemoteAddr string `json:"remote_addr,omitempty"`
}

// Relay accepts a single TCP connection carrying a framed record stream and
// drives the deserialization engine exactly as a transport would: fixed-size
// buffers in, decoded records out.
type Relay struct {
	config       Config
	deserializer *frame.Deserializer
	handler      RecordHandler
	listener     net.Listener

	mutex sync.Mutex
	stats Stats
}

// New creates a relay. The handler may be nil if only stats are wanted.
func New(config Config, handler RecordHandler) (*Relay, error) {
	if config.BufferSize <= 0 {
		config.BufferSize = 32 * 1024
	}

	deserializer, err := frame.New(config.Frame)
	if err != nil {
		return nil, err
	}

	return &Relay{
		config:       config,
		deserializer: deserializer,
		handler:      handler,
	}, nil
}

// Listen binds the TCP listener. Call before Serve so that Addr is valid.
func (r *Relay) Listen() error {
	listener, err := net.Listen("tcp", r.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", r.config.Listen, err)
	}
	r.listener = listener
	return nil
}

// Addr returns the bound listen address.
func (r *Relay) Addr() net.Addr {
	if r.listener == nil {
		return nil
	}
	return r.listener.Addr()
}

// Serve accepts one connection and consumes its stream until EOF or error.
func (r *Relay) Serve() error {
	conn, err := r.listener.Accept()
	if err != nil {
		return err
	}
	defer conn.Close()

	r.mutex.Lock()
	r.stats.Connected = true
	r.stats.RemoteAddr = conn.RemoteAddr().String()
	r.mutex.Unlock()

	err = r.consume(conn)

	r.mutex.Lock()
	r.stats.Connected = false
	r.mutex.Unlock()

	return err
}

// consume reads fixed-size transport buffers from src and feeds them to the
// deserializer until the stream ends.
func (r *Relay) consume(src io.Reader) error {
	for {
		segment := make([]byte, r.config.BufferSize)
		n, readErr := src.Read(segment)
		if n > 0 {
			if err := r.feed(segment[:n]); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			if r.deserializer.HasUnfinishedData() {
				r.deserializer.Clear()
				return fmt.Errorf("stream ended in the middle of a record")
			}
			return nil
		}
		if readErr != nil {
			r.deserializer.Clear()
			return readErr
		}
	}
}

func (r *Relay) feed(data []byte) error {
	if err := r.deserializer.SetNextBuffer(buffer.Wrap(data)); err != nil {
		return err
	}

	for {
		var record codec.RawRecord
		result, err := r.deserializer.GetNextRecord(&record)
		if err != nil {
			return err
		}
		if !result.IsFullRecord() {
			break
		}

		r.mutex.Lock()
		r.stats.Records++
		r.stats.Bytes += uint64(codec.LengthBytes + record.Size())
		r.mutex.Unlock()

		if r.handler != nil {
			r.handler(&record)
		}
	}

	// Release the engine's reference; the segment is garbage collected.
	r.deserializer.GetCurrentBuffer()

	r.mutex.Lock()
	r.stats.Partial = r.deserializer.HasUnfinishedData()
	r.mutex.Unlock()
	return nil
}

// Stats returns a snapshot of the relay's progress.
func (r *Relay) Stats() Stats {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.stats
}

// Close stops the listener.
func (r *Relay) Close() error {
	if r.listener == nil {
		return nil
	}
	return r.listener.Close()
}
