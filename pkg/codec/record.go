package codec

import (
	"fmt"
	"io"
)

// RawRecord is a Deserializable that captures a record's payload bytes
// verbatim. It is the target type used by the CLI and by tests; applications
// normally supply their own Deserializable.
type RawRecord struct {
	Data []byte
}

// DecodeFrom reads the entire bounded view into Data.
func (r *RawRecord) DecodeFrom(src io.Reader) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("error reading record payload: %w", err)
	}
	r.Data = data
	return nil
}

// Size returns the payload length in bytes.
func (r *RawRecord) Size() int {
	return len(r.Data)
}
