package frame

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"
)

// spillDirectories hands out temporary files for spilled records, rotating
// round-robin across the configured directories to spread disk I/O.
type spillDirectories struct {
	dirs []string
	next int
}

func newSpillDirectories(dirs []string) (*spillDirectories, error) {
	if len(dirs) == 0 {
		return nil, ErrNoSpillDirectories
	}
	return &spillDirectories{dirs: dirs}, nil
}

// createFile opens a fresh spill file in the next directory in rotation.
// The caller owns the file and is responsible for deleting it.
func (s *spillDirectories) createFile() (*os.File, string, error) {
	dir := s.dirs[s.next%len(s.dirs)]
	s.next++

	path := filepath.Join(dir, fmt.Sprintf("record-%s.spill", ksuid.New().String()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_EXCL, 0600)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create spill file: %w", err)
	}
	return file, path, nil
}
