package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenAndCat(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "streamspill_cli_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	streamFile := filepath.Join(tmpDir, "stream.bin")
	spillDir := filepath.Join(tmpDir, "spill")
	require.NoError(t, os.MkdirAll(spillDir, 0750))

	out, err := execute(t, "gen", streamFile,
		"--count", "50", "--min-size", "1", "--max-size", "2000", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 50 records")
	assert.FileExists(t, streamFile)

	out, err = execute(t, "cat", streamFile,
		"--quiet",
		"--buffer-size", "256",
		"--spill-threshold", "512",
		"--spill-dir", spillDir)
	require.NoError(t, err)
	assert.Contains(t, out, "50 records")

	// Every spill file is deleted once its record is consumed.
	entries, err := os.ReadDir(spillDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCat_MissingFile(t *testing.T) {
	_, err := execute(t, "cat", "/does/not/exist.bin", "--quiet")
	assert.Error(t, err)
}

func TestGen_InvalidSizeRange(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "streamspill_gen_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	_, err = execute(t, "gen", filepath.Join(tmpDir, "s.bin"),
		"--min-size", "100", "--max-size", "10")
	assert.Error(t, err)
}
