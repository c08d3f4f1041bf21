package cmd

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/streamspill/pkg/buffer"
	"github.com/ssargent/streamspill/pkg/codec"
	"github.com/ssargent/streamspill/pkg/frame"
)

// catCmd represents the cat command
var catCmd = &cobra.Command{
	Use:   "cat <file>",
	Short: "Read a framed stream file through the deserializer",
	Long: `Read a stream file in fixed-size chunks and drive the deserialization
engine exactly as a network transport would, printing one line per record.

Example:
  streamspill cat stream.bin --buffer-size 32768 --spill-threshold 1048576`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		bufferSize, _ := cmd.Flags().GetInt("buffer-size")
		quiet, _ := cmd.Flags().GetBool("quiet")
		if threshold, _ := cmd.Flags().GetInt("spill-threshold"); threshold > 0 {
			cfg.SpillThreshold = threshold
		}
		if dirs, _ := cmd.Flags().GetStringSlice("spill-dir"); len(dirs) > 0 {
			cfg.SpillDirs = dirs
		}

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("error opening stream file: %w", err)
		}
		defer file.Close()

		deserializer, err := frame.New(frame.Config{
			SpillDirs:      cfg.SpillDirs,
			SpillThreshold: cfg.SpillThreshold,
			MaxRecordSize:  cfg.MaxRecordSize,
		})
		if err != nil {
			return err
		}
		defer deserializer.Clear()

		var count int
		var total int64
		for {
			segment := make([]byte, bufferSize)
			n, readErr := file.Read(segment)
			if n > 0 {
				if err := deserializer.SetNextBuffer(buffer.New(segment, 0, n)); err != nil {
					return err
				}
				for {
					var record codec.RawRecord
					result, err := deserializer.GetNextRecord(&record)
					if err != nil {
						return err
					}
					if !result.IsFullRecord() {
						break
					}
					count++
					total += int64(record.Size())
					if !quiet {
						cmd.Printf("record %d: %d bytes crc32 %08x\n",
							count, record.Size(), crc32.ChecksumIEEE(record.Data))
					}
				}
				deserializer.GetCurrentBuffer()
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				return readErr
			}
		}

		if deserializer.HasUnfinishedData() {
			return fmt.Errorf("stream ended in the middle of a record")
		}

		cmd.Printf("%d records, %d payload bytes\n", count, total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catCmd)

	catCmd.Flags().Int("buffer-size", 32*1024, "Transport buffer size in bytes")
	catCmd.Flags().Int("spill-threshold", 0, "Record size above which to spill to disk")
	catCmd.Flags().StringSlice("spill-dir", nil, "Directories for spill files")
	catCmd.Flags().Bool("quiet", false, "Only print the final summary")
}
