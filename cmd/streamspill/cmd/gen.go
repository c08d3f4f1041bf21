package cmd

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/ssargent/streamspill/pkg/codec"
)

// genCmd represents the gen command
var genCmd = &cobra.Command{
	Use:   "gen <file>",
	Short: "Generate a framed stream file of random records",
	Long: `Generate a stream file of length-prefixed records with pseudo-random
payloads. Useful for exercising the deserializer with cat or relay.

Example:
  streamspill gen stream.bin --count 1000 --min-size 16 --max-size 65536`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		minSize, _ := cmd.Flags().GetInt("min-size")
		maxSize, _ := cmd.Flags().GetInt("max-size")
		seed, _ := cmd.Flags().GetInt64("seed")

		if minSize < 0 || maxSize < minSize {
			return fmt.Errorf("invalid size range [%d, %d]", minSize, maxSize)
		}

		writer, err := codec.NewStreamWriter(codec.StreamWriterConfig{FilePath: args[0]})
		if err != nil {
			return fmt.Errorf("error opening stream file: %w", err)
		}

		rng := rand.New(rand.NewSource(seed))
		var total int64
		for i := 0; i < count; i++ {
			size := minSize
			if maxSize > minSize {
				size += rng.Intn(maxSize - minSize + 1)
			}
			payload := make([]byte, size)
			rng.Read(payload)

			if _, err := writer.Append(payload); err != nil {
				writer.Close()
				return fmt.Errorf("error writing record %d: %w", i, err)
			}
			total += codec.LengthBytes + int64(size)
		}

		if err := writer.Close(); err != nil {
			return fmt.Errorf("error closing stream file: %w", err)
		}

		cmd.Printf("Wrote %d records (%d bytes) to %s\n", count, total, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().Int("count", 100, "Number of records to generate")
	genCmd.Flags().Int("min-size", 16, "Minimum payload size in bytes")
	genCmd.Flags().Int("max-size", 4096, "Maximum payload size in bytes")
	genCmd.Flags().Int64("seed", 1, "Random seed")
}
