package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/streamspill/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streamspill",
	Short: "streamspill - record framing over transport buffers",
	Long: `streamspill reassembles length-prefixed records from fixed-size
transport buffers, spilling abnormally large records to disk instead of
holding them in memory.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
}

// loadConfig resolves the effective configuration: the file named by --config
// when given, otherwise defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}
