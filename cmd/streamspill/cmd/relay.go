package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/streamspill/pkg/frame"
	"github.com/ssargent/streamspill/pkg/relay"
)

// relayCmd represents the relay command
var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Receive a framed stream over TCP and deserialize it",
	Long: `Listen for one TCP connection carrying a framed record stream,
deserialize records as they arrive, and expose Prometheus metrics and stats
over HTTP while running.

Example:
  streamspill relay --listen 127.0.0.1:7420 --metrics-listen 127.0.0.1:7421`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Relay.Listen = listen
		}
		if metricsListen, _ := cmd.Flags().GetString("metrics-listen"); metricsListen != "" {
			cfg.Relay.MetricsListen = metricsListen
		}
		if bufferSize, _ := cmd.Flags().GetInt("buffer-size"); bufferSize > 0 {
			cfg.Relay.BufferSize = bufferSize
		}

		r, err := relay.New(relay.Config{
			Listen:     cfg.Relay.Listen,
			BufferSize: cfg.Relay.BufferSize,
			Frame: frame.Config{
				SpillDirs:      cfg.SpillDirs,
				SpillThreshold: cfg.SpillThreshold,
				MaxRecordSize:  cfg.MaxRecordSize,
			},
		}, nil)
		if err != nil {
			return err
		}
		defer r.Close()

		if err := r.Listen(); err != nil {
			return err
		}
		cmd.Printf("Listening on %s, metrics on %s\n", r.Addr(), cfg.Relay.MetricsListen)

		go func() {
			if err := relay.StartDiagnostics(cfg.Relay.MetricsListen, r); err != nil {
				cmd.PrintErrf("metrics server stopped: %v\n", err)
			}
		}()

		if err := r.Serve(); err != nil {
			return err
		}

		stats := r.Stats()
		cmd.Printf("Stream complete: %d records, %d bytes\n", stats.Records, stats.Bytes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(relayCmd)

	relayCmd.Flags().String("listen", "", "TCP listen address for the stream")
	relayCmd.Flags().String("metrics-listen", "", "HTTP listen address for metrics and stats")
	relayCmd.Flags().Int("buffer-size", 0, "Transport buffer size in bytes")
}
