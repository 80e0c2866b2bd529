package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Iron-Ham/docreview/internal/config"
	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Download the progress log",
	Long: `Download the service's progress log (CSV of every finished document).

Examples:
  # Print the CSV
  docreview progress

  # Save it to a file
  docreview progress -o progress_log.csv

  # Count documents per status
  docreview progress --summary`,
	Args: cobra.NoArgs,
	RunE: runProgress,
}

var (
	progressOutput  string
	progressSummary bool
)

func init() {
	rootCmd.AddCommand(progressCmd)

	progressCmd.Flags().StringVarP(&progressOutput, "output", "o", "", "Write the CSV to this file instead of stdout")
	progressCmd.Flags().BoolVar(&progressSummary, "summary", false, "Print counts per status instead of the CSV")
}

func runProgress(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := callContext(cmd.Context(), cfg)
	defer cancel()

	data, err := client.ProgressLog(ctx)
	if err != nil {
		return fmt.Errorf("downloading progress log: %w", err)
	}

	if progressSummary {
		entries, err := docservice.ParseProgressLog(data)
		if err != nil {
			return err
		}
		return printSummary(cmd, entries)
	}

	if progressOutput != "" {
		if err := os.WriteFile(progressOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing to %s: %w", progressOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Progress log saved to %s (%d bytes)\n", progressOutput, len(data))
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func printSummary(cmd *cobra.Command, entries []docservice.ProgressEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tCOUNT")
	finished := 0
	for _, e := range entries {
		if e.Finished() {
			finished++
		}
	}
	for _, c := range docservice.SummarizeProgress(entries) {
		fmt.Fprintf(w, "%s\t%d\n", c.Status, c.Count)
	}
	fmt.Fprintf(w, "total\t%d\n", len(entries))
	fmt.Fprintf(w, "finished\t%d\n", finished)
	return w.Flush()
}
