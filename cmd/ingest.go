package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avhart/spotify-history-tools/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingests the export files and writes the combined CSV snapshot",
	Long:  `Reads every JSON export in the data directory, merges them, and writes the combined CSV without filtering or charting.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runIngest(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest() error {
	ds, err := ingest.LoadDirectory(viper.GetString("data"))
	if err != nil {
		return err
	}
	if ds.Len() == 0 {
		fmt.Println("No data to analyze.")
		return nil
	}

	results := viper.GetString("results")
	if err := os.MkdirAll(results, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	out := filepath.Join(results, "combined_streaming_data.csv")
	if err := ds.WriteCSV(out); err != nil {
		return err
	}
	fmt.Printf("Combined data saved to: %s\n", out)
	fmt.Printf("Shape: (%d, %d)\n", ds.Len(), len(ds.Columns()))
	return nil
}
