package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/avhart/spotify-history-tools/internal/analysis"
)

var (
	reportTopN     int
	reportMinPlays int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generates a structured listening report",
	Long:  `Analyzes the filtered streaming history and prints a YAML report of totals, top artists and tracks, category breakdowns, and skip behavior.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVar(&reportTopN, "top", 20, "Number of entries per ranking")
	reportCmd.Flags().IntVar(&reportMinPlays, "min-plays", 10, "Minimum plays for a track to appear in skip-rate rankings")
}

func runReport() error {
	cfg := loadRunConfig()

	ds, err := loadFiltered(cfg)
	if err != nil {
		return err
	}
	if ds.Len() == 0 {
		fmt.Println("No data to analyze.")
		return nil
	}

	st, err := buildStore(ds, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := analysis.GenerateReport(st, analysis.Options{
		TopN:        reportTopN,
		MinPlays:    reportMinPlays,
		Timezone:    cfg.Timezone,
		HasSkipData: ds.HasColumn("skipped"),
	})
	if err != nil {
		return fmt.Errorf("analyzing data: %w", err)
	}

	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return encoder.Close()
}
