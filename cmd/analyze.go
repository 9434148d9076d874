/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avhart/spotify-history-tools/internal/dataset"
	"github.com/avhart/spotify-history-tools/internal/ingest"
	"github.com/avhart/spotify-history-tools/internal/report"
)

var analyzeMinPlays int

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Runs the full analysis pipeline",
	Long: `Ingests the streaming history, applies the configured date-range and
flag filters, and writes CSV snapshots plus one chart workbook per
chart type to the results directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAnalyze(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVar(&analyzeMinPlays, "min-plays", 10, "Minimum plays for a track to appear in skip-rate rankings")
}

func runAnalyze() error {
	fmt.Println(headerStyle.Render("Starting Spotify data analysis..."))
	fmt.Println()

	results := viper.GetString("results")
	if err := os.MkdirAll(results, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	fmt.Printf("Results directory ready: %s\n\n", results)

	cfg := loadRunConfig()

	fmt.Println("Ingesting streaming data...")
	ds, err := ingest.LoadDirectory(viper.GetString("data"))
	if err != nil {
		return err
	}

	combined := filepath.Join(results, "combined_streaming_data.csv")
	if err := ds.WriteCSV(combined); err != nil {
		return err
	}
	fmt.Printf("Combined data saved to: %s\n", combined)

	if ds.Len() == 0 {
		fmt.Println("No data to analyze.")
		return nil
	}
	fmt.Println()

	ds = dataset.FilterByDateRange(ds, cfg.Start, cfg.End, "ts")
	ds = dataset.ApplyFlagFilters(ds, cfg.MinDurationFilter, cfg.MusicOnlyFilter)

	filtered := filepath.Join(results, "filtered_streaming_data.csv")
	if err := ds.WriteCSV(filtered); err != nil {
		return err
	}
	fmt.Printf("Filtered data saved to: %s\n\n", filtered)

	st, err := buildStore(ds, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Println("Generating visualizations...")
	period := cfg.DateRangeLabel()
	charts := []func() error{
		func() error { return report.DailyHistogram(st, results) },
		func() error { return report.HourlyPattern(st, results, cfg.Timezone) },
		func() error { return report.MonthlyTrend(st, results) },
		func() error { return report.TopArtists(st, results) },
		func() error { return report.TopTracks(st, results) },
		func() error {
			return report.SkipAnalysis(st, results, ds.HasColumn("skipped"), ds.HasColumn("reason_end"), analyzeMinPlays)
		},
		func() error { return report.Pie(st, results, "platform", "Listening by Platform from "+period) },
		func() error { return report.Pie(st, results, "conn_country", "Listening by Country from "+period) },
		func() error { return report.Pie(st, results, "reason_end", "Listening by Reason End from "+period) },
	}
	for _, chart := range charts {
		// One failed artifact doesn't abort the rest of the report.
		if err := chart(); err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("Warning: %v", err)))
		}
	}
	fmt.Println()

	if err := printSummary(st, cfg); err != nil {
		return err
	}

	fmt.Println(doneStyle.Render("Analysis complete!"))
	return nil
}

// storeSummary is the slice of the store the summary table needs.
type storeSummary interface {
	TotalPlays() (int64, error)
	DateRange() (time.Time, time.Time, bool, error)
}

func printSummary(st storeSummary, cfg RunConfig) error {
	total, err := st.TotalPlays()
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Total records", strconv.FormatInt(total, 10)},
		{"Period", cfg.DateRangeLabel()},
		{"Timezone", cfg.Timezone},
	}
	if min, max, ok, err := st.DateRange(); err != nil {
		return err
	} else if ok {
		rows = append(rows, []string{
			"Date range in data",
			fmt.Sprintf("%s to %s", min.Format("2006-01-02"), max.Format("2006-01-02")),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Metric", "Value"})
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering summary: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}
	return nil
}
