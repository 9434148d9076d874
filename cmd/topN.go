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
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	limitArtists int
	limitTracks  int
	topNMinPlays int
)

var topNCmd = &cobra.Command{
	Use:   "top-n [from] [to (optional)]",
	Short: "Generates a textual summary of listening history",
	Long: `Prints top artists, top tracks and skip-rate rankings for the filtered
dataset. Optional date arguments ('2023', '2023-06' or '2023-06-01',
with an optional second bound) override the environment date range.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := printTopN(os.Stdout, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topNCmd)
	topNCmd.Flags().IntVar(&limitArtists, "artists", 10, "Number of top artists to show")
	topNCmd.Flags().IntVar(&limitTracks, "tracks", 10, "Number of top tracks to show")
	topNCmd.Flags().IntVar(&topNMinPlays, "min-plays", 10, "Minimum plays for a track to appear in skip-rate rankings")
}

func printTopN(out io.Writer, args []string) error {
	cfg := loadRunConfig()
	if len(args) > 0 {
		start, end, err := parseDateRangeFromArgs(args)
		if err != nil {
			return err
		}
		cfg.Year = 0
		cfg.Start = &start
		cfg.End = &end
	}

	ds, err := loadFiltered(cfg)
	if err != nil {
		return err
	}
	if ds.Len() == 0 {
		fmt.Fprintln(out, "No data to analyze.")
		return nil
	}

	st, err := buildStore(ds, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	total, err := st.TotalPlays()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Listening Report\n")
	fmt.Fprintf(out, "Period: %s\n", cfg.DateRangeLabel())
	fmt.Fprintf(out, "Total Plays: %d\n\n", total)

	if limitArtists > 0 {
		artists, err := st.TopArtists(limitArtists)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "## Top %d Artists\n", limitArtists)
		table := tablewriter.NewWriter(out)
		table.Header([]string{"#", "Artist", "Plays"})
		for i, a := range artists {
			row := []string{strconv.Itoa(i + 1), a.Label, strconv.FormatInt(a.Count, 10)}
			if err := table.Append(row); err != nil {
				return fmt.Errorf("rendering artists: %w", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("rendering artists: %w", err)
		}
		fmt.Fprintln(out)
	}

	if limitTracks > 0 {
		tracks, err := st.TopTracks(limitTracks)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "## Top %d Tracks\n", limitTracks)
		table := tablewriter.NewWriter(out)
		table.Header([]string{"#", "Track - Artist", "Plays"})
		for i, t := range tracks {
			row := []string{strconv.Itoa(i + 1), t.Label, strconv.FormatInt(t.Count, 10)}
			if err := table.Append(row); err != nil {
				return fmt.Errorf("rendering tracks: %w", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("rendering tracks: %w", err)
		}
		fmt.Fprintln(out)
	}

	if ds.HasColumn("skipped") {
		rates, err := st.SkipRates(topNMinPlays, limitTracks, false)
		if err != nil {
			return err
		}
		if len(rates) > 0 {
			fmt.Fprintf(out, "## Most Skipped Tracks (min %d plays)\n", topNMinPlays)
			table := tablewriter.NewWriter(out)
			table.Header([]string{"Track - Artist", "Plays", "Skip Rate"})
			for _, r := range rates {
				row := []string{r.Track, strconv.FormatInt(r.Plays, 10), fmt.Sprintf("%.0f%%", r.Rate*100)}
				if err := table.Append(row); err != nil {
					return fmt.Errorf("rendering skip rates: %w", err)
				}
			}
			if err := table.Render(); err != nil {
				return fmt.Errorf("rendering skip rates: %w", err)
			}
			fmt.Fprintln(out)
		}
	}

	return nil
}
