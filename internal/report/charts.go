// Package report renders chart artifacts from the aggregated store.
// Each chart is written as a standalone workbook holding the grouped
// data plus an embedded chart. A chart whose source field never made
// it into the dataset is skipped with a warning; the remaining charts
// still render.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/avhart/spotify-history-tools/internal/store"
)

const (
	topTracksN  = 20
	topSkippedN = 50
)

// DailyHistogram charts plays per day.
func DailyHistogram(s *store.Store, dir string) error {
	counts, err := s.CountsBy("day")
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Println("Warning: no timestamped plays, skipping daily histogram.")
		return nil
	}
	path := filepath.Join(dir, "listening_histogram.xlsx")
	if err := writeChart(path, excelize.Col, "Tracks Listened Per Day", "Number of Tracks", counts, nil); err != nil {
		return err
	}
	fmt.Printf("Histogram saved to: %s\n", path)
	return nil
}

// HourlyPattern charts plays by hour of day, bucketed in the
// configured timezone.
func HourlyPattern(s *store.Store, dir, timezone string) error {
	counts, err := s.CountsBy("hour")
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Println("Warning: no timestamped plays, skipping hourly pattern.")
		return nil
	}
	path := filepath.Join(dir, "hourly_listening_pattern.xlsx")
	title := fmt.Sprintf("Listening Patterns by Hour of Day (%s)", timezone)
	if err := writeChart(path, excelize.Col, title, "Number of Tracks", counts, nil); err != nil {
		return err
	}
	fmt.Printf("Hourly pattern saved to: %s\n", path)
	return nil
}

// MonthlyTrend charts plays per month as a line chart.
func MonthlyTrend(s *store.Store, dir string) error {
	counts, err := s.CountsBy("month")
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Println("Warning: no timestamped plays, skipping monthly trend.")
		return nil
	}
	path := filepath.Join(dir, "monthly_listening_trend.xlsx")
	if err := writeChart(path, excelize.Line, "Monthly Listening Trend", "Number of Tracks", counts, nil); err != nil {
		return err
	}
	fmt.Printf("Monthly trend saved to: %s\n", path)
	return nil
}

// TopArtists charts the most-played artists.
func TopArtists(s *store.Store, dir string) error {
	counts, err := s.TopArtists(topTracksN)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Println("Warning: no artist data, skipping top artists chart.")
		return nil
	}
	path := filepath.Join(dir, "top_artists.xlsx")
	title := fmt.Sprintf("Top %d Artists by Play Count", topTracksN)
	if err := writeChart(path, excelize.Bar, title, "Number of Plays", counts, nil); err != nil {
		return err
	}
	fmt.Printf("Top artists chart saved to: %s\n", path)
	return nil
}

// TopTracks charts the most-played tracks ("track - artist" labels).
func TopTracks(s *store.Store, dir string) error {
	counts, err := s.TopTracks(topTracksN)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Println("Warning: no track data, skipping top tracks chart.")
		return nil
	}
	path := filepath.Join(dir, "top_tracks.xlsx")
	title := fmt.Sprintf("Top %d Tracks by Play Count", topTracksN)
	if err := writeChart(path, excelize.Bar, title, "Number of Plays", counts, nil); err != nil {
		return err
	}
	fmt.Printf("Top tracks chart saved to: %s\n", path)
	return nil
}

// SkipAnalysis renders the skip-behavior charts. hasSkipped and
// hasReason describe whether the dataset carried the optional skipped
// and reason_end columns; whichever is absent gets its charts skipped
// with a warning.
func SkipAnalysis(s *store.Store, dir string, hasSkipped, hasReason bool, minPlays int) error {
	if !hasSkipped && !hasReason {
		fmt.Println("Warning: No skip data found in dataset.")
		return nil
	}

	if hasSkipped {
		most, err := s.MostSkipped(topSkippedN)
		if err != nil {
			return err
		}
		if len(most) > 0 {
			path := filepath.Join(dir, "most_skipped_tracks.xlsx")
			title := fmt.Sprintf("Top %d Most Skipped Tracks", topSkippedN)
			if err := writeChart(path, excelize.Bar, title, "Times Skipped", most, nil); err != nil {
				return err
			}
			fmt.Printf("Most skipped tracks chart saved to: %s\n", path)
		}

		least, err := s.SkipRates(minPlays, topSkippedN, true)
		if err != nil {
			return err
		}
		if len(least) > 0 {
			path := filepath.Join(dir, "least_skipped_tracks.xlsx")
			title := fmt.Sprintf("Top %d Least Likely to be Skipped Tracks (min %d plays)", topSkippedN, minPlays)
			if err := writeChart(path, excelize.Bar, title, "Skip Rate", nil, least); err != nil {
				return err
			}
			fmt.Printf("Least skipped tracks chart saved to: %s\n", path)
		}

		likely, err := s.SkipRates(minPlays, topSkippedN, false)
		if err != nil {
			return err
		}
		if len(likely) > 0 {
			path := filepath.Join(dir, "most_likely_skipped_tracks.xlsx")
			title := fmt.Sprintf("Top %d Most Likely to be Skipped Tracks (min %d plays)", topSkippedN, minPlays)
			if err := writeChart(path, excelize.Bar, title, "Skip Rate", nil, likely); err != nil {
				return err
			}
			fmt.Printf("Most likely skipped tracks chart saved to: %s\n", path)
		}
	}

	if hasReason {
		byButton, err := s.SkippedByButton(topSkippedN)
		if err != nil {
			return err
		}
		if len(byButton) > 0 {
			path := filepath.Join(dir, "most_skipped_by_button.xlsx")
			title := fmt.Sprintf("Top %d Most Skipped Tracks (by skip button)", topSkippedN)
			if err := writeChart(path, excelize.Bar, title, "Times Skipped", byButton, nil); err != nil {
				return err
			}
			fmt.Printf("Most skipped tracks (by button) chart saved to: %s\n", path)
		}
	}

	return nil
}

// Pie renders a pie chart over one categorical column. The artifact
// name is derived from the column, the title from the date range.
func Pie(s *store.Store, dir, column, title string) error {
	counts, err := s.CountsBy(column)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Printf("Warning: no %s data, skipping pie chart.\n", column)
		return nil
	}
	path := filepath.Join(dir, column+"_pie_chart.xlsx")
	if err := writeChart(path, excelize.Pie, title, "count", counts, nil); err != nil {
		return err
	}
	fmt.Printf("Pie chart saved to: %s\n", path)
	return nil
}

// writeChart writes one workbook: grouped data on a sheet, chart
// anchored beside it. Exactly one of counts and rates is set.
func writeChart(path string, chartType excelize.ChartType, title, seriesName string, counts []store.LabelCount, rates []store.SkipRate) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Data"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &[]any{"label", seriesName}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	n := len(counts) + len(rates)
	for i, c := range counts {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]any{c.Label, c.Count}); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	for i, r := range rates {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]any{r.Track, r.Rate}); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	chart := &excelize.Chart{
		Type: chartType,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", sheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, n+1),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, n+1),
		}},
		Title: []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{
			Position: "none",
		},
	}
	if chartType == excelize.Pie {
		chart.Legend.Position = "right"
	}

	if err := f.AddChart(sheet, "D2", chart); err != nil {
		return fmt.Errorf("adding chart: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
