package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RunConfig is the explicit pipeline configuration assembled from the
// environment before anything runs.
type RunConfig struct {
	Timezone          string
	Year              int // 0 when unset
	Start             *time.Time
	End               *time.Time
	MinDurationFilter bool
	MusicOnlyFilter   bool
}

// loadRunConfig reads the environment-backed viper keys. A YEAR value
// overrides explicit START_DATE/END_DATE; an invalid date string is
// warned about and that bound is dropped, the run continues.
func loadRunConfig() RunConfig {
	cfg := RunConfig{Timezone: viper.GetString("timezone")}

	if yearStr := viper.GetString("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			fmt.Println(warnStyle.Render("Warning: Invalid YEAR format. Use YYYY format."))
		} else {
			cfg.Year = year
			start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
			cfg.Start = &start
			cfg.End = &end
			fmt.Printf("Analyzing year: %d\n", year)
		}
	}

	if cfg.Year == 0 {
		if s := viper.GetString("start_date"); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				fmt.Println(warnStyle.Render("Warning: Invalid START_DATE format. Use YYYY-MM-DD format."))
			} else {
				cfg.Start = &t
				fmt.Printf("Start date: %s\n", t.Format("2006-01-02"))
			}
		}
		if s := viper.GetString("end_date"); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				fmt.Println(warnStyle.Render("Warning: Invalid END_DATE format. Use YYYY-MM-DD format."))
			} else {
				cfg.End = &t
				fmt.Printf("End date: %s\n", t.Format("2006-01-02"))
			}
		}
	}

	if cfg.Start != nil || cfg.End != nil {
		fmt.Printf("Timezone: %s\n", cfg.Timezone)
	}

	cfg.MinDurationFilter = truthy(viper.GetString("spotify_defined_play"))
	cfg.MusicOnlyFilter = truthy(viper.GetString("music_only_mode"))
	return cfg
}

// DateRangeLabel is the human-readable period used in chart titles.
func (c RunConfig) DateRangeLabel() string {
	if c.Start != nil && c.End != nil {
		return fmt.Sprintf("%s to %s", c.Start.Format("2006-01-02"), c.End.Format("2006-01-02"))
	}
	return "All available data"
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "t":
		return true
	}
	return false
}

// loadLocation resolves the configured IANA zone, falling back to UTC
// with a warning so a bad TIMEZONE never aborts the run.
func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Warning: unknown timezone %q, using UTC.", name)))
		return time.UTC
	}
	return loc
}
