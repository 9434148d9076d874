// Package analysis builds the structured listening report from the
// per-run store.
package analysis

import (
	"fmt"
	"time"

	"github.com/avhart/spotify-history-tools/internal/store"
)

// Options controls report depth. Zero values fall back to defaults.
type Options struct {
	TopN     int
	MinPlays int
	Timezone string

	// The skipped column is optional in the exports; when the dataset
	// never carried it, skip stats are omitted rather than reported as
	// all-zero.
	HasSkipData bool
}

func (o *Options) applyDefaults() {
	if o.TopN <= 0 {
		o.TopN = 20
	}
	if o.MinPlays <= 0 {
		o.MinPlays = 10
	}
}

// GenerateReport assembles the full listening report.
func GenerateReport(s *store.Store, opts Options) (*Report, error) {
	opts.applyDefaults()

	total, err := s.TotalPlays()
	if err != nil {
		return nil, fmt.Errorf("getting total plays: %w", err)
	}

	dateRange := "no timestamped plays"
	if min, max, ok, err := s.DateRange(); err != nil {
		return nil, fmt.Errorf("getting date range: %w", err)
	} else if ok {
		dateRange = fmt.Sprintf("%s to %s", min.Format("2006-01-02"), max.Format("2006-01-02"))
	}

	report := &Report{
		Metadata: ReportMetadata{
			GeneratedDate: time.Now().Format("2006-01-02"),
			TotalPlays:    total,
			DateRange:     dateRange,
			Timezone:      opts.Timezone,
		},
	}

	artists, err := s.TopArtists(opts.TopN)
	if err != nil {
		return nil, fmt.Errorf("top artists: %w", err)
	}
	report.TopArtists = toPlayStats(artists)

	tracks, err := s.TopTracks(opts.TopN)
	if err != nil {
		return nil, fmt.Errorf("top tracks: %w", err)
	}
	report.TopTracks = toPlayStats(tracks)

	for _, g := range []struct {
		column string
		dest   *[]PlayStat
	}{
		{"platform", &report.Platforms},
		{"conn_country", &report.Countries},
		{"reason_end", &report.EndReasons},
	} {
		counts, err := s.CountsBy(g.column)
		if err != nil {
			return nil, fmt.Errorf("grouping by %s: %w", g.column, err)
		}
		*g.dest = toPlayStats(counts)
	}

	if opts.HasSkipData {
		skipStats, err := buildSkipStats(s, opts)
		if err != nil {
			return nil, err
		}
		report.SkipStats = skipStats
	}

	return report, nil
}

func buildSkipStats(s *store.Store, opts Options) (*SkipStats, error) {
	most, err := s.MostSkipped(opts.TopN)
	if err != nil {
		return nil, fmt.Errorf("most skipped: %w", err)
	}

	least, err := s.SkipRates(opts.MinPlays, opts.TopN, true)
	if err != nil {
		return nil, fmt.Errorf("least likely skipped: %w", err)
	}

	likely, err := s.SkipRates(opts.MinPlays, opts.TopN, false)
	if err != nil {
		return nil, fmt.Errorf("most likely skipped: %w", err)
	}

	return &SkipStats{
		MostSkipped: toPlayStats(most),
		LeastLikely: toSkipRateStats(least),
		MostLikely:  toSkipRateStats(likely),
		MinPlays:    opts.MinPlays,
	}, nil
}

func toPlayStats(counts []store.LabelCount) []PlayStat {
	stats := make([]PlayStat, 0, len(counts))
	for _, c := range counts {
		stats = append(stats, PlayStat{Name: c.Label, Plays: c.Count})
	}
	return stats
}

func toSkipRateStats(rates []store.SkipRate) []SkipRateStat {
	stats := make([]SkipRateStat, 0, len(rates))
	for _, r := range rates {
		stats = append(stats, SkipRateStat{Track: r.Track, Plays: r.Plays, Rate: r.Rate})
	}
	return stats
}
