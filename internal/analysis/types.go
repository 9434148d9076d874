package analysis

// Report is the top-level structure for the listening report.
type Report struct {
	Metadata   ReportMetadata `yaml:"metadata"`
	TopArtists []PlayStat     `yaml:"top_artists"`
	TopTracks  []PlayStat     `yaml:"top_tracks"`
	Platforms  []PlayStat     `yaml:"platforms,omitempty"`
	Countries  []PlayStat     `yaml:"countries,omitempty"`
	EndReasons []PlayStat     `yaml:"end_reasons,omitempty"`
	SkipStats  *SkipStats     `yaml:"skip_stats,omitempty"`
}

type ReportMetadata struct {
	GeneratedDate string `yaml:"generated_date"`
	TotalPlays    int64  `yaml:"total_plays"`
	DateRange     string `yaml:"date_range"`
	Timezone      string `yaml:"timezone"`
}

type PlayStat struct {
	Name  string `yaml:"name"`
	Plays int64  `yaml:"plays"`
}

type SkipStats struct {
	MostSkipped []PlayStat     `yaml:"most_skipped"`
	LeastLikely []SkipRateStat `yaml:"least_likely_skipped"`
	MostLikely  []SkipRateStat `yaml:"most_likely_skipped"`
	MinPlays    int            `yaml:"min_plays"`
}

type SkipRateStat struct {
	Track string  `yaml:"track"`
	Plays int64   `yaml:"plays"`
	Rate  float64 `yaml:"skip_rate"`
}
