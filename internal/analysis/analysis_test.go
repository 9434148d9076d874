package analysis

import (
	"testing"
	"time"

	"github.com/avhart/spotify-history-tools/internal/dataset"
	"github.com/avhart/spotify-history-tools/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	d := dataset.New()
	base := time.Date(2023, time.March, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		d.Append(dataset.Record{
			"ts":                                base.AddDate(0, 0, i).Format(time.RFC3339),
			"master_metadata_album_artist_name": "Caribou",
			"master_metadata_track_name":        "Odessa",
			"platform":                          "android",
			"conn_country":                      "US",
			"reason_end":                        "trackdone",
			"skipped":                           i < 3,
		})
	}
	d.Append(dataset.Record{
		"ts":                                base.AddDate(0, 1, 0).Format(time.RFC3339),
		"master_metadata_album_artist_name": "Four Tet",
		"master_metadata_track_name":        "Baby",
		"platform":                          "osx",
		"conn_country":                      "US",
		"reason_end":                        "fwdbtn",
		"skipped":                           true,
	})

	s, err := store.New()
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.InsertDataset(d, time.UTC); err != nil {
		t.Fatalf("InsertDataset: %v", err)
	}
	return s
}

func TestGenerateReport(t *testing.T) {
	s := setupTestStore(t)

	report, err := GenerateReport(s, Options{
		TopN:        10,
		MinPlays:    10,
		Timezone:    "UTC",
		HasSkipData: true,
	})
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	if report.Metadata.TotalPlays != 13 {
		t.Errorf("TotalPlays = %d, want 13", report.Metadata.TotalPlays)
	}
	if report.Metadata.DateRange != "2023-03-01 to 2023-04-01" {
		t.Errorf("DateRange = %q", report.Metadata.DateRange)
	}

	if len(report.TopArtists) != 2 {
		t.Fatalf("TopArtists len = %d, want 2", len(report.TopArtists))
	}
	if report.TopArtists[0].Name != "Caribou" || report.TopArtists[0].Plays != 12 {
		t.Errorf("top artist = %+v, want Caribou/12", report.TopArtists[0])
	}

	if len(report.Platforms) != 2 {
		t.Errorf("Platforms len = %d, want 2", len(report.Platforms))
	}
	if len(report.Countries) != 1 || report.Countries[0].Name != "US" {
		t.Errorf("Countries = %+v, want only US", report.Countries)
	}

	if report.SkipStats == nil {
		t.Fatal("SkipStats = nil, want populated")
	}
	// Only Caribou's track clears the 10-play threshold.
	if len(report.SkipStats.MostLikely) != 1 {
		t.Fatalf("MostLikely len = %d, want 1", len(report.SkipStats.MostLikely))
	}
	likely := report.SkipStats.MostLikely[0]
	if likely.Track != "Odessa - Caribou" || likely.Plays != 12 || likely.Rate != 0.25 {
		t.Errorf("MostLikely[0] = %+v, want Odessa - Caribou 12 plays rate 0.25", likely)
	}
}

func TestGenerateReportWithoutSkipData(t *testing.T) {
	s := setupTestStore(t)

	report, err := GenerateReport(s, Options{Timezone: "UTC", HasSkipData: false})
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if report.SkipStats != nil {
		t.Error("SkipStats should be omitted when the dataset has no skipped column")
	}
}

func TestGenerateReportEmptyStore(t *testing.T) {
	s, err := store.New()
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer s.Close()
	if err := s.InsertDataset(dataset.New(), time.UTC); err != nil {
		t.Fatalf("InsertDataset: %v", err)
	}

	report, err := GenerateReport(s, Options{Timezone: "UTC"})
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if report.Metadata.TotalPlays != 0 {
		t.Errorf("TotalPlays = %d, want 0", report.Metadata.TotalPlays)
	}
	if report.Metadata.DateRange != "no timestamped plays" {
		t.Errorf("DateRange = %q", report.Metadata.DateRange)
	}
}
