package store

import (
	"testing"
	"time"

	"github.com/avhart/spotify-history-tools/internal/dataset"
)

func createTestStore(t *testing.T, d *dataset.Dataset, loc *time.Location) *Store {
	t.Helper()

	s, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.InsertDataset(d, loc); err != nil {
		t.Fatalf("InsertDataset: %v", err)
	}
	return s
}

func play(artist, track, ts string) dataset.Record {
	return dataset.Record{
		"master_metadata_album_artist_name": artist,
		"master_metadata_track_name":        track,
		"ts":                                ts,
	}
}

func TestTopArtists(t *testing.T) {
	d := dataset.New()
	d.Append(play("Caribou", "Odessa", "2023-01-01T10:00:00Z"))
	d.Append(play("Caribou", "Sun", "2023-01-02T10:00:00Z"))
	d.Append(play("Four Tet", "Baby", "2023-01-03T10:00:00Z"))

	s := createTestStore(t, d, time.UTC)

	artists, err := s.TopArtists(10)
	if err != nil {
		t.Fatalf("TopArtists: %v", err)
	}
	if len(artists) != 2 {
		t.Fatalf("len = %d, want 2", len(artists))
	}
	if artists[0].Label != "Caribou" || artists[0].Count != 2 {
		t.Errorf("top artist = %+v, want Caribou/2", artists[0])
	}
}

func TestTopTracksUsesTrackArtistLabel(t *testing.T) {
	d := dataset.New()
	d.Append(play("Caribou", "Odessa", "2023-01-01T10:00:00Z"))
	d.Append(play("Caribou", "Odessa", "2023-01-02T10:00:00Z"))

	s := createTestStore(t, d, time.UTC)

	tracks, err := s.TopTracks(10)
	if err != nil {
		t.Fatalf("TopTracks: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("len = %d, want 1", len(tracks))
	}
	if tracks[0].Label != "Odessa - Caribou" {
		t.Errorf("label = %q, want %q", tracks[0].Label, "Odessa - Caribou")
	}
}

func TestRowsWithoutArtistExcludedFromRankings(t *testing.T) {
	d := dataset.New()
	d.Append(play("Caribou", "Odessa", "2023-01-01T10:00:00Z"))
	d.Append(dataset.Record{"ts": "2023-01-02T10:00:00Z", "episode_name": "Ep 1"})

	s := createTestStore(t, d, time.UTC)

	total, err := s.TotalPlays()
	if err != nil {
		t.Fatalf("TotalPlays: %v", err)
	}
	if total != 2 {
		t.Errorf("TotalPlays = %d, want 2", total)
	}

	artists, err := s.TopArtists(10)
	if err != nil {
		t.Fatalf("TopArtists: %v", err)
	}
	if len(artists) != 1 {
		t.Errorf("len = %d, want 1 (podcast row has no artist)", len(artists))
	}
}

func TestHourBucketingUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}

	d := dataset.New()
	// 23:30 UTC on a winter date is 18:30 in New York.
	d.Append(play("Caribou", "Odessa", "2023-01-15T23:30:00Z"))

	s := createTestStore(t, d, loc)

	hours, err := s.CountsBy("hour")
	if err != nil {
		t.Fatalf("CountsBy(hour): %v", err)
	}
	if len(hours) != 1 {
		t.Fatalf("len = %d, want 1", len(hours))
	}
	if hours[0].Label != "18" {
		t.Errorf("hour bucket = %q, want %q", hours[0].Label, "18")
	}
}

func TestSkipRatesThreshold(t *testing.T) {
	d := dataset.New()
	// "Odessa" has 10 plays, 5 skipped; "Baby" only 3 plays.
	for i := 0; i < 10; i++ {
		r := play("Caribou", "Odessa", "2023-01-01T10:00:00Z")
		r["skipped"] = i < 5
		d.Append(r)
	}
	for i := 0; i < 3; i++ {
		r := play("Four Tet", "Baby", "2023-01-01T10:00:00Z")
		r["skipped"] = true
		d.Append(r)
	}

	s := createTestStore(t, d, time.UTC)

	rates, err := s.SkipRates(10, 50, false)
	if err != nil {
		t.Fatalf("SkipRates: %v", err)
	}
	if len(rates) != 1 {
		t.Fatalf("len = %d, want 1 (3-play track is under the threshold)", len(rates))
	}
	r := rates[0]
	if r.Track != "Odessa - Caribou" || r.Plays != 10 || r.Skips != 5 || r.Rate != 0.5 {
		t.Errorf("rate = %+v, want Odessa - Caribou 10/5/0.5", r)
	}
}

func TestSkippedByButton(t *testing.T) {
	d := dataset.New()
	r1 := play("Caribou", "Odessa", "2023-01-01T10:00:00Z")
	r1["reason_end"] = "fwdbtn"
	r2 := play("Caribou", "Sun", "2023-01-01T11:00:00Z")
	r2["reason_end"] = "trackdone"
	d.Append(r1)
	d.Append(r2)

	s := createTestStore(t, d, time.UTC)

	skips, err := s.SkippedByButton(10)
	if err != nil {
		t.Fatalf("SkippedByButton: %v", err)
	}
	if len(skips) != 1 || skips[0].Label != "Odessa - Caribou" {
		t.Errorf("skips = %+v, want only Odessa - Caribou", skips)
	}
}

func TestCountsByRejectsUnknownColumn(t *testing.T) {
	s := createTestStore(t, dataset.New(), time.UTC)

	if _, err := s.CountsBy("id; DROP TABLE Play"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestDateRange(t *testing.T) {
	d := dataset.New()
	d.Append(play("Caribou", "Odessa", "2023-03-01T10:00:00Z"))
	d.Append(play("Caribou", "Sun", "2023-07-01T10:00:00Z"))

	s := createTestStore(t, d, time.UTC)

	min, max, ok, err := s.DateRange()
	if err != nil {
		t.Fatalf("DateRange: %v", err)
	}
	if !ok {
		t.Fatal("expected a date range")
	}
	if min.Format("2006-01-02") != "2023-03-01" || max.Format("2006-01-02") != "2023-07-01" {
		t.Errorf("range = %s..%s, want 2023-03-01..2023-07-01", min, max)
	}
}

func TestDateRangeEmpty(t *testing.T) {
	s := createTestStore(t, dataset.New(), time.UTC)

	_, _, ok, err := s.DateRange()
	if err != nil {
		t.Fatalf("DateRange: %v", err)
	}
	if ok {
		t.Error("empty store should have no date range")
	}
}
