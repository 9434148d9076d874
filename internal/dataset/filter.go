package dataset

import (
	"fmt"
	"time"
)

// MinPlayMs is the minimum-duration cutoff: plays shorter than 30
// seconds are treated as noise (skips, previews).
const MinPlayMs = 30000

// FilterByDateRange returns a new dataset restricted to rows whose
// timestamp field falls within [start, end], both inclusive and both
// optional. If the field is not in the column set the input is
// returned unchanged with a warning; a dataset missing expected
// fields should still be usable.
//
// Timezone handling: zone-aware values are compared in UTC against
// naive bounds (bounds are interpreted as UTC); naive values are
// compared directly.
func FilterByDateRange(d *Dataset, start, end *time.Time, field string) *Dataset {
	if start == nil && end == nil {
		return d
	}
	if !d.HasColumn(field) {
		fmt.Printf("Warning: column %q not found, skipping date filter.\n", field)
		return d
	}

	out := New()
	unparsed := 0
	for _, r := range d.rows {
		t, zoned, ok := ParseTimestamp(r[field])
		if !ok {
			unparsed++
			continue
		}
		if zoned {
			t = t.UTC()
		}
		if start != nil && t.Before(*start) {
			continue
		}
		if end != nil && t.After(*end) {
			continue
		}
		out.Append(r)
	}
	if unparsed > 0 {
		fmt.Printf("Warning: %d rows had unparseable %q values and were excluded.\n", unparsed, field)
	}
	fmt.Printf("Date filter: %d of %d records retained.\n", out.Len(), d.Len())
	return out
}

// FilterByMinDuration retains rows with ms_played >= MinPlayMs. If the
// column is missing entirely the input passes through with a warning.
func FilterByMinDuration(d *Dataset) *Dataset {
	if !d.HasColumn("ms_played") {
		fmt.Println("Warning: column \"ms_played\" not found, skipping duration filter.")
		return d
	}

	out := New()
	for _, r := range d.rows {
		ms, ok := r.Int("ms_played")
		if ok && ms >= MinPlayMs {
			out.Append(r)
		}
	}
	fmt.Printf("Duration filter (>= %ds): %d of %d records retained.\n", MinPlayMs/1000, out.Len(), d.Len())
	return out
}

// FilterMusicOnly retains rows that are music plays: no episode_name
// (podcasts have one) and an artist other than the literal "Spotify"
// (platform-injected entries such as ads or narration).
func FilterMusicOnly(d *Dataset) *Dataset {
	if !d.HasColumn("episode_name") && !d.HasColumn("master_metadata_album_artist_name") {
		fmt.Println("Warning: no podcast or artist columns found, skipping music-only filter.")
		return d
	}

	out := New()
	for _, r := range d.rows {
		if !r.Missing("episode_name") {
			continue
		}
		if artist, ok := r.String("master_metadata_album_artist_name"); ok && artist == "Spotify" {
			continue
		}
		out.Append(r)
	}
	fmt.Printf("Music-only filter: %d of %d records retained.\n", out.Len(), d.Len())
	return out
}

// ApplyFlagFilters applies the togglable predicates in their fixed
// order: duration first, then music-only. The intermediate counts
// printed by each filter depend on this order.
func ApplyFlagFilters(d *Dataset, minDuration, musicOnly bool) *Dataset {
	if minDuration {
		d = FilterByMinDuration(d)
	}
	if musicOnly {
		d = FilterMusicOnly(d)
	}
	return d
}
